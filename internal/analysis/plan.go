// Package analysis executes structured query plans against the canonical
// agricultural tables: cross-state comparison, district extremes, rainfall
// trends, and production/rainfall correlation. Every numeric answer
// carries citations for the datasets it was computed from and a confidence
// score derived from data quality, sample size, and recency.
//
// Plan construction (parsing a natural-language question) is an upstream
// concern; this package consumes plans that are already structured.
package analysis

import (
	"errors"
	"fmt"
)

// Intent selects the analysis to run.
type Intent string

const (
	IntentComparison  Intent = "comparison"
	IntentExtremes    Intent = "extremes"
	IntentTrends      Intent = "trends"
	IntentCorrelation Intent = "correlation"
)

// Metric selects the measure a plan operates on.
type Metric string

const (
	MetricProduction Metric = "production"
	MetricRainfall   Metric = "rainfall"
)

// QueryPlan is a structured, executable representation of a question.
type QueryPlan struct {
	Intent    Intent   `json:"intent"`
	Metric    Metric   `json:"metric"`
	States    []string `json:"states"`
	Crops     []string `json:"crops,omitempty"`
	Season    string   `json:"season,omitempty"`
	YearStart int      `json:"year_start,omitempty"`
	YearEnd   int      `json:"year_end,omitempty"`
}

// Validate checks the plan's structural preconditions. Data-quality
// problems never surface here; only plans that cannot be dispatched at
// all are rejected.
func (p QueryPlan) Validate() error {
	switch p.Intent {
	case IntentComparison, IntentExtremes, IntentTrends, IntentCorrelation:
	default:
		return fmt.Errorf("unknown intent %q", p.Intent)
	}
	switch p.Metric {
	case MetricProduction, MetricRainfall:
	default:
		return fmt.Errorf("unknown metric %q", p.Metric)
	}
	if len(p.States) == 0 {
		return errors.New("plan needs at least one state")
	}
	if p.YearStart != 0 && p.YearEnd != 0 && p.YearEnd < p.YearStart {
		return fmt.Errorf("year range inverted: %d..%d", p.YearStart, p.YearEnd)
	}
	return nil
}

// crop returns the plan's primary crop, or "" when none was requested.
func (p QueryPlan) crop() string {
	if len(p.Crops) == 0 {
		return ""
	}
	return p.Crops[0]
}

// Citation names a dataset a numeric claim was computed from.
type Citation struct {
	Name       string            `json:"name"`
	ResourceID string            `json:"resource_id"`
	Filters    map[string]string `json:"filters,omitempty"`
}

// Row is one line of a result table, keyed by canonical column name.
type Row map[string]any

// Result is an executed plan: a human-readable answer, the supporting
// rows, the datasets cited, and a 0..1 confidence score.
type Result struct {
	Answer     string     `json:"answer"`
	Rows       []Row      `json:"rows,omitempty"`
	Citations  []Citation `json:"citations"`
	Confidence float64    `json:"confidence"`
}

// Dataset citations for the two data.gov.in resources the executor reads.
var (
	productionCitation = Citation{
		Name:       "District-wise crop production statistics (data.gov.in)",
		ResourceID: "35be999b-0208-4354-b557-f6ca9a5355de",
	}
	rainfallCitation = Citation{
		Name:       "IMD sub-divisional monthly rainfall (data.gov.in)",
		ResourceID: "8e0bd482-4aba-4d99-9cb9-ff124f6f1c2f",
	}
)

func citationWithFilters(base Citation, filters map[string]string) Citation {
	base.Filters = filters
	return base
}
