package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
)

// ProductionQuery filters a production fetch. Zero values mean "no filter".
type ProductionQuery struct {
	State  string
	Crop   string
	Season string
	Year   int
}

// Source provides canonical tables to the executor. The data.gov.in
// connector implements it; tests use a fixture-backed fake.
type Source interface {
	// Production returns canonical production records matching the query,
	// along with the normalization report for the fetched batch.
	Production(ctx context.Context, q ProductionQuery) ([]domain.ProductionRecord, domain.NormalizeReport, error)

	// StateRainfall returns state-level annual rainfall for the inclusive
	// year range. A zero bound leaves that side of the range open.
	StateRainfall(ctx context.Context, state string, yearStart, yearEnd int) ([]domain.StateRainfall, error)
}

// Executor runs query plans against a Source.
type Executor struct {
	source Source
	logger *slog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(source Source, logger *slog.Logger) *Executor {
	return &Executor{source: source, logger: logger}
}

// Execute dispatches a plan to its intent handler. Plans that cannot be
// dispatched fail hard; thin or missing data produces a low-confidence
// result instead of an error.
func (e *Executor) Execute(ctx context.Context, plan QueryPlan) (Result, error) {
	if err := plan.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid query plan: %w", err)
	}

	switch plan.Intent {
	case IntentComparison:
		return e.executeComparison(ctx, plan)
	case IntentExtremes:
		return e.executeExtremes(ctx, plan)
	case IntentTrends:
		return e.executeTrends(ctx, plan)
	case IntentCorrelation:
		return e.executeCorrelation(ctx, plan)
	default:
		return Result{}, fmt.Errorf("unknown intent %q", plan.Intent)
	}
}

// executeComparison ranks the plan's states by total production or mean
// rainfall and quantifies the gap between the top two.
func (e *Executor) executeComparison(ctx context.Context, plan QueryPlan) (Result, error) {
	switch plan.Metric {
	case MetricProduction:
		return e.compareProduction(ctx, plan)
	case MetricRainfall:
		return e.compareRainfall(ctx, plan)
	default:
		return Result{}, fmt.Errorf("comparison not supported for metric %q", plan.Metric)
	}
}

func (e *Executor) compareProduction(ctx context.Context, plan QueryPlan) (Result, error) {
	totals := make(map[string]float64, len(plan.States))
	var sampleSize int
	var quality []float64

	for _, state := range plan.States {
		records, report, err := e.source.Production(ctx, ProductionQuery{
			State:  state,
			Crop:   plan.crop(),
			Season: plan.Season,
			Year:   plan.YearStart,
		})
		if err != nil {
			return Result{}, fmt.Errorf("fetch production for %s: %w", state, err)
		}
		sampleSize += len(records)
		quality = append(quality, qualityScore(domain.ValidateProductionTable(records), report))
		for _, rec := range records {
			totals[state] += rec.ProductionTonne
		}
	}

	ranked := rankDesc(totals)
	rows := make([]Row, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, Row{"state_name": r.key, "production_tonne": r.value})
	}

	crop := plan.crop()
	if crop == "" {
		crop = "crop"
	}
	answer := "Insufficient data for comparison."
	if len(ranked) >= 2 && ranked[1].value > 0 {
		diff := ranked[0].value - ranked[1].value
		pct := diff / ranked[1].value * 100
		answer = fmt.Sprintf("%s had higher %s production in %d with %.0f tonnes, %.0f tonnes (%.1f%%) more than %s.",
			ranked[0].key, crop, plan.YearStart, ranked[0].value, diff, pct, ranked[1].key)
	}

	return Result{
		Answer: answer,
		Rows:   rows,
		Citations: []Citation{citationWithFilters(productionCitation, map[string]string{
			"states": strings.Join(plan.States, ","),
			"crop":   plan.crop(),
			"year":   strconv.Itoa(plan.YearStart),
		})},
		Confidence: confidence(mean(quality), sampleSize, plan.YearEnd),
	}, nil
}

func (e *Executor) compareRainfall(ctx context.Context, plan QueryPlan) (Result, error) {
	means := make(map[string]float64, len(plan.States))
	var sampleSize int

	for _, state := range plan.States {
		records, err := e.source.StateRainfall(ctx, state, plan.YearStart, plan.YearEnd)
		if err != nil {
			return Result{}, fmt.Errorf("fetch rainfall for %s: %w", state, err)
		}
		sampleSize += len(records)
		var sum float64
		for _, rec := range records {
			sum += rec.RainfallMM
		}
		if len(records) > 0 {
			means[state] = sum / float64(len(records))
		}
	}

	ranked := rankDesc(means)
	rows := make([]Row, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, Row{"state_name": r.key, "rainfall_mm": r.value})
	}

	answer := "Insufficient data for comparison."
	if len(ranked) >= 2 && ranked[1].value > 0 {
		diff := ranked[0].value - ranked[1].value
		pct := diff / ranked[1].value * 100
		answer = fmt.Sprintf("%s received higher rainfall in %s with %.0fmm average, %.0fmm (%.1f%%) more than %s.",
			ranked[0].key, yearRangeText(plan), ranked[0].value, diff, pct, ranked[1].key)
	}

	return Result{
		Answer: answer,
		Rows:   rows,
		Citations: []Citation{citationWithFilters(rainfallCitation, map[string]string{
			"states":     strings.Join(plan.States, ","),
			"year_start": strconv.Itoa(plan.YearStart),
			"year_end":   strconv.Itoa(plan.YearEnd),
		})},
		Confidence: confidence(defaultQuality, sampleSize, plan.YearEnd),
	}, nil
}

// executeExtremes finds the districts with the highest and lowest total
// production within a state.
func (e *Executor) executeExtremes(ctx context.Context, plan QueryPlan) (Result, error) {
	if plan.Metric != MetricProduction {
		return Result{}, fmt.Errorf("extremes not supported for metric %q", plan.Metric)
	}

	state := plan.States[0]
	records, report, err := e.source.Production(ctx, ProductionQuery{
		State:  state,
		Crop:   plan.crop(),
		Season: plan.Season,
		Year:   plan.YearStart,
	})
	if err != nil {
		return Result{}, fmt.Errorf("fetch production for %s: %w", state, err)
	}

	totals := make(map[string]float64)
	for _, rec := range records {
		totals[rec.DistrictName] += rec.ProductionTonne
	}
	ranked := rankDesc(totals)

	rows := make([]Row, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, Row{"district_name": r.key, "production_tonne": r.value})
	}

	crop := plan.crop()
	if crop == "" {
		crop = "crop"
	}
	answer := "No data found."
	if len(ranked) > 0 {
		top := ranked[0]
		answer = fmt.Sprintf("%s district in %s has the highest %s production with %.0f tonnes.",
			top.key, state, crop, top.value)
		if len(ranked) > 1 {
			bottom := ranked[len(ranked)-1]
			answer += fmt.Sprintf(" %s has the lowest with %.0f tonnes.", bottom.key, bottom.value)
		}
	}

	return Result{
		Answer: answer,
		Rows:   rows,
		Citations: []Citation{citationWithFilters(productionCitation, map[string]string{
			"state": state,
			"crop":  plan.crop(),
			"year":  strconv.Itoa(plan.YearStart),
		})},
		Confidence: confidence(qualityScore(domain.ValidateProductionTable(records), report), len(records), plan.YearEnd),
	}, nil
}

// executeTrends reports the change in a state's annual rainfall between
// the first and last year of the fetched range.
func (e *Executor) executeTrends(ctx context.Context, plan QueryPlan) (Result, error) {
	if plan.Metric != MetricRainfall {
		return Result{}, fmt.Errorf("trend analysis not supported for metric %q", plan.Metric)
	}

	state := plan.States[0]
	records, err := e.source.StateRainfall(ctx, state, plan.YearStart, plan.YearEnd)
	if err != nil {
		return Result{}, fmt.Errorf("fetch rainfall for %s: %w", state, err)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{"year": rec.Year, "rainfall_mm": rec.RainfallMM})
	}

	answer := "Insufficient data for trend analysis."
	if len(records) >= 2 {
		first, last := records[0], records[len(records)-1]
		change := last.RainfallMM - first.RainfallMM
		direction := "increased"
		if change < 0 {
			direction = "decreased"
		}
		var pct float64
		if first.RainfallMM > 0 {
			pct = change / first.RainfallMM * 100
		}
		answer = fmt.Sprintf("Rainfall in %s %s from %.0fmm (%d) to %.0fmm (%d), a change of %.0fmm (%.1f%%).",
			state, direction, first.RainfallMM, first.Year, last.RainfallMM, last.Year,
			math.Abs(change), math.Abs(pct))
	}

	return Result{
		Answer: answer,
		Rows:   rows,
		Citations: []Citation{citationWithFilters(rainfallCitation, map[string]string{
			"state":      state,
			"year_start": strconv.Itoa(plan.YearStart),
			"year_end":   strconv.Itoa(plan.YearEnd),
		})},
		Confidence: confidence(defaultQuality, len(records), plan.YearEnd),
	}, nil
}

// executeCorrelation computes the Pearson correlation between a state's
// annual crop production and its annual rainfall over the overlapping
// years of both datasets. At least three overlapping years are required.
func (e *Executor) executeCorrelation(ctx context.Context, plan QueryPlan) (Result, error) {
	state := plan.States[0]

	production, report, err := e.source.Production(ctx, ProductionQuery{
		State: state,
		Crop:  plan.crop(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("fetch production for %s: %w", state, err)
	}
	rainfall, err := e.source.StateRainfall(ctx, state, plan.YearStart, plan.YearEnd)
	if err != nil {
		return Result{}, fmt.Errorf("fetch rainfall for %s: %w", state, err)
	}

	prodByYear := make(map[int]float64)
	for _, rec := range production {
		prodByYear[rec.Year] += rec.ProductionTonne
	}
	rainByYear := make(map[int]float64)
	for _, rec := range rainfall {
		rainByYear[rec.Year] = rec.RainfallMM
	}

	var years []int
	for year := range prodByYear {
		if _, ok := rainByYear[year]; ok {
			years = append(years, year)
		}
	}
	sort.Ints(years)

	rows := make([]Row, 0, len(years))
	prodSeries := make([]float64, 0, len(years))
	rainSeries := make([]float64, 0, len(years))
	for _, year := range years {
		prodSeries = append(prodSeries, prodByYear[year])
		rainSeries = append(rainSeries, rainByYear[year])
		rows = append(rows, Row{"year": year, "production_tonne": prodByYear[year], "rainfall_mm": rainByYear[year]})
	}

	crop := plan.crop()
	if crop == "" {
		crop = "crop"
	}

	var answer string
	if len(years) >= 3 {
		r := pearson(prodSeries, rainSeries)
		answer = fmt.Sprintf("Over %d-%d, rainfall shows a %s correlation (r=%.2f) with %s production in %s.",
			years[0], years[len(years)-1], correlationStrength(r), r, crop, state)
		if r > 0.3 {
			answer += " Higher rainfall is associated with higher production."
		} else if r < -0.3 {
			answer += " Higher rainfall is associated with lower production."
		} else {
			answer += " Production appears to be driven mostly by factors other than rainfall."
		}
	} else {
		answer = fmt.Sprintf("Insufficient overlapping data for correlation analysis: %d overlapping years (need at least 3).", len(years))
	}

	return Result{
		Answer: answer,
		Rows:   rows,
		Citations: []Citation{
			citationWithFilters(productionCitation, map[string]string{"state": state, "crop": plan.crop()}),
			citationWithFilters(rainfallCitation, map[string]string{"state": state}),
		},
		Confidence: confidence(
			qualityScore(domain.ValidateProductionTable(production), report),
			len(production)+len(rainfall),
			plan.YearEnd,
		),
	}, nil
}

// correlationStrength buckets a Pearson coefficient into a label.
func correlationStrength(r float64) string {
	switch {
	case r > 0.7:
		return "strong positive"
	case r > 0.3:
		return "moderate positive"
	case r > -0.3:
		return "weak"
	case r > -0.7:
		return "moderate negative"
	default:
		return "strong negative"
	}
}

// pearson computes the Pearson correlation coefficient of two equal-length
// series. Returns 0 when either series has zero variance.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}
	meanX := mean(xs)
	meanY := mean(ys)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

type rankedEntry struct {
	key   string
	value float64
}

// rankDesc sorts map entries by value descending, breaking ties by key so
// answers are deterministic.
func rankDesc(totals map[string]float64) []rankedEntry {
	out := make([]rankedEntry, 0, len(totals))
	for k, v := range totals {
		out = append(out, rankedEntry{key: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].value != out[j].value {
			return out[i].value > out[j].value
		}
		return out[i].key < out[j].key
	})
	return out
}

func yearRangeText(plan QueryPlan) string {
	if plan.YearEnd == 0 || plan.YearEnd == plan.YearStart {
		return strconv.Itoa(plan.YearStart)
	}
	return fmt.Sprintf("%d-%d", plan.YearStart, plan.YearEnd)
}
