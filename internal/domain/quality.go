package domain

import "fmt"

// Domain bounds for plausibility warnings. Production and area caps are
// generous upper bounds for any single Indian crop/state combination; the
// rainfall cap sits above Mawsynram's ~11,000mm annual record. Rainfall
// data starts in 1901.
const (
	minYear        = 1901
	maxProductionT = 100_000_000
	maxAreaHa      = 10_000_000
	maxRainfallMM  = 12_000
)

// Violation is one broken invariant, addressable by row index so callers
// and tests can point at the exact offending record.
type Violation struct {
	Row       int    `json:"row"`
	Field     string `json:"field"`
	Invariant string `json:"invariant"`
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d: %s: %s", v.Row, v.Field, v.Invariant)
}

// ValidationReport is the structured result of a table validation.
// Violations are hard schema failures; Warnings flag implausible but
// structurally valid values (out-of-bounds measurements).
type ValidationReport struct {
	RecordCount int         `json:"record_count"`
	Violations  []Violation `json:"violations,omitempty"`
	Warnings    []Violation `json:"warnings,omitempty"`
}

// Valid reports whether the table satisfies every hard invariant.
// Warnings do not affect validity.
func (r ValidationReport) Valid() bool {
	return len(r.Violations) == 0
}

// Score returns the fraction of records without hard violations, used by
// the analysis layer as a data-quality input to answer confidence.
func (r ValidationReport) Score() float64 {
	if r.RecordCount == 0 {
		return 0
	}
	bad := make(map[int]bool, len(r.Violations))
	for _, v := range r.Violations {
		bad[v.Row] = true
	}
	return float64(r.RecordCount-len(bad)) / float64(r.RecordCount)
}

// ValidateProductionTable checks the canonical production invariants:
// non-blank identifiers, production_tonne > 0, area_ha >= 0, and a
// plausible year. It never aborts early; the report enumerates every
// violation with its row index.
func ValidateProductionTable(records []ProductionRecord) ValidationReport {
	report := ValidationReport{RecordCount: len(records)}
	maxYear := clock.Now().Year() + 1

	for i, rec := range records {
		if rec.StateName == "" {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "state_name", Invariant: "identifier must not be blank"})
		}
		if rec.DistrictName == "" {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "district_name", Invariant: "identifier must not be blank"})
		}
		if rec.Crop == "" {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "crop", Invariant: "identifier must not be blank"})
		}
		if rec.ProductionTonne <= 0 {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "production_tonne", Invariant: "must be > 0"})
		}
		if rec.AreaHa < 0 {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "area_ha", Invariant: "must be >= 0"})
		}
		if rec.Year < minYear || rec.Year > maxYear {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "year", Invariant: fmt.Sprintf("must be within %d..%d", minYear, maxYear)})
		}

		if rec.ProductionTonne > maxProductionT {
			report.Warnings = append(report.Warnings, Violation{Row: i, Field: "production_tonne", Invariant: fmt.Sprintf("exceeds plausible bound %d", maxProductionT)})
		}
		if rec.AreaHa > maxAreaHa {
			report.Warnings = append(report.Warnings, Violation{Row: i, Field: "area_ha", Invariant: fmt.Sprintf("exceeds plausible bound %d", maxAreaHa)})
		}
	}
	return report
}

// ValidateRainfallTable checks the canonical rainfall invariants:
// non-blank sub-division name, rainfall_mm > 0, and a plausible year.
func ValidateRainfallTable(records []RainfallRecord) ValidationReport {
	report := ValidationReport{RecordCount: len(records)}
	maxYear := clock.Now().Year() + 1

	for i, rec := range records {
		if rec.SubdivisionName == "" {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "subdivision_name", Invariant: "identifier must not be blank"})
		}
		if rec.RainfallMM <= 0 {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "rainfall_mm", Invariant: "must be > 0"})
		}
		if rec.Year < minYear || rec.Year > maxYear {
			report.Violations = append(report.Violations, Violation{Row: i, Field: "year", Invariant: fmt.Sprintf("must be within %d..%d", minYear, maxYear)})
		}

		if rec.RainfallMM > maxRainfallMM {
			report.Warnings = append(report.Warnings, Violation{Row: i, Field: "rainfall_mm", Invariant: fmt.Sprintf("exceeds plausible bound %d", maxRainfallMM)})
		}
	}
	return report
}
