// Command validate performs end-to-end data integrity checks across the
// mock fixtures: raw JSON rows and their canonical JSON forms. It verifies
// normalization parity, canonical-table invariants, renormalization
// idempotence, and rainfall aggregation consistency.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -production-raw data/mock/production_raw.json \
//	  -production-canonical data/mock/production_canonical.json \
//	  -rainfall-raw data/mock/rainfall_raw.json \
//	  -rainfall-canonical data/mock/rainfall_canonical.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/couchcryptid/agri-data-etl/internal/mappings"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	prodRaw := flag.String("production-raw", "", "path to raw production JSON fixture")
	prodCanonical := flag.String("production-canonical", "", "path to canonical production JSON fixture")
	rainRaw := flag.String("rainfall-raw", "", "path to raw rainfall JSON fixture")
	rainCanonical := flag.String("rainfall-canonical", "", "path to canonical rainfall JSON fixture")
	flag.Parse()

	if *prodRaw == "" || *prodCanonical == "" || *rainRaw == "" || *rainCanonical == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*prodRaw, *prodCanonical, *rainRaw, *rainCanonical); code != 0 {
		os.Exit(code)
	}
}

func run(prodRawPath, prodCanonicalPath, rainRawPath, rainCanonicalPath string) int {
	// Fixed clock matching genmock, so year bounds and NormalizedAt agree.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.January, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Agricultural Data Integrity Validation ===")
	fmt.Println()

	prodRawRecords, err := loadJSON[domain.RawRecord](prodRawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw production JSON: %v\n", err)
		return 1
	}
	production, err := loadJSON[domain.ProductionRecord](prodCanonicalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load canonical production JSON: %v\n", err)
		return 1
	}
	rainRawRecords, err := loadJSON[domain.RawRecord](rainRawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw rainfall JSON: %v\n", err)
		return 1
	}
	rainfall, err := loadJSON[domain.RainfallRecord](rainCanonicalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load canonical rainfall JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateNormalizationParity(prodRawRecords, production, rainRawRecords, rainfall),
		validateInvariants(production, rainfall),
		validateIdempotence(production, rainfall),
		validateAggregation(rainfall),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-48s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw production, %d canonical production, %d raw rainfall, %d canonical rainfall\n",
		len(prodRawRecords), len(production), len(rainRawRecords), len(rainfall))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Normalization Parity ──
// Re-runs the normalizers on the raw fixtures and compares the output with
// the canonical fixtures record by record.

func validateNormalizationParity(prodRaw []domain.RawRecord, production []domain.ProductionRecord, rainRaw []domain.RawRecord, rainfall []domain.RainfallRecord) *phase {
	p := &phase{name: "Phase 1: Normalization Parity (raw vs canonical)"}

	renormalized, report := domain.NormalizeProduction(prodRaw)
	renormalized = mappings.Canonicalize(renormalized)
	if len(renormalized) != len(production) {
		p.errorf("production: renormalization yields %d records, canonical fixture has %d", len(renormalized), len(production))
	}
	if report.Input != report.Kept+report.Dropped() {
		p.errorf("production report does not account for every row: input=%d kept=%d dropped=%d", report.Input, report.Kept, report.Dropped())
	}
	for i := 0; i < len(renormalized) && i < len(production); i++ {
		if !productionEq(renormalized[i], production[i]) {
			p.errorf("production record %d (ID %s): renormalized output differs from fixture", i, production[i].ID())
		}
	}

	rainRenormalized, rainReport := domain.NormalizeRainfall(rainRaw)
	if len(rainRenormalized) != len(rainfall) {
		p.errorf("rainfall: renormalization yields %d records, canonical fixture has %d", len(rainRenormalized), len(rainfall))
	}
	if rainReport.Input != rainReport.Kept+rainReport.Dropped() {
		p.errorf("rainfall report does not account for every row: input=%d kept=%d dropped=%d", rainReport.Input, rainReport.Kept, rainReport.Dropped())
	}
	for i := 0; i < len(rainRenormalized) && i < len(rainfall); i++ {
		if !rainfallEq(rainRenormalized[i], rainfall[i]) {
			p.errorf("rainfall record %d (ID %s): renormalized output differs from fixture", i, rainfall[i].ID())
		}
	}
	return p
}

// ── Phase 2: Canonical Invariants ──
// Runs the table validators; any hard violation in a published fixture is a
// defect.

func validateInvariants(production []domain.ProductionRecord, rainfall []domain.RainfallRecord) *phase {
	p := &phase{name: "Phase 2: Canonical Invariants (validators)"}

	report := domain.ValidateProductionTable(production)
	for _, v := range report.Violations {
		p.errorf("production %s", v)
	}
	if len(report.Warnings) > 0 {
		fmt.Printf("  Note: %d production plausibility warning(s)\n", len(report.Warnings))
	}

	rainReport := domain.ValidateRainfallTable(rainfall)
	for _, v := range rainReport.Violations {
		p.errorf("rainfall %s", v)
	}
	if len(rainReport.Warnings) > 0 {
		fmt.Printf("  Note: %d rainfall plausibility warning(s)\n", len(rainReport.Warnings))
	}
	return p
}

// ── Phase 3: Idempotence ──
// Normalizing already canonical rows must change nothing and drop nothing.

func validateIdempotence(production []domain.ProductionRecord, rainfall []domain.RainfallRecord) *phase {
	p := &phase{name: "Phase 3: Idempotence (renormalize canonical)"}

	prodRows := make([]domain.RawRecord, len(production))
	for i, rec := range production {
		prodRows[i] = domain.RawRecord{
			"state_name":       rec.StateName,
			"district_name":    rec.DistrictName,
			"year":             rec.Year,
			"season":           rec.Season,
			"crop":             rec.Crop,
			"area_ha":          rec.AreaHa,
			"production_tonne": rec.ProductionTonne,
		}
	}
	again, report := domain.NormalizeProduction(prodRows)
	if report.Dropped() > 0 {
		p.errorf("production: renormalizing canonical rows dropped %d records", report.Dropped())
	}
	for i := 0; i < len(again) && i < len(production); i++ {
		if !productionEq(again[i], production[i]) {
			p.errorf("production record %d (ID %s): not stable under renormalization", i, production[i].ID())
		}
	}

	rainRows := make([]domain.RawRecord, len(rainfall))
	for i, rec := range rainfall {
		rainRows[i] = domain.RawRecord{
			"subdivision_name": rec.SubdivisionName,
			"year":             rec.Year,
			"rainfall_mm":      rec.RainfallMM,
		}
	}
	rainAgain, rainReport := domain.NormalizeRainfall(rainRows)
	if rainReport.Dropped() > 0 {
		p.errorf("rainfall: renormalizing canonical rows dropped %d records", rainReport.Dropped())
	}
	for i := 0; i < len(rainAgain) && i < len(rainfall); i++ {
		if !rainfallEq(rainAgain[i], rainfall[i]) {
			p.errorf("rainfall record %d (ID %s): not stable under renormalization", i, rainfall[i].ID())
		}
	}
	return p
}

// ── Phase 4: Aggregation Consistency ──
// The state rollup must stay within the bounds of its contributing
// sub-divisions and account for every unmapped row.

func validateAggregation(rainfall []domain.RainfallRecord) *phase {
	p := &phase{name: "Phase 4: Aggregation Consistency (state rollup)"}

	byState, report := domain.AggregateRainfallToState(rainfall, mappings.SubdivisionStates)

	// Index sub-division values per (state, year) to bound the means.
	type key struct {
		state string
		year  int
	}
	lo := map[key]float64{}
	hi := map[key]float64{}
	owners := map[string][]string{}
	for _, edge := range mappings.SubdivisionStates {
		owners[edge.Subdivision] = append(owners[edge.Subdivision], edge.State)
	}
	unmapped := 0
	for _, rec := range rainfall {
		states, ok := owners[rec.SubdivisionName]
		if !ok {
			unmapped++
			continue
		}
		for _, state := range states {
			k := key{state, rec.Year}
			if _, seen := lo[k]; !seen || rec.RainfallMM < lo[k] {
				lo[k] = rec.RainfallMM
			}
			if rec.RainfallMM > hi[k] {
				hi[k] = rec.RainfallMM
			}
		}
	}

	if report.Unmapped != unmapped {
		p.errorf("unmapped count: aggregator reports %d, recount found %d", report.Unmapped, unmapped)
	}

	for _, rec := range byState {
		k := key{rec.StateName, rec.Year}
		min, ok := lo[k]
		if !ok {
			p.errorf("rollup row (%s, %d) has no contributing sub-divisions", rec.StateName, rec.Year)
			continue
		}
		if rec.RainfallMM < min-1e-9 || rec.RainfallMM > hi[k]+1e-9 {
			p.errorf("rollup (%s, %d): mean %.2f outside contributing range [%.2f, %.2f]",
				rec.StateName, rec.Year, rec.RainfallMM, min, hi[k])
		}
	}
	return p
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func productionEq(a, b domain.ProductionRecord) bool {
	return a.StateName == b.StateName &&
		a.DistrictName == b.DistrictName &&
		a.Year == b.Year &&
		a.Season == b.Season &&
		a.Crop == b.Crop &&
		floatEq(a.AreaHa, b.AreaHa) &&
		floatEq(a.ProductionTonne, b.ProductionTonne)
}

func rainfallEq(a, b domain.RainfallRecord) bool {
	return a.SubdivisionName == b.SubdivisionName &&
		a.Year == b.Year &&
		floatEq(a.RainfallMM, b.RainfallMM)
}
