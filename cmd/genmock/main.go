// Command genmock reads archived data.gov.in CSV exports and generates mock
// data fixtures for the test suites: raw JSON rows shaped like the live API
// responses, and their canonical forms produced by the actual normalizers,
// so fixture output always matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv-dir data/csv \
//	  -out-dir data/mock
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/couchcryptid/agri-data-etl/internal/mappings"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvDir := flag.String("csv-dir", "", "directory containing production.csv and rainfall.csv exports")
	outDir := flag.String("out-dir", "", "output directory for JSON fixtures")
	flag.Parse()

	if *csvDir == "" || *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-dir, -out-dir")
	}

	// Fixed clock for reproducible NormalizedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.January, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	prodRaw, err := readCSVAsRawRecords(filepath.Join(*csvDir, "production.csv"))
	if err != nil {
		return fmt.Errorf("reading production.csv: %w", err)
	}
	rainRaw, err := readCSVAsRawRecords(filepath.Join(*csvDir, "rainfall.csv"))
	if err != nil {
		return fmt.Errorf("reading rainfall.csv: %w", err)
	}

	// Run the actual normalization pipeline.
	production, prodReport := domain.NormalizeProduction(prodRaw)
	production = mappings.Canonicalize(production)
	rainfall, rainReport := domain.NormalizeRainfall(rainRaw)

	fixtures := map[string]any{
		"production_raw.json":       prodRaw,
		"production_canonical.json": production,
		"rainfall_raw.json":         rainRaw,
		"rainfall_canonical.json":   rainfall,
	}
	for name, v := range fixtures {
		path := filepath.Join(*outDir, name)
		if err := writeJSON(path, v); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("wrote fixture: %s", path)
	}

	printStats(production, prodReport, rainfall, rainReport)
	return nil
}

// readCSVAsRawRecords loads a CSV export as API-shaped raw records: header
// names become field names, every value stays a string. The normalizers
// coerce string numerics the same way they do for live API rows.
func readCSVAsRawRecords(path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	header := rows[0]
	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(domain.RawRecord, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[strings.TrimSpace(h)] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(production []domain.ProductionRecord, prodReport domain.NormalizeReport, rainfall []domain.RainfallRecord, rainReport domain.NormalizeReport) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Production: input=%d kept=%d bad_year=%d non_positive=%d\n",
		prodReport.Input, prodReport.Kept, prodReport.DroppedBadYear, prodReport.DroppedNonPositive)
	fmt.Printf("Rainfall:   input=%d kept=%d bad_year=%d non_positive=%d missing_name=%d\n",
		rainReport.Input, rainReport.Kept, rainReport.DroppedBadYear, rainReport.DroppedNonPositive, rainReport.DroppedMissingName)

	states := map[string]int{}
	crops := map[string]int{}
	for _, rec := range production {
		states[rec.StateName]++
		crops[rec.Crop]++
	}
	fmt.Printf("Production states: %d distinct, crops: %d distinct\n", len(states), len(crops))

	byState, aggReport := domain.AggregateRainfallToState(rainfall, mappings.SubdivisionStates)
	fmt.Printf("Rainfall rollup: %d (state, year) rows, %d unmapped rows", len(byState), aggReport.Unmapped)
	if len(aggReport.UnmappedSubdivisions) > 0 {
		fmt.Printf(" (%s)", strings.Join(aggReport.UnmappedSubdivisions, ", "))
	}
	fmt.Println()

	validation := domain.ValidateProductionTable(production)
	fmt.Printf("Production validation: %d violations, %d warnings, score=%.3f\n",
		len(validation.Violations), len(validation.Warnings), validation.Score())
	rainValidation := domain.ValidateRainfallTable(rainfall)
	fmt.Printf("Rainfall validation:   %d violations, %d warnings, score=%.3f\n",
		len(rainValidation.Violations), len(rainValidation.Warnings), rainValidation.Score())
}
