package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NormalizeProduction converts raw crop-production API rows into canonical
// ProductionRecords. Rows are dropped (and counted in the report) when the
// year does not coerce to an integer or production_tonne is missing, zero,
// or negative. String identifiers are trimmed; missing ones become "" so
// the output never carries nulls. Input order is preserved.
func NormalizeProduction(records []RawRecord) ([]ProductionRecord, NormalizeReport) {
	report := NormalizeReport{Input: len(records), NormalizedAt: clock.Now()}
	out := make([]ProductionRecord, 0, len(records))

	for _, rec := range records {
		year, ok := resolveYear(ProductionAliases, rec)
		if !ok {
			report.DroppedBadYear++
			continue
		}

		production, ok := resolveFloat(ProductionAliases, rec, "production_tonne")
		if !ok || production <= 0 {
			report.DroppedNonPositive++
			continue
		}

		// Non-numeric area is null-equivalent; the row survives with 0
		// because area is a secondary measurement, unlike production.
		area, _ := resolveFloat(ProductionAliases, rec, "area_ha")
		if area < 0 {
			area = 0
		}

		out = append(out, ProductionRecord{
			StateName:       ProductionAliases.ResolveString(rec, "state_name"),
			DistrictName:    ProductionAliases.ResolveString(rec, "district_name"),
			Year:            year,
			Season:          ProductionAliases.ResolveString(rec, "season"),
			Crop:            ProductionAliases.ResolveString(rec, "crop"),
			AreaHa:          area,
			ProductionTonne: production,
		})
	}

	report.Kept = len(out)
	return out, report
}

// NormalizeRainfall converts raw IMD rainfall rows into canonical
// RainfallRecords. Two source shapes are handled:
//
//   - monthly: any of the twelve month fields present; rainfall_mm is
//     their sum, with missing or non-numeric months counted as zero
//   - annual: a single pre-aggregated "annual" field
//
// When a row carries both, the monthly sum wins — monthly data is the more
// granular source and the annual column has been observed to lag it.
// Rows with a non-coercible year or a blank sub-division name are dropped
// and counted.
func NormalizeRainfall(records []RawRecord) ([]RainfallRecord, NormalizeReport) {
	report := NormalizeReport{Input: len(records), NormalizedAt: clock.Now()}
	out := make([]RainfallRecord, 0, len(records))

	for _, rec := range records {
		name := RainfallAliases.ResolveString(rec, "subdivision_name")
		if name == "" {
			report.DroppedMissingName++
			continue
		}

		year, ok := resolveYear(RainfallAliases, rec)
		if !ok {
			report.DroppedBadYear++
			continue
		}

		rainfall, ok := monthlySum(rec)
		if !ok {
			rainfall, ok = resolveFloat(RainfallAliases, rec, "annual")
		}
		if !ok || rainfall <= 0 {
			report.DroppedNonPositive++
			continue
		}

		out = append(out, RainfallRecord{
			SubdivisionName: name,
			Year:            year,
			RainfallMM:      rainfall,
		})
	}

	report.Kept = len(out)
	return out, report
}

// monthlySum detects the monthly schema shape and sums the twelve month
// columns. Returns false when no month field is present at all.
func monthlySum(rec RawRecord) (float64, bool) {
	var sum float64
	found := false
	for _, aliases := range monthAliases {
		for _, alias := range aliases {
			v, ok := rec[alias]
			if !ok {
				continue
			}
			found = true
			if mm, ok := coerceFloat(v); ok {
				sum += mm
			}
			break
		}
	}
	return sum, found
}

func resolveYear(table AliasTable, rec RawRecord) (int, bool) {
	v, ok := table.Resolve(rec, "year")
	if !ok {
		return 0, false
	}
	return coerceInt(v)
}

func resolveFloat(table AliasTable, rec RawRecord, canonical string) (float64, bool) {
	v, ok := table.Resolve(rec, canonical)
	if !ok {
		return 0, false
	}
	return coerceFloat(v)
}

// coerceFloat accepts the scalar shapes the APIs actually emit: JSON
// numbers, numeric strings, and json.Number. Everything else is
// null-equivalent.
func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "null") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceInt parses integer years, tolerating float encodings like 2015.0
// but rejecting fractional values.
func coerceInt(v any) (int, bool) {
	f, ok := coerceFloat(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
