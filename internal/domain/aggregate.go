package domain

import "sort"

// SubdivisionState is one edge of the sub-division → state relation. The
// relation is many-to-many: composite IMD sub-divisions own several states.
type SubdivisionState struct {
	Subdivision string
	State       string
}

// AggregateReport records what the rollup could not place.
type AggregateReport struct {
	// Unmapped counts input rows whose sub-division has no relation entry.
	Unmapped int `json:"unmapped"`
	// UnmappedSubdivisions lists the distinct offending names, sorted.
	UnmappedSubdivisions []string `json:"unmapped_subdivisions,omitempty"`
}

// AggregateRainfallToState rolls sub-division rainfall up to (state, year)
// using the given relation. The state value is the mean of its
// sub-divisions' rainfall for that year: sub-divisions are non-overlapping
// areal averages, so summing them would double-count intensity.
//
// A sub-division mapped to several states contributes its full rainfall_mm
// to each state's mean. This is a deliberate simplifying approximation —
// the value is not split proportionally by area.
//
// Rows whose sub-division is absent from the relation are excluded and
// reported, not silently dropped. Output is sorted by state then year.
func AggregateRainfallToState(records []RainfallRecord, relation []SubdivisionState) ([]StateRainfall, AggregateReport) {
	states := make(map[string][]string, len(relation))
	for _, edge := range relation {
		states[edge.Subdivision] = append(states[edge.Subdivision], edge.State)
	}

	type key struct {
		state string
		year  int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)

	var report AggregateReport
	unmappedSeen := make(map[string]bool)

	for _, rec := range records {
		owners, ok := states[rec.SubdivisionName]
		if !ok {
			report.Unmapped++
			if !unmappedSeen[rec.SubdivisionName] {
				unmappedSeen[rec.SubdivisionName] = true
				report.UnmappedSubdivisions = append(report.UnmappedSubdivisions, rec.SubdivisionName)
			}
			continue
		}
		for _, state := range owners {
			k := key{state: state, year: rec.Year}
			sums[k] += rec.RainfallMM
			counts[k]++
		}
	}
	sort.Strings(report.UnmappedSubdivisions)

	out := make([]StateRainfall, 0, len(sums))
	for k, sum := range sums {
		out = append(out, StateRainfall{
			StateName:  k.state,
			Year:       k.year,
			RainfallMM: sum / float64(counts[k]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StateName != out[j].StateName {
			return out[i].StateName < out[j].StateName
		}
		return out[i].Year < out[j].Year
	})

	return out, report
}
