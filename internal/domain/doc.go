// Package domain normalizes Indian agricultural and climate records from
// data.gov.in into canonical tables.
//
// # Data Sources
//
// Crop production comes from the district-wise crop production statistics
// resource (state, district, crop year, season, crop, area in hectares,
// production in tonnes). Rainfall comes from the IMD sub-divisional monthly
// rainfall resource, reported per meteorological sub-division either as
// twelve monthly columns (jan..dec, millimeters) or as a pre-aggregated
// annual column.
//
// Field names vary across API revisions ("crop_year" vs "year", "area_" vs
// "area", "Subdivision" vs "subdivision"). An [AliasTable] maps every
// observed variant to a canonical field; registering a new source is a data
// change, not a code change.
//
// # Normalization Contract
//
// Normalizers are pure functions over in-memory record slices. They coerce
// types, harmonize units, and drop rows that fail hard invariants:
//
//   - year must coerce to an integer
//   - production_tonne must be > 0 (zero production is a data-quality
//     failure in this dataset, not an observation)
//   - rainfall rows need a non-blank sub-division name
//
// Nothing is dropped silently: every normalizer returns a [NormalizeReport]
// with per-reason drop counts. Input order is preserved for retained rows.
//
// # Geographic Granularity
//
// IMD sub-divisions do not align with state boundaries. A sub-division that
// spans several states (e.g. "Haryana Delhi & Chandigarh") contributes its
// full rainfall value to each owning state; [AggregateRainfallToState]
// averages sub-division values per (state, year) rather than summing them,
// since rainfall intensity is not additive. Sub-divisions absent from the
// relation are excluded and counted in the [AggregateReport].
package domain
