package domain

import "strings"

// AliasTable maps a canonical field name to the ordered list of raw field
// names that may carry it. Resolution takes the first alias present in the
// record, so precedence is documented by list order. Alias matching is
// case-sensitive because the live APIs vary capitalization meaningfully
// ("Subdivision" and "subdivision" are different sources).
type AliasTable map[string][]string

// Resolve returns the value for a canonical field, trying each registered
// alias in order. The second return is false when no alias is present or
// the matched value is nil.
func (t AliasTable) Resolve(rec RawRecord, canonical string) (any, bool) {
	for _, alias := range t[canonical] {
		if v, ok := rec[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ResolveString resolves a canonical field and coerces it to a trimmed
// string. Missing fields resolve to "" — a blank-but-non-null placeholder,
// never a null.
func (t AliasTable) ResolveString(rec RawRecord, canonical string) string {
	v, ok := t.Resolve(rec, canonical)
	if !ok {
		return ""
	}
	return strings.TrimSpace(coerceString(v))
}

// ProductionAliases covers every field-name variant observed in the
// district-wise crop production resource across API revisions. "crop_year"
// precedes "year" deliberately: it is the resource's primary column, which
// makes precedence deterministic when a record carries both. Canonical
// names are registered as aliases of themselves, so renormalizing already
// canonical rows is a no-op.
var ProductionAliases = AliasTable{
	"state_name":       {"state_name", "state", "State", "STATE_NAME", "statename", "State Name"},
	"district_name":    {"district_name", "district", "District", "DISTRICT_NAME", "districtname"},
	"year":             {"crop_year", "year", "Year", "YEAR", "cropYear", "Crop_Year"},
	"season":           {"season", "Season", "SEASON"},
	"crop":             {"crop", "Crop", "CROP", "crop_name", "commodity", "Commodity"},
	"area_ha":          {"area_", "area", "Area", "area_hectare", "area_ha", "Area_"},
	"production_tonne": {"production_", "production", "Production", "PRODUCTION", "Production_", "production_tonne"},
}

// RainfallAliases covers the IMD sub-divisional rainfall resource.
var RainfallAliases = AliasTable{
	"subdivision_name": {"subdivision", "Subdivision", "SUBDIVISION", "sub_division", "subdivision_name"},
	"year":             {"year", "Year", "YEAR", "month_year"},
	"annual":           {"annual", "Annual", "annual_rainfall", "Annual_Rainfall", "rainfall_mm"},
}

// monthAliases lists the twelve month fields in calendar order, each with
// the capitalization variants seen in the wild. The API itself uses
// lowercase; archived CSV exports use title case.
var monthAliases = [12][]string{
	{"jan", "Jan", "JAN"},
	{"feb", "Feb", "FEB"},
	{"mar", "Mar", "MAR"},
	{"apr", "Apr", "APR"},
	{"may", "May", "MAY"},
	{"jun", "Jun", "JUN"},
	{"jul", "Jul", "JUL"},
	{"aug", "Aug", "AUG"},
	{"sep", "Sep", "SEP"},
	{"oct", "Oct", "OCT"},
	{"nov", "Nov", "NOV"},
	{"dec", "Dec", "DEC"},
}
