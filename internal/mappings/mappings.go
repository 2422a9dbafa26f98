// Package mappings holds the static entity-reconciliation tables: the IMD
// sub-division → state relation, canonical state-name spellings, and the
// crop taxonomy. All three are externally maintained reference data,
// consumed read-only; extending a table is a data change, not a code
// change.
package mappings

import (
	"sort"
	"strings"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
)

// SubdivisionStates is the sub-division → state relation, sourced from the
// India Meteorological Department sub-division boundaries. It is an
// explicit pair list rather than a map because composite sub-divisions
// ("Haryana Delhi & Chandigarh") own several states; each owning state
// receives the sub-division's full rainfall value during aggregation.
var SubdivisionStates = []domain.SubdivisionState{
	{Subdivision: "Andaman & Nicobar Islands", State: "Andaman and Nicobar Islands"},
	// IMD spells it "Arunanchal".
	{Subdivision: "Arunanchal Pradesh", State: "Arunachal Pradesh"},
	{Subdivision: "Assam & Meghalaya", State: "Assam"},
	{Subdivision: "Assam & Meghalaya", State: "Meghalaya"},
	{Subdivision: "Nagaland Manipur Mizoram Tripura", State: "Nagaland"},
	{Subdivision: "Nagaland Manipur Mizoram Tripura", State: "Manipur"},
	{Subdivision: "Nagaland Manipur Mizoram Tripura", State: "Mizoram"},
	{Subdivision: "Nagaland Manipur Mizoram Tripura", State: "Tripura"},
	{Subdivision: "Sub Himalayan West Bengal & Sikkim", State: "West Bengal"},
	{Subdivision: "Sub Himalayan West Bengal & Sikkim", State: "Sikkim"},
	{Subdivision: "Gangetic West Bengal", State: "West Bengal"},
	// Historical name for Odisha.
	{Subdivision: "Orissa", State: "Odisha"},
	{Subdivision: "Jharkhand", State: "Jharkhand"},
	{Subdivision: "Bihar", State: "Bihar"},
	{Subdivision: "East Uttar Pradesh", State: "Uttar Pradesh"},
	{Subdivision: "West Uttar Pradesh", State: "Uttar Pradesh"},
	{Subdivision: "Uttarakhand", State: "Uttarakhand"},
	{Subdivision: "Haryana Delhi & Chandigarh", State: "Haryana"},
	{Subdivision: "Haryana Delhi & Chandigarh", State: "Delhi"},
	{Subdivision: "Haryana Delhi & Chandigarh", State: "Chandigarh"},
	{Subdivision: "Punjab", State: "Punjab"},
	{Subdivision: "Himachal Pradesh", State: "Himachal Pradesh"},
	{Subdivision: "Jammu & Kashmir", State: "Jammu and Kashmir"},
	{Subdivision: "West Rajasthan", State: "Rajasthan"},
	{Subdivision: "East Rajasthan", State: "Rajasthan"},
	{Subdivision: "West Madhya Pradesh", State: "Madhya Pradesh"},
	{Subdivision: "East Madhya Pradesh", State: "Madhya Pradesh"},
	{Subdivision: "Gujarat Region", State: "Gujarat"},
	{Subdivision: "Saurashtra & Kutch", State: "Gujarat"},
	{Subdivision: "Konkan & Goa", State: "Maharashtra"},
	{Subdivision: "Konkan & Goa", State: "Goa"},
	{Subdivision: "Madhya Maharashtra", State: "Maharashtra"},
	{Subdivision: "Marathwada", State: "Maharashtra"},
	{Subdivision: "Vidarbha", State: "Maharashtra"},
	{Subdivision: "Chhattisgarh", State: "Chhattisgarh"},
	{Subdivision: "Coastal Andhra Pradesh", State: "Andhra Pradesh"},
	{Subdivision: "Telangana", State: "Telangana"},
	{Subdivision: "Rayalseema", State: "Andhra Pradesh"},
	{Subdivision: "Tamil Nadu", State: "Tamil Nadu"},
	{Subdivision: "Coastal Karnataka", State: "Karnataka"},
	{Subdivision: "North Interior Karnataka", State: "Karnataka"},
	{Subdivision: "South Interior Karnataka", State: "Karnataka"},
	{Subdivision: "Kerala", State: "Kerala"},
	{Subdivision: "Lakshadweep", State: "Lakshadweep"},
}

// StateSubdivisions returns the sub-divisions owned (fully or partly) by a
// canonical state, sorted.
func StateSubdivisions(state string) []string {
	var out []string
	for _, edge := range SubdivisionStates {
		if edge.State == state {
			out = append(out, edge.Subdivision)
		}
	}
	sort.Strings(out)
	return out
}

// stateAliases maps canonical state names to the spelling variants seen
// across datasets: abbreviations, historical names, and common typos.
var stateAliases = map[string][]string{
	"Andaman and Nicobar Islands": {"Andaman & Nicobar Islands", "A & N Islands"},
	"Andhra Pradesh":              {"AP"},
	"Arunachal Pradesh":           {"Arunanchal Pradesh"},
	"Chhattisgarh":                {"Chattisgarh", "Chhatisgarh"},
	"Gujarat":                     {"Gujrat"},
	"Himachal Pradesh":            {"HP"},
	"Jharkhand":                   {"Jarkhand"},
	"Karnataka":                   {"Karnatak"},
	"Madhya Pradesh":              {"MP", "M.P."},
	"Maharashtra":                 {"Maharastra"},
	"Odisha":                      {"Orissa"},
	"Punjab":                      {"Panjab"},
	"Tamil Nadu":                  {"TN", "Tamilnadu"},
	"Uttar Pradesh":               {"UP", "U.P."},
	"Uttarakhand":                 {"Uttaranchal"},
	"West Bengal":                 {"WB", "W.B."},
	"Delhi":                       {"NCT of Delhi", "New Delhi"},
	"Puducherry":                  {"Pondicherry"},
	"Jammu and Kashmir":           {"Jammu & Kashmir", "J&K"},
	"Lakshadweep":                 {"Lakshadweep Islands"},
	"Dadra and Nagar Haveli and Daman and Diu": {"Dadra & Nagar Haveli", "Daman & Diu"},
}

// cropAliases is the crop taxonomy for the top crops in Indian
// agriculture: canonical name → label variants, including vernacular
// names. Lookup is case-insensitive, so case variants are not listed.
var cropAliases = map[string][]string{
	// Cereals
	"Rice":   {"Paddy", "Dhan"},
	"Wheat":  {"Gehun"},
	"Maize":  {"Corn", "Makka"},
	"Jowar":  {"Sorghum"},
	"Bajra":  {"Pearl Millet"},
	"Ragi":   {"Finger Millet"},
	"Barley": {"Jau"},

	// Pulses
	"Arhar/Tur": {"Arhar", "Tur", "Pigeon Pea"},
	"Gram":      {"Chana", "Chickpea"},
	"Moong":     {"Green Gram", "Mung"},
	"Urad":      {"Black Gram"},
	"Masoor":    {"Lentil"},

	// Oilseeds
	"Groundnut":          {"Peanut", "Mungfali"},
	"Rapeseed & Mustard": {"Rapeseed", "Mustard", "Sarson"},
	"Soybean":            {"Soyabean", "Soya"},
	"Sunflower":          {"Surajmukhi"},
	"Sesame":             {"Sesamum", "Til"},
	"Niger Seed":         {"Nigerseed"},
	"Castor Seed":        {"Castor"},

	// Cash crops
	"Sugarcane": {"Sugar Cane", "Ganna"},
	"Cotton":    {"Kapas"},
	"Jute":      {"Jute & Mesta"},
	"Tea":       {"Chai"},
	"Coffee":    {},
	"Rubber":    {},

	// Spices
	"Turmeric":  {"Haldi"},
	"Coriander": {"Dhaniya"},
	"Chillies":  {"Chilli", "Chili", "Mirchi"},
	"Ginger":    {"Adrak"},

	// Horticulture
	"Potato": {"Aloo"},
	"Onion":  {"Pyaz"},
}

var (
	stateByAlias = buildExactIndex(stateAliases)
	cropByAlias  = buildFoldedIndex(cropAliases)
)

func buildExactIndex(aliases map[string][]string) map[string]string {
	idx := make(map[string]string, len(aliases)*2)
	for canonical, variants := range aliases {
		idx[canonical] = canonical
		for _, v := range variants {
			idx[v] = canonical
		}
	}
	return idx
}

func buildFoldedIndex(aliases map[string][]string) map[string]string {
	idx := make(map[string]string, len(aliases)*2)
	for canonical, variants := range aliases {
		idx[strings.ToLower(canonical)] = canonical
		for _, v := range variants {
			idx[strings.ToLower(v)] = canonical
		}
	}
	return idx
}

// CanonicalState maps a raw state name to its canonical spelling. Unknown
// names pass through trimmed, so novel states are never lost.
func CanonicalState(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := stateByAlias[trimmed]; ok {
		return canonical
	}
	return trimmed
}

// CanonicalCrop maps a raw crop label to its canonical taxonomy name,
// case-insensitively. Unknown crops pass through trimmed.
func CanonicalCrop(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := cropByAlias[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Canonicalize is the taxonomy stage of the normalization pipeline: it
// rewrites state and crop labels on a canonical production table. It runs
// after normalization so the core normalizers stay taxonomy-agnostic.
func Canonicalize(records []domain.ProductionRecord) []domain.ProductionRecord {
	out := make([]domain.ProductionRecord, len(records))
	for i, rec := range records {
		rec.StateName = CanonicalState(rec.StateName)
		rec.Crop = CanonicalCrop(rec.Crop)
		out[i] = rec
	}
	return out
}
