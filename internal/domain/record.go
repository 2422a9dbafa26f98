package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// RawRecord is a single row as returned by a data.gov.in resource API:
// arbitrary field names mapped to scalar values (strings or numbers,
// depending on the API revision).
type RawRecord map[string]any

// ProductionRecord is the canonical form of one crop-production observation.
type ProductionRecord struct {
	StateName       string  `json:"state_name"`
	DistrictName    string  `json:"district_name"`
	Year            int     `json:"year"`
	Season          string  `json:"season"`
	Crop            string  `json:"crop"`
	AreaHa          float64 `json:"area_ha"`
	ProductionTonne float64 `json:"production_tonne"`
}

// ID returns a deterministic identifier derived from the record's key
// fields. Renormalizing the same raw row always yields the same ID, so
// downstream sinks can deduplicate on replay.
func (r ProductionRecord) ID() string {
	return recordID("prod", fmt.Sprintf("%s|%s|%d|%s|%s", r.StateName, r.DistrictName, r.Year, r.Season, r.Crop))
}

// RainfallRecord is the canonical form of one sub-division rainfall
// observation. RainfallMM is the annual total in millimeters; for monthly
// source rows it is the sum of the twelve month columns.
type RainfallRecord struct {
	SubdivisionName string  `json:"subdivision_name"`
	Year            int     `json:"year"`
	RainfallMM      float64 `json:"rainfall_mm"`
}

// ID returns a deterministic identifier, see ProductionRecord.ID.
func (r RainfallRecord) ID() string {
	return recordID("rain", fmt.Sprintf("%s|%d", r.SubdivisionName, r.Year))
}

// StateRainfall is a rainfall observation rolled up to state level.
type StateRainfall struct {
	StateName  string  `json:"state_name"`
	Year       int     `json:"year"`
	RainfallMM float64 `json:"rainfall_mm"`
}

// NormalizeReport accounts for every input row of a normalization pass.
// Input == Kept + sum of the drop counters; callers use it to surface data
// loss instead of swallowing it.
type NormalizeReport struct {
	Input int `json:"input"`
	Kept  int `json:"kept"`

	DroppedBadYear     int `json:"dropped_bad_year"`
	DroppedNonPositive int `json:"dropped_non_positive"`
	DroppedMissingName int `json:"dropped_missing_name"`

	NormalizedAt time.Time `json:"normalized_at"`
}

// Dropped returns the total number of rows removed during normalization.
func (r NormalizeReport) Dropped() int {
	return r.DroppedBadYear + r.DroppedNonPositive + r.DroppedMissingName
}

// recordID hashes the key fields and prefixes the dataset tag,
// e.g. "prod-a1b2c3d4e5f60708".
func recordID(prefix, key string) string {
	sum := sha256.Sum256([]byte(key))
	return prefix + "-" + hex.EncodeToString(sum[:8])
}
