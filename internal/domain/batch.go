package domain

// Dataset names used in batches, metrics, and sink message headers.
const (
	DatasetProduction = "production"
	DatasetRainfall   = "rainfall"
)

// RawBatch is one dataset's worth of raw rows as extracted from a source.
type RawBatch struct {
	Dataset string
	Records []RawRecord
}

// CanonicalBatch is the transformed form of a RawBatch: the canonical
// records for exactly one of the two datasets, plus the normalization and
// validation reports for the pass that produced them.
type CanonicalBatch struct {
	Dataset    string
	Production []ProductionRecord
	Rainfall   []RainfallRecord

	Report     NormalizeReport
	Validation ValidationReport
}

// Size returns the number of canonical records in the batch.
func (b CanonicalBatch) Size() int {
	return len(b.Production) + len(b.Rainfall)
}
