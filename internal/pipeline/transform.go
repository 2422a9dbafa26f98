package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/couchcryptid/agri-data-etl/internal/mappings"
	"github.com/couchcryptid/agri-data-etl/internal/observability"
)

// AgriTransformer implements Transformer using the domain normalizers, the
// taxonomy tables, and post-normalization validation.
type AgriTransformer struct {
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates an AgriTransformer.
func NewTransformer(metrics *observability.Metrics, logger *slog.Logger) *AgriTransformer {
	return &AgriTransformer{metrics: metrics, logger: logger}
}

// Transform normalizes a raw batch into canonical records. Rows dropped by
// normalization are counted per reason; validation violations on the
// surviving rows are counted and logged but do not fail the batch.
func (t *AgriTransformer) Transform(_ context.Context, raw domain.RawBatch) (domain.CanonicalBatch, error) {
	batch := domain.CanonicalBatch{Dataset: raw.Dataset}

	switch raw.Dataset {
	case domain.DatasetProduction:
		records, report := domain.NormalizeProduction(raw.Records)
		batch.Production = mappings.Canonicalize(records)
		batch.Report = report
		batch.Validation = domain.ValidateProductionTable(batch.Production)

	case domain.DatasetRainfall:
		records, report := domain.NormalizeRainfall(raw.Records)
		batch.Rainfall = records
		batch.Report = report
		batch.Validation = domain.ValidateRainfallTable(records)

	default:
		return domain.CanonicalBatch{}, fmt.Errorf("unknown dataset %q", raw.Dataset)
	}

	t.recordMetrics(batch)

	for _, v := range batch.Validation.Violations {
		t.logger.Warn("invariant violation in normalized record",
			"dataset", batch.Dataset,
			"row", v.Row,
			"field", v.Field,
			"invariant", v.Invariant,
		)
	}
	return batch, nil
}

func (t *AgriTransformer) recordMetrics(batch domain.CanonicalBatch) {
	t.metrics.RecordsNormalized.WithLabelValues(batch.Dataset).Add(float64(batch.Report.Kept))
	if n := batch.Report.DroppedBadYear; n > 0 {
		t.metrics.RecordsDropped.WithLabelValues(batch.Dataset, "bad_year").Add(float64(n))
	}
	if n := batch.Report.DroppedNonPositive; n > 0 {
		t.metrics.RecordsDropped.WithLabelValues(batch.Dataset, "non_positive").Add(float64(n))
	}
	if n := batch.Report.DroppedMissingName; n > 0 {
		t.metrics.RecordsDropped.WithLabelValues(batch.Dataset, "missing_name").Add(float64(n))
	}
	if n := len(batch.Validation.Violations); n > 0 {
		t.metrics.ValidationViolations.WithLabelValues(batch.Dataset).Add(float64(n))
	}
}
