package datagovin

import (
	"context"
	"fmt"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
)

// Extractor fetches the full production and rainfall tables as raw batches.
// It implements pipeline.BatchExtractor.
type Extractor struct {
	fetcher    Fetcher
	production Dataset
	rainfall   Dataset
}

// NewExtractor creates an Extractor over the two data.gov.in resources.
func NewExtractor(fetcher Fetcher, productionResourceID, rainfallResourceID string) *Extractor {
	return &Extractor{
		fetcher:    fetcher,
		production: Dataset{Name: domain.DatasetProduction, ResourceID: productionResourceID},
		rainfall:   Dataset{Name: domain.DatasetRainfall, ResourceID: rainfallResourceID},
	}
}

// ExtractBatches fetches both datasets unfiltered. A failure on either
// dataset fails the whole extraction; a partial cycle would make the sink
// topic's datasets drift apart.
func (e *Extractor) ExtractBatches(ctx context.Context) ([]domain.RawBatch, error) {
	batches := make([]domain.RawBatch, 0, 2)
	for _, ds := range []Dataset{e.production, e.rainfall} {
		records, err := e.fetcher.FetchAll(ctx, ds, nil)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", ds.Name, err)
		}
		batches = append(batches, domain.RawBatch{Dataset: ds.Name, Records: records})
	}
	return batches, nil
}
