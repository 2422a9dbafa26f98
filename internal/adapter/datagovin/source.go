package datagovin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/agri-data-etl/internal/analysis"
	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/couchcryptid/agri-data-etl/internal/mappings"
)

// Source implements analysis.Source: it fetches raw rows through a Fetcher
// and runs them through normalization, taxonomy canonicalization, and — for
// rainfall — the sub-division to state rollup.
type Source struct {
	fetcher    Fetcher
	production Dataset
	rainfall   Dataset
	logger     *slog.Logger
}

// NewSource creates a Source over the two data.gov.in resources.
func NewSource(fetcher Fetcher, productionResourceID, rainfallResourceID string, logger *slog.Logger) *Source {
	return &Source{
		fetcher:    fetcher,
		production: Dataset{Name: domain.DatasetProduction, ResourceID: productionResourceID},
		rainfall:   Dataset{Name: domain.DatasetRainfall, ResourceID: rainfallResourceID},
		logger:     logger,
	}
}

// Production fetches and canonicalizes crop-production rows. The state
// filter is pushed to the API; crop, season, and year are applied after
// canonicalization so aliases like "Paddy" still match a "Rice" query.
func (s *Source) Production(ctx context.Context, q analysis.ProductionQuery) ([]domain.ProductionRecord, domain.NormalizeReport, error) {
	filters := map[string]string{}
	if q.State != "" {
		filters["state_name"] = q.State
	}

	raw, err := s.fetcher.FetchAll(ctx, s.production, filters)
	if err != nil {
		return nil, domain.NormalizeReport{}, fmt.Errorf("fetch production: %w", err)
	}

	records, report := domain.NormalizeProduction(raw)
	records = mappings.Canonicalize(records)

	if report.Dropped() > 0 {
		s.logger.Info("production rows dropped during normalization",
			"input", report.Input,
			"kept", report.Kept,
			"bad_year", report.DroppedBadYear,
			"non_positive", report.DroppedNonPositive,
		)
	}

	crop := mappings.CanonicalCrop(q.Crop)
	out := records[:0:0]
	for _, rec := range records {
		if q.Crop != "" && rec.Crop != crop {
			continue
		}
		if q.Season != "" && rec.Season != q.Season {
			continue
		}
		if q.Year != 0 && rec.Year != q.Year {
			continue
		}
		out = append(out, rec)
	}
	return out, report, nil
}

// StateRainfall fetches the full sub-division rainfall table, rolls it up
// to state level, and filters to the requested state and year range. The
// rainfall resource keys rows by IMD sub-division, so state filtering can
// only happen after the rollup.
func (s *Source) StateRainfall(ctx context.Context, state string, yearStart, yearEnd int) ([]domain.StateRainfall, error) {
	raw, err := s.fetcher.FetchAll(ctx, s.rainfall, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch rainfall: %w", err)
	}

	records, report := domain.NormalizeRainfall(raw)
	if report.Dropped() > 0 {
		s.logger.Info("rainfall rows dropped during normalization",
			"input", report.Input,
			"kept", report.Kept,
			"bad_year", report.DroppedBadYear,
			"non_positive", report.DroppedNonPositive,
			"missing_name", report.DroppedMissingName,
		)
	}

	byState, aggReport := domain.AggregateRainfallToState(records, mappings.SubdivisionStates)
	if aggReport.Unmapped > 0 {
		s.logger.Warn("rainfall rows with unmapped sub-divisions",
			"unmapped", aggReport.Unmapped,
			"subdivisions", aggReport.UnmappedSubdivisions,
		)
	}

	canonical := mappings.CanonicalState(state)
	out := byState[:0:0]
	for _, rec := range byState {
		if rec.StateName != canonical {
			continue
		}
		if yearStart != 0 && rec.Year < yearStart {
			continue
		}
		if yearEnd != 0 && rec.Year > yearEnd {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
