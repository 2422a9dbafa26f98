package datagovin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/agri-data-etl/internal/analysis"
	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableFetcher serves one fixed table per resource ID.
type tableFetcher struct {
	tables  map[string][]domain.RawRecord
	filters map[string]string
	err     error
}

func (f *tableFetcher) FetchAll(_ context.Context, ds Dataset, filters map[string]string) ([]domain.RawRecord, error) {
	f.filters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.tables[ds.ResourceID], nil
}

func testSource(tables map[string][]domain.RawRecord) (*Source, *tableFetcher) {
	fetcher := &tableFetcher{tables: tables}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSource(fetcher, "res-prod", "res-rain", logger), fetcher
}

func TestSource_Production(t *testing.T) {
	src, fetcher := testSource(map[string][]domain.RawRecord{
		"res-prod": {
			// "Orissa" and "Paddy" canonicalize to "Odisha" and "Rice".
			{"state_name": "Orissa", "district_name": "Cuttack", "crop_year": 2014.0, "season": "Kharif", "crop": "Paddy", "area_": 10.0, "production_": 50.0},
			{"state_name": "Orissa", "district_name": "Puri", "crop_year": 2014.0, "season": "Kharif", "crop": "Wheat", "area_": 5.0, "production_": 20.0},
			// Dropped: zero production.
			{"state_name": "Orissa", "district_name": "Puri", "crop_year": 2014.0, "season": "Kharif", "crop": "Paddy", "area_": 5.0, "production_": 0.0},
		},
	})

	records, report, err := src.Production(context.Background(), analysis.ProductionQuery{
		State: "Orissa",
		Crop:  "Rice",
		Year:  2014,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"state_name": "Orissa"}, fetcher.filters)
	require.Len(t, records, 1)
	assert.Equal(t, "Odisha", records[0].StateName)
	assert.Equal(t, "Rice", records[0].Crop)
	assert.Equal(t, 3, report.Input)
	assert.Equal(t, 2, report.Kept)
	assert.Equal(t, 1, report.DroppedNonPositive)
}

func TestSource_Production_CropAliasInQuery(t *testing.T) {
	src, _ := testSource(map[string][]domain.RawRecord{
		"res-prod": {
			{"state_name": "Odisha", "district_name": "Cuttack", "crop_year": 2014.0, "crop": "Rice", "production_": 50.0},
		},
	})

	// Querying for "Paddy" matches records canonicalized to "Rice".
	records, _, err := src.Production(context.Background(), analysis.ProductionQuery{State: "Odisha", Crop: "Paddy"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSource_Production_FetchError(t *testing.T) {
	src, fetcher := testSource(nil)
	fetcher.err = errors.New("boom")

	_, _, err := src.Production(context.Background(), analysis.ProductionQuery{State: "Odisha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch production")
}

func TestSource_StateRainfall(t *testing.T) {
	src, fetcher := testSource(map[string][]domain.RawRecord{
		"res-rain": {
			{"subdivision": "Coastal Karnataka", "year": 2010.0, "annual": 3000.0},
			{"subdivision": "North Interior Karnataka", "year": 2010.0, "annual": 600.0},
			{"subdivision": "Coastal Karnataka", "year": 2011.0, "annual": 3200.0},
			// Outside the requested year range.
			{"subdivision": "Coastal Karnataka", "year": 2005.0, "annual": 2900.0},
			// Different state entirely.
			{"subdivision": "Kerala", "year": 2010.0, "annual": 2800.0},
		},
	})

	records, err := src.StateRainfall(context.Background(), "Karnataka", 2010, 2011)
	require.NoError(t, err)
	// The whole table is fetched; state filtering happens after rollup.
	assert.Nil(t, fetcher.filters)

	require.Len(t, records, 2)
	assert.Equal(t, 2010, records[0].Year)
	assert.InDelta(t, 1800.0, records[0].RainfallMM, 0.001) // mean of 3000 and 600
	assert.Equal(t, 2011, records[1].Year)
	assert.InDelta(t, 3200.0, records[1].RainfallMM, 0.001)
}

func TestSource_StateRainfall_CanonicalizesQueryState(t *testing.T) {
	src, _ := testSource(map[string][]domain.RawRecord{
		"res-rain": {
			{"subdivision": "Orissa", "year": 2010.0, "annual": 1500.0},
		},
	})

	// The IMD sub-division "Orissa" maps to the state Odisha; the legacy
	// query spelling resolves to the same state.
	records, err := src.StateRainfall(context.Background(), "Orissa", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Odisha", records[0].StateName)
}

func TestSource_StateRainfall_FetchError(t *testing.T) {
	src, fetcher := testSource(nil)
	fetcher.err = errors.New("boom")

	_, err := src.StateRainfall(context.Background(), "Karnataka", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch rainfall")
}
