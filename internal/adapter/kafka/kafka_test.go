package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage_Production(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	rec := domain.ProductionRecord{
		StateName:       "Odisha",
		DistrictName:    "Cuttack",
		Year:            2014,
		Season:          "Kharif",
		Crop:            "Rice",
		AreaHa:          120.5,
		ProductionTonne: 340.0,
	}
	batch := domain.CanonicalBatch{
		Dataset: domain.DatasetProduction,
		Report:  domain.NormalizeReport{NormalizedAt: now},
	}

	msg, err := serializeToMessage(rec.ID(), rec, batch)
	require.NoError(t, err)

	assert.Equal(t, []byte(rec.ID()), msg.Key)
	assert.Contains(t, string(msg.Value), `"state_name":"Odisha"`)
	assert.Contains(t, string(msg.Value), `"production_tonne":340`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "dataset", msg.Headers[0].Key)
	assert.Equal(t, []byte("production"), msg.Headers[0].Value)
	assert.Equal(t, "normalized_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_Rainfall(t *testing.T) {
	rec := domain.RainfallRecord{
		SubdivisionName: "Coastal Karnataka",
		Year:            2010,
		RainfallMM:      3412.5,
	}
	batch := domain.CanonicalBatch{Dataset: domain.DatasetRainfall}

	msg, err := serializeToMessage(rec.ID(), rec, batch)
	require.NoError(t, err)

	assert.Equal(t, []byte(rec.ID()), msg.Key)
	assert.Contains(t, string(msg.Value), `"subdivision_name":"Coastal Karnataka"`)
	assert.Equal(t, []byte("rainfall"), msg.Headers[0].Value)
}

func TestRecordIDs_StableAcrossSerialization(t *testing.T) {
	rec := domain.ProductionRecord{StateName: "Odisha", DistrictName: "Cuttack", Year: 2014, Season: "Kharif", Crop: "Rice"}
	first, err := serializeToMessage(rec.ID(), rec, domain.CanonicalBatch{Dataset: domain.DatasetProduction})
	require.NoError(t, err)
	second, err := serializeToMessage(rec.ID(), rec, domain.CanonicalBatch{Dataset: domain.DatasetProduction})
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)
}
