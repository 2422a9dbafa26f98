package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "579b464db66ec23bdd000001test"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_GOV_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "canonical-agri-records", cfg.KafkaSinkTopic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, testAPIKey, cfg.DataGovAPIKey)
	assert.Equal(t, "https://api.data.gov.in/resource", cfg.DataGovBaseURL)
	assert.Equal(t, "35be999b-0208-4354-b557-f6ca9a5355de", cfg.ProductionResourceID)
	assert.Equal(t, "8e0bd482-4aba-4d99-9cb9-ff124f6f1c2f", cfg.RainfallResourceID)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 1000, cfg.PageLimit)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 256, cfg.CacheMaxEntries)
	assert.Equal(t, 6*time.Hour, cfg.FetchInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_GOV_API_KEY", testAPIKey)
	t.Setenv("DATA_GOV_BASE_URL", "http://localhost:8181/resource")
	t.Setenv("PRODUCTION_RESOURCE_ID", "prod-res")
	t.Setenv("RAINFALL_RESOURCE_ID", "rain-res")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("PAGE_LIMIT", "500")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("CACHE_MAX_ENTRIES", "32")
	t.Setenv("FETCH_INTERVAL", "12h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8181/resource", cfg.DataGovBaseURL)
	assert.Equal(t, "prod-res", cfg.ProductionResourceID)
	assert.Equal(t, "rain-res", cfg.RainfallResourceID)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500, cfg.PageLimit)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 32, cfg.CacheMaxEntries)
	assert.Equal(t, 12*time.Hour, cfg.FetchInterval)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("DATA_GOV_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_GOV_API_KEY")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("DATA_GOV_API_KEY", testAPIKey)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeCacheTTL(t *testing.T) {
	t.Setenv("DATA_GOV_API_KEY", testAPIKey)
	t.Setenv("CACHE_TTL", "-1h")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestLoad_InvalidPageLimit(t *testing.T) {
	t.Setenv("DATA_GOV_API_KEY", testAPIKey)
	t.Setenv("PAGE_LIMIT", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_LIMIT")
}

func TestLoad_InvalidCacheMaxEntries(t *testing.T) {
	t.Setenv("DATA_GOV_API_KEY", testAPIKey)
	t.Setenv("CACHE_MAX_ENTRIES", "bogus")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_MAX_ENTRIES")
}

func TestLoad_EmptyBrokers(t *testing.T) {
	t.Setenv("DATA_GOV_API_KEY", testAPIKey)
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
