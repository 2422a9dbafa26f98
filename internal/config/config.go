// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers    []string
	KafkaSinkTopic  string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// data.gov.in API configuration.
	DataGovAPIKey        string
	DataGovBaseURL       string
	ProductionResourceID string
	RainfallResourceID   string
	RequestTimeout       time.Duration
	PageLimit            int

	// Dataset cache configuration.
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Pipeline configuration.
	FetchInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}
	fetchInterval, err := parseDuration("FETCH_INTERVAL", "6h")
	if err != nil {
		return nil, err
	}
	pageLimit, err := parsePositiveInt("PAGE_LIMIT", 1000)
	if err != nil {
		return nil, err
	}
	cacheMaxEntries, err := parsePositiveInt("CACHE_MAX_ENTRIES", 256)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  envOrDefault("KAFKA_SINK_TOPIC", "canonical-agri-records"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataGovAPIKey:        os.Getenv("DATA_GOV_API_KEY"),
		DataGovBaseURL:       envOrDefault("DATA_GOV_BASE_URL", "https://api.data.gov.in/resource"),
		ProductionResourceID: envOrDefault("PRODUCTION_RESOURCE_ID", "35be999b-0208-4354-b557-f6ca9a5355de"),
		RainfallResourceID:   envOrDefault("RAINFALL_RESOURCE_ID", "8e0bd482-4aba-4d99-9cb9-ff124f6f1c2f"),
		RequestTimeout:       requestTimeout,
		PageLimit:            pageLimit,

		CacheTTL:        cacheTTL,
		CacheMaxEntries: cacheMaxEntries,

		FetchInterval: fetchInterval,
	}

	if cfg.DataGovAPIKey == "" {
		return nil, errors.New("DATA_GOV_API_KEY is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.ProductionResourceID == "" || cfg.RainfallResourceID == "" {
		return nil, errors.New("resource IDs must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
