package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/agri-data-etl/internal/adapter/datagovin"
	httpadapter "github.com/couchcryptid/agri-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/agri-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/agri-data-etl/internal/analysis"
	"github.com/couchcryptid/agri-data-etl/internal/config"
	"github.com/couchcryptid/agri-data-etl/internal/observability"
	"github.com/couchcryptid/agri-data-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := datagovin.NewClient(cfg.DataGovAPIKey, cfg.DataGovBaseURL, cfg.PageLimit, cfg.RequestTimeout, metrics, logger)
	fetcher := datagovin.NewCachedFetcher(client, cfg.CacheTTL, cfg.CacheMaxEntries, clockwork.NewRealClock(), metrics)

	extractor := datagovin.NewExtractor(fetcher, cfg.ProductionResourceID, cfg.RainfallResourceID)
	transformer := pipeline.NewTransformer(metrics, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(extractor, transformer, writer, cfg.FetchInterval, logger, metrics)

	source := datagovin.NewSource(fetcher, cfg.ProductionResourceID, cfg.RainfallResourceID, logger)
	executor := analysis.NewExecutor(source, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, executor, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
