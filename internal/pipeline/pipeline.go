// Package pipeline orchestrates the periodic extract-transform-load cycle:
// raw dataset rows in, canonical records out to the sink.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/couchcryptid/agri-data-etl/internal/observability"
)

// BatchExtractor reads the raw batches for every source dataset.
type BatchExtractor interface {
	ExtractBatches(ctx context.Context) ([]domain.RawBatch, error)
}

// Transformer converts one raw batch into a canonical batch.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawBatch) (domain.CanonicalBatch, error)
}

// BatchLoader writes a canonical batch to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, batch domain.CanonicalBatch) error
}

// Pipeline orchestrates the extract-transform-load cycle.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	interval    time.Duration
	ready       atomic.Bool
}

// New creates a Pipeline that runs a full cycle every interval.
func New(e BatchExtractor, t Transformer, l BatchLoader, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		interval:    interval,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the pipeline has loaded at least one
// batch, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any batches yet")
	}
	return nil
}

// Run executes an immediate first cycle, then one cycle per interval, until
// the context is cancelled. Failed cycles are retried with exponential
// backoff rather than waiting out the full interval.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Backoff for failed cycles: start at 1s, double each retry, cap at
	// 2 minutes so a flaky upstream is retried well within the interval.
	const maxBackoff = 2 * time.Minute
	backoff := time.Second

	for {
		err := p.runCycle(ctx)
		switch {
		case ctx.Err() != nil:
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case err != nil:
			p.logger.Error("pipeline cycle failed", "error", err, "retry_in", backoff)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
		default:
			backoff = time.Second
			if !sleepWithContext(ctx, p.interval) {
				return nil
			}
		}
	}
}

// runCycle performs one extract-transform-load pass over every dataset.
// A batch that fails to transform is skipped and counted; a load failure
// aborts the cycle so the whole pass is retried.
func (p *Pipeline) runCycle(ctx context.Context) error {
	start := time.Now()

	rawBatches, err := p.extractor.ExtractBatches(ctx)
	if err != nil {
		return err
	}

	loaded := 0
	for _, raw := range rawBatches {
		if len(raw.Records) == 0 {
			p.logger.Warn("dataset returned no rows", "dataset", raw.Dataset)
			continue
		}
		p.metrics.RecordsFetched.Add(float64(len(raw.Records)))
		p.metrics.BatchSize.Observe(float64(len(raw.Records)))

		batch, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping batch",
				"dataset", raw.Dataset,
				"error", err,
			)
			p.metrics.TransformErrors.Inc()
			continue
		}
		if batch.Size() == 0 {
			p.logger.Warn("no records survived normalization",
				"dataset", raw.Dataset,
				"input", batch.Report.Input,
			)
			continue
		}

		if err := p.loader.LoadBatch(ctx, batch); err != nil {
			return err
		}
		p.metrics.RecordsProduced.Add(float64(batch.Size()))
		loaded += batch.Size()

		p.logger.Info("batch loaded",
			"dataset", batch.Dataset,
			"records", batch.Size(),
			"dropped", batch.Report.Dropped(),
			"violations", len(batch.Validation.Violations),
		)
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
