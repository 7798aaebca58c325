package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
	"golang.org/x/sync/errgroup"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize page requests from the source. A
// finite source returns io.EOF, possibly together with a final batch, once
// it is exhausted.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.PageRequest, error)
}

// Transformer fetches and classifies one page.
type Transformer interface {
	Transform(ctx context.Context, req domain.PageRequest) (domain.PageResult, error)
}

// BatchLoader writes page results to a destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, results []domain.PageResult) error
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
	workers     int
}

// New creates a Pipeline with the given stages and observability. Each batch
// is transformed by at most workers concurrent goroutines.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		workers:     workers,
	}
}

// CheckReadiness returns nil once the pipeline has stored at least one batch.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not stored any results yet")
	}
	return nil
}

// Ready reports whether a batch has been stored.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run executes the batch ETL loop until the context is cancelled or a finite
// source is exhausted.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize, "workers", p.workers)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	exhausted := errors.Is(err, io.EOF)
	if err != nil && !exhausted {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff)
	}

	if len(batch) > 0 {
		p.metrics.PagesConsumed.Add(float64(len(batch)))
		p.metrics.BatchSize.Observe(float64(len(batch)))
		*backoff = initialBackoff

		stored, ok := p.transformAndLoad(ctx, batch, backoff)
		if !ok {
			return false
		}
		if stored > 0 {
			p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
			p.ready.Store(true)
			p.logger.Info("batch stored", "pages", len(batch), "results", stored, "duration", time.Since(start))
		}
	}

	if exhausted {
		p.logger.Info("page source exhausted")
		return false
	}
	return ctx.Err() == nil
}

// transformAndLoad fetches and classifies the batch concurrently, stores the
// results, and commits the requests. Returns the number of stored results and
// false if the pipeline should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, batch []domain.PageRequest, backoff *time.Duration) (int, bool) {
	results := make([]domain.PageResult, len(batch))
	errs := make([]error, len(batch))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, req := range batch {
		g.Go(func() error {
			results[i], errs[i] = p.transformer.Transform(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.PageResult, 0, len(batch))
	stored := make([]domain.PageRequest, 0, len(batch))
	for i, req := range batch {
		if errs[i] != nil {
			p.logger.Warn("transform failed, skipping page",
				"error", errs[i],
				"page", req.Name,
				"source", req.Source,
				"offset", req.Offset,
			)
			p.metrics.TransformErrors.Inc()
			// A cancelled fetch leaves the page for redelivery.
			if ctx.Err() == nil {
				p.commit(ctx, req)
			}
			continue
		}
		p.recordOutcome(results[i])
		out = append(out, results[i])
		stored = append(stored, req)
	}

	if len(out) == 0 {
		return 0, true
	}

	if !p.loadWithRetry(ctx, out, backoff) {
		return 0, false
	}
	p.metrics.ResultsStored.Add(float64(len(out)))

	for _, req := range stored {
		p.commit(ctx, req)
	}
	return len(out), true
}

// loadWithRetry stores the batch, backing off between failed attempts until
// it succeeds or the context ends.
func (p *Pipeline) loadWithRetry(ctx context.Context, results []domain.PageResult, backoff *time.Duration) bool {
	for {
		err := p.loader.LoadBatch(ctx, results)
		if err == nil {
			*backoff = initialBackoff
			return true
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(results), "retry_in", *backoff)
		if !p.backoffOrStop(ctx, backoff) {
			return false
		}
	}
}

func (p *Pipeline) recordOutcome(r domain.PageResult) {
	if r.FetchResult != domain.FetchPage {
		return
	}
	p.metrics.ParseOutcomes.WithLabelValues(string(r.ParseResult), string(r.TableType)).Inc()
}

// backoffOrStop sleeps with the current backoff and advances it. Returns
// false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

// commit acknowledges the request if its source requires it.
func (p *Pipeline) commit(ctx context.Context, req domain.PageRequest) {
	if req.Commit == nil {
		return
	}
	if err := req.Commit(ctx); err != nil {
		p.logger.Warn("commit failed", "error", err,
			"page", req.Name, "source", req.Source, "offset", req.Offset)
	}
}
