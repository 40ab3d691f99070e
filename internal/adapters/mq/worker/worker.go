// Package worker processes queued CSV imports: per-file parsing fans out,
// the merged swing sequence is aggregated once, and the resulting session
// stats are written to the report store.
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/swinglabs/fourb/internal/adapters/mq/queue"
	"github.com/swinglabs/fourb/internal/domain/model"
	"github.com/swinglabs/fourb/internal/domain/parser"
	"github.com/swinglabs/fourb/pkg/logger"
	"github.com/swinglabs/fourb/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.ImportJob

// Updater writes a finished aggregation into the report store.
type Updater interface {
	UpsertBallStats(ctx context.Context, sessionID string, stats model.SessionStats, skippedRows int, importID string) error
}

// Aggregator reduces a sorted swing sequence into session stats.
type Aggregator interface {
	Aggregate(records []model.SwingRecord) (model.SessionStats, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// ImportWorker consumes jobs and runs the parse-and-aggregate pipeline.
type ImportWorker struct {
	queue      Queue
	aggregator Aggregator
	updater    Updater
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewImportWorker creates a worker with configuration options.
func NewImportWorker(q Queue, agg Aggregator, updater Updater, opts ...Option) *ImportWorker {
	w := &ImportWorker{
		queue:      q,
		aggregator: agg,
		updater:    updater,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *ImportWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				metrics.RecordWorkerError()
				w.logger.Error(ctx, "import failed",
					logger.String("import_id", job.ImportID),
					logger.String("session_id", job.SessionID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ImportWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one import end to end. Files parse concurrently since
// per-file parsing shares no state; the sort-and-aggregate step is a single
// reduction over the merged sequence.
func (w *ImportWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordAggregationLatency(float64(time.Since(start).Milliseconds()))
	}()

	results := make([]parser.Result, len(job.Files))
	errs := make([]error, len(job.Files))

	var wg sync.WaitGroup
	for i, f := range job.Files {
		wg.Add(1)
		go func(i int, f model.ImportFile) {
			defer wg.Done()
			results[i], errs[i] = parser.Parse(f.Name, bytes.NewReader(f.Content))
		}(i, f)
	}
	wg.Wait()

	skipped := 0
	valid := results[:0]
	for i, res := range results {
		skipped += res.Skipped
		switch {
		case errs[i] != nil:
			// A file with zero valid rows fails alone; the batch goes on.
			metrics.RecordFileFailed()
			w.logger.Warn(ctx, "file rejected",
				logger.String("file", job.Files[i].Name),
				logger.Error(errs[i]),
			)
		default:
			if res.Skipped > 0 {
				metrics.RecordFilePartial()
			}
			metrics.RecordRowsParsed(len(res.Records))
			valid = append(valid, res)
		}
	}
	metrics.RecordRowsSkipped(skipped)

	records := parser.MergeSorted(valid...)
	stats, err := w.aggregator.Aggregate(records)
	if err != nil {
		return fmt.Errorf("aggregate import %s: %w", job.ImportID, err)
	}

	if err := w.updater.UpsertBallStats(ctx, job.SessionID, stats, skipped, job.ImportID); err != nil {
		return fmt.Errorf("store session %s: %w", job.SessionID, err)
	}

	metrics.RecordSessionScored()
	w.logger.Info(ctx, "session scored",
		logger.String("session_id", job.SessionID),
		logger.Int("swings", stats.TotalSwings),
		logger.Int("skipped_rows", skipped),
		logger.Int("ball_score", stats.BallScore),
	)
	return nil
}

// Pool manages multiple import workers.
type Pool struct {
	workers []*ImportWorker
	queue   Queue

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a worker pool of workerCount workers.
func NewPool(workerCount int, q Queue, agg Aggregator, updater Updater) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:  make([]*ImportWorker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewImportWorker(q, agg, updater, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue, lets workers drain, and waits for each to
// finish or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && !errors.Is(err, queue.ErrClosed) {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	close(p.shutdown)

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(ctx, "worker shutdown timed out", logger.String("worker", w.name))
		case <-ctx.Done():
			return fmt.Errorf("pool shutdown: %w", ctx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
