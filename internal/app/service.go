// Package service provides the core business service that implements the
// dependencies required by the HTTP API: import queueing, background
// parse-and-aggregate workers, and synchronous engine operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	jobqueue "github.com/swinglabs/fourb/internal/adapters/mq/queue"
	workerpool "github.com/swinglabs/fourb/internal/adapters/mq/worker"
	"github.com/swinglabs/fourb/internal/adapters/repository"
	"github.com/swinglabs/fourb/internal/domain/biomech"
	"github.com/swinglabs/fourb/internal/domain/dedupe"
	"github.com/swinglabs/fourb/internal/domain/model"
	"github.com/swinglabs/fourb/internal/domain/predict"
	"github.com/swinglabs/fourb/internal/domain/profile"
	"github.com/swinglabs/fourb/internal/domain/stats"
	"github.com/swinglabs/fourb/pkg/logger"
	"github.com/swinglabs/fourb/pkg/metrics"
)

// ErrSessionNotFound is returned when a report is requested for an unknown
// session.
var ErrSessionNotFound = repository.ErrNotFound

// Service wires the scoring engine to its queue, workers and store.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	deduper    dedupe.Deduper
	jobQueue   jobqueue.Queue
	aggregator *stats.Aggregator
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	shardCount    int
	optimalWindow stats.LaunchWindow

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of import worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the import job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the import-ID deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of shards in the report store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithOptimalWindow overrides the optimal launch angle band used for
// session aggregation.
func WithOptimalWindow(minDeg, maxDeg float64) Option {
	return func(s *Service) {
		if maxDeg > minDeg {
			s.optimalWindow = stats.LaunchWindow{Min: minDeg, Max: maxDeg}
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10000,
		dedupeSize:    50000,
		shardCount:    8,
		optimalWindow: stats.DefaultOptimalWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting swing scoring service...")

	s.store = repository.NewMemStore(repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	s.aggregator = stats.New(stats.WithOptimalWindow(s.optimalWindow))

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.aggregator, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "swing scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service, draining queued imports.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping swing scoring service...")

	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "worker pool shutdown", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "swing scoring service stopped")
}

// SeenAndRecord atomically checks if an import id was seen and records it
// if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordImportDuplicate()
	}
	return seen
}

// Unrecord removes an import ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// EnqueueImport submits a CSV import for asynchronous processing. Returns
// false on backpressure.
func (s *Service) EnqueueImport(ctx context.Context, job model.ImportJob) bool {
	return s.jobQueue.Enqueue(ctx, job)
}

// AggregateBiomech synchronously folds a sample batch into category scores
// and stores the result for the session. Samples still processing or
// failed are excluded by the aggregator.
func (s *Service) AggregateBiomech(ctx context.Context, sessionID string, samples []model.BiomechanicalSample) (model.CategoryScores, model.Categoricals, error) {
	scores, cats, err := biomech.AggregateCategories(samples)
	if err != nil {
		return model.CategoryScores{}, model.Categoricals{}, fmt.Errorf("session %s: %w", sessionID, err)
	}
	kin := biomech.AggregateKinematics(samples)
	if err := s.store.UpsertBodyMetrics(ctx, sessionID, scores, cats, kin); err != nil {
		return model.CategoryScores{}, model.Categoricals{}, err
	}
	metrics.RecordSamplesAggregated(len(samples))
	return scores, cats, nil
}

// AnalyzeSwing runs the motor-profile classifier and ceiling projection on
// one swing's metric bundle. Pure computation, no state.
func (s *Service) AnalyzeSwing(_ context.Context, bundle profile.MetricBundle) (model.MotorProfile, model.CeilingProjection, []string) {
	proj, recs := profile.Project(bundle)
	metrics.RecordProjectionComputed()
	return profile.Classify(bundle), proj, recs
}

// Report assembles the session report. The predicted ball section is
// computed on demand, and only when no measured ball data exists but body
// data does, so measured stats always win.
func (s *Service) Report(ctx context.Context, sessionID string) (model.SessionReport, error) {
	rec, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.SessionReport{}, fmt.Errorf("session %s: %w", sessionID, err)
		}
		return model.SessionReport{}, err
	}

	report := model.SessionReport{
		SessionID:     sessionID,
		Ball:          model.NoSection[model.SessionStats](),
		Categories:    model.NoSection[model.CategoryScores](),
		Categoricals:  model.NoSection[model.Categoricals](),
		PredictedBall: model.NoSection[model.BallFlightPrediction](),
		SkippedRows:   rec.SkippedRows,
	}
	if rec.Stats != nil {
		report.Ball = model.SomeSection(*rec.Stats)
	}
	if rec.Categories != nil {
		report.Categories = model.SomeSection(*rec.Categories)
	}
	if rec.Categoricals != nil {
		report.Categoricals = model.SomeSection(*rec.Categoricals)
	}

	if rec.Stats == nil && rec.Categories != nil {
		report.PredictedBall = model.SomeSection(s.predictBall(rec))
		metrics.RecordPredictionComputed()
	}
	return report, nil
}

// predictBall builds predictor inputs from the stored body metrics.
func (s *Service) predictBall(rec repository.SessionRecord) model.BallFlightPrediction {
	in := predict.Inputs{
		BrainScore:   rec.Categories.Brain,
		BodyScore:    rec.Categories.Body,
		MotorProfile: model.ProfileUnknown,
	}
	if rec.Kinematics != nil {
		in.BatKE = rec.Kinematics.BatKE
		in.PelvisVelocity = rec.Kinematics.PelvisVelocity
		in.TorsoVelocity = rec.Kinematics.TorsoVelocity
		in.TransferEfficiency = rec.Kinematics.TransferEfficiency
		in.XFactor = rec.Kinematics.XFactor
	}
	if rec.Categoricals != nil && rec.Categoricals.MotorProfile != nil {
		in.MotorProfile = model.ParseMotorProfile(*rec.Categoricals.MotorProfile)
	}
	return predict.BallFlight(in)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
		"dedupe_size":  s.dedupeSize,
	}
	if s.started {
		out["queue_length"] = s.jobQueue.Len(ctx)
		out["sessions"] = s.store.Count(ctx)
		out["seen_imports"] = s.Size()
	}
	return out
}
