// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/astriel/siderea/internal/adapters/ephemeris"
	jobqueue "github.com/astriel/siderea/internal/adapters/mq/queue"
	workerpool "github.com/astriel/siderea/internal/adapters/mq/worker"
	"github.com/astriel/siderea/internal/adapters/repository"
	"github.com/astriel/siderea/internal/domain/dedupe"
	"github.com/astriel/siderea/internal/domain/insight"
	"github.com/astriel/siderea/internal/domain/model"
	"github.com/astriel/siderea/internal/domain/rulership"
	"github.com/astriel/siderea/pkg/logger"
	"github.com/astriel/siderea/pkg/metrics"
)

// Service implements the API dependencies for the chart insight system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	jobQueue   jobqueue.Queue
	computer   workerpool.Computer
	engine     *insight.Engine
	workerPool *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	storeShardCount  int
	storeMaxRecords  int
	maxKeyAspects    int
	rulershipMode    string
	ephemerisBaseURL string
	ephemerisTimeout time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStoreShardCount sets the number of shards in the insight store.
func WithStoreShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.storeShardCount = count
		}
	}
}

// WithStoreMaxRecords caps the number of insight records kept per shard.
func WithStoreMaxRecords(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.storeMaxRecords = count
		}
	}
}

// WithMaxKeyAspects caps the ranked key-aspects view.
func WithMaxKeyAspects(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxKeyAspects = n
		}
	}
}

// WithRulershipMode sets the default rulership regime for requests that do
// not specify one.
func WithRulershipMode(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.rulershipMode = mode
		}
	}
}

// WithEphemerisBaseURL sets the chart-computation service endpoint.
func WithEphemerisBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.ephemerisBaseURL = baseURL
		}
	}
}

// WithEphemerisTimeout bounds a single computation-service call.
func WithEphemerisTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.ephemerisTimeout = timeout
		}
	}
}

// WithComputer sets a custom chart computer, replacing the HTTP ephemeris
// client. Used in tests and embedded deployments.
func WithComputer(computer workerpool.Computer) Option {
	return func(s *Service) {
		if computer != nil {
			s.computer = computer
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10_000,
		dedupeSize:       100_000,
		storeShardCount:  8,
		storeMaxRecords:  5_000,
		maxKeyAspects:    6,
		rulershipMode:    "classical",
		ephemerisBaseURL: "http://localhost:9100",
		ephemerisTimeout: 5 * time.Second,
		stopCh:           make(chan struct{}),
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
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting insight service...")

	s.store = repository.NewMemStore(
		repository.WithShardCount(s.storeShardCount),
		repository.WithMaxRecordsPerShard(s.storeMaxRecords),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	if s.computer == nil {
		s.computer = ephemeris.NewHTTPClient(
			s.ephemerisBaseURL,
			ephemeris.WithTimeout(s.ephemerisTimeout),
		)
	}
	s.engine = insight.New(
		insight.WithMaxKeyAspects(s.maxKeyAspects),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.computer, s.engine, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "insight service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("rulershipMode", s.rulershipMode),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping insight service...")

	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "insight service stopped")
}

// SeenAndRecord atomically checks if a request id was seen and records it
// if not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a request id from the seen list, allowing a retry.
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

// NewRequestID mints an id for submissions that did not bring their own.
func (s *Service) NewRequestID() string {
	return uuid.NewString()
}

// Enqueue submits a chart for asynchronous derivation. A pending record is
// stored up front so readers can poll the id immediately.
func (s *Service) Enqueue(ctx context.Context, requestID string, req model.ChartRequest, rulershipMode string) bool {
	if rulershipMode == "" {
		rulershipMode = s.rulershipMode
	}

	now := time.Now()
	if err := s.store.Put(ctx, repository.Record{
		RequestID:   requestID,
		ChartType:   req.ChartType,
		Status:      repository.StatusPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	}); err != nil {
		s.logger.Error(ctx, "storing pending record failed",
			logger.String("requestID", requestID),
			logger.Error(err),
		)
		return false
	}

	ok := s.jobQueue.Enqueue(ctx, jobqueue.Job{
		RequestID:     requestID,
		Request:       req,
		RulershipMode: rulershipMode,
	})
	if !ok {
		// The submission was rejected, so the pending record must not
		// stay behind for readers to poll.
		if err := s.store.Delete(ctx, requestID); err != nil {
			s.logger.Error(ctx, "removing pending record failed",
				logger.String("requestID", requestID),
				logger.Error(err),
			)
		}
		return false
	}

	metrics.UpdateQueueSize(s.jobQueue.Len(ctx))
	return true
}

// Insight returns the stored derivation record for a request id.
func (s *Service) Insight(ctx context.Context, requestID string) (repository.Record, error) {
	return s.store.Get(ctx, requestID)
}

// Derive runs the engine over a chart result the caller already holds,
// bypassing the queue and the computation service.
func (s *Service) Derive(_ context.Context, result *model.ChartResult, rulershipMode string) *insight.View {
	if rulershipMode == "" {
		rulershipMode = s.rulershipMode
	}

	start := time.Now()
	view := s.engine.Derive(result, rulership.ParseMode(rulershipMode))
	metrics.RecordDerivationLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordKeyAspectCount(len(view.KeyAspects))
	metrics.RecordInsightDerived()

	return view
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"rulershipMode": s.rulershipMode,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["storedInsights"] = s.store.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreRecords(s.store.Count(ctx))
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
