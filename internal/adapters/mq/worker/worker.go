// Package worker defines worker contracts for asynchronous chart derivation.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/astriel/siderea/internal/adapters/mq/queue"
	"github.com/astriel/siderea/internal/adapters/repository"
	"github.com/astriel/siderea/internal/domain/insight"
	"github.com/astriel/siderea/internal/domain/model"
	"github.com/astriel/siderea/internal/domain/rulership"
	"github.com/astriel/siderea/pkg/logger"
	"github.com/astriel/siderea/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
// Using the queue.Job type for consistency.
type Job = queue.Job

// Computer produces a computed chart for a request.
type Computer interface {
	Compute(ctx context.Context, req model.ChartRequest) (*model.ChartResult, error)
}

// Deriver turns a computed chart into an insight view.
type Deriver interface {
	Derive(result *model.ChartResult, mode rulership.Mode) *insight.View
}

// Store persists derivation outcomes.
type Store interface {
	Put(ctx context.Context, rec repository.Record) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes chart jobs and writes derivation records.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing chart jobs.
type InMemoryWorker struct {
	queue    Queue
	computer Computer
	deriver  Deriver
	store    Store
	name     string

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, computer Computer, deriver Deriver, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		computer: computer,
		deriver:  deriver,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signalShutdown()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) signalShutdown() {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
}

// processJob handles a single chart job end to end: compute the chart,
// derive the insight view, and store the outcome under the request id.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	result, err := w.computer.Compute(ctx, job.Request)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordDerivationFailure()
		metrics.RecordErrorByComponent("worker", "computation_error")
		w.logger.Error(ctx, "chart computation failed",
			logger.String("requestID", job.RequestID),
			logger.Error(err),
		)
		w.storeFailure(ctx, job, err)
		return fmt.Errorf("chart computation failed for %s: %w", job.RequestID, err)
	}

	deriveStart := time.Now()
	view := w.deriver.Derive(result, rulership.ParseMode(job.RulershipMode))
	metrics.RecordDerivationLatency(float64(time.Since(deriveStart).Milliseconds()))
	metrics.RecordKeyAspectCount(len(view.KeyAspects))

	if err := w.store.Put(ctx, repository.Record{
		RequestID: job.RequestID,
		ChartType: string(view.ChartType),
		Status:    repository.StatusReady,
		View:      view,
	}); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "storing insight failed",
			logger.String("requestID", job.RequestID),
			logger.Error(err),
		)
		return fmt.Errorf("storing insight for %s: %w", job.RequestID, err)
	}

	metrics.RecordInsightDerived()

	return nil
}

// storeFailure records a failed derivation so readers see a terminal status
// instead of a forever-pending record.
func (w *InMemoryWorker) storeFailure(ctx context.Context, job Job, cause error) {
	if err := w.store.Put(ctx, repository.Record{
		RequestID: job.RequestID,
		ChartType: job.Request.ChartType,
		Status:    repository.StatusFailed,
		Error:     cause.Error(),
	}); err != nil {
		w.logger.Error(ctx, "storing failure record failed",
			logger.String("requestID", job.RequestID),
			logger.Error(err),
		)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, computer Computer, deriver Deriver, store Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			computer,
			deriver,
			store,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.signalShutdown()
	}

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue first so no new jobs arrive.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	for _, w := range p.workers {
		w.signalShutdown()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
