package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dandantas/hush/internal/model"
)

// ReconcileFunc processes one schedule reconciliation job
type ReconcileFunc func(ctx context.Context, schedule *model.DowntimeSchedule, correlationID string) error

// Pool manages a pool of worker goroutines reconciling schedules concurrently.
// Jobs are fire-and-forget: failures are handled and logged by the reconcile
// function, and the next scheduler tick retries naturally.
type Pool struct {
	workers     int
	jobs        chan Job
	reconcileFn ReconcileFunc
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewPool creates a new worker pool
func NewPool(workers int, jobQueueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers: workers,
		jobs:    make(chan Job, jobQueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetReconciler sets the function that will process jobs
func (p *Pool) SetReconciler(fn ReconcileFunc) {
	p.reconcileFn = fn
}

// Start starts the worker pool
func (p *Pool) Start() {
	slog.Info("Starting worker pool", "workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop stops the worker pool gracefully, draining queued jobs first
func (p *Pool) Stop() {
	slog.Info("Stopping worker pool")

	// Close jobs channel to signal workers to stop
	close(p.jobs)

	// Wait for all workers to finish
	p.wg.Wait()

	// Cancel context
	p.cancel()

	slog.Info("Worker pool stopped")
}

// Submit submits a job to the worker pool
func (p *Pool) Submit(job Job) error {
	select {
	case p.jobs <- job:
		slog.Debug("Job submitted to worker pool",
			"schedule", job.Schedule.Name,
			"correlation_id", job.CorrelationID,
		)
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// worker is the worker goroutine that processes jobs
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	slog.Debug("Worker started", "worker_id", id)

	for job := range p.jobs {
		slog.Debug("Worker processing job",
			"worker_id", id,
			"schedule", job.Schedule.Name,
			"correlation_id", job.CorrelationID,
		)

		// Errors are logged and counted by the reconcile function; one
		// schedule failing must not affect the rest of the queue
		_ = p.reconcileFn(job.Context, job.Schedule, job.CorrelationID)
	}

	slog.Debug("Worker stopped", "worker_id", id)
}

// QueueLength returns the current number of jobs in the queue
func (p *Pool) QueueLength() int {
	return len(p.jobs)
}
