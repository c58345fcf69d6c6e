package scheduler

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dandantas/hush/internal/config"
	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/metrics"
	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/registry"
	"github.com/dandantas/hush/internal/worker"
)

// Scheduler drives periodic schedule reconciliation with distributed locking
type Scheduler struct {
	cfg        *config.Config
	registry   *registry.Registry
	reconciler *Reconciler
	pool       *worker.Pool
	lockRepo   *database.LockRepository
	podID      string
	ticker     *time.Ticker
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	cfg *config.Config,
	reg *registry.Registry,
	reconciler *Reconciler,
	pool *worker.Pool,
	lockRepo *database.LockRepository,
) *Scheduler {
	// Get pod identifier (hostname in Kubernetes)
	podID, err := os.Hostname()
	if err != nil {
		podID = uuid.New().String() // Fallback to UUID
		slog.Warn("Failed to get hostname, using UUID as pod ID", "pod_id", podID)
	}

	s := &Scheduler{
		cfg:        cfg,
		registry:   reg,
		reconciler: reconciler,
		pool:       pool,
		lockRepo:   lockRepo,
		podID:      podID,
		stopChan:   make(chan struct{}),
	}

	pool.SetReconciler(s.executeReconcile)

	return s
}

// Start begins the scheduler tick loop
func (s *Scheduler) Start(ctx context.Context) {
	if !s.cfg.SchedulerEnabled {
		slog.Info("Scheduler is disabled by configuration")
		return
	}

	slog.Info("Starting scheduler",
		"pod_id", s.podID,
		"tick_interval", s.cfg.SchedulerTickInterval,
		"lock_ttl", s.cfg.SchedulerLockTTL,
		"workers", s.cfg.SchedulerWorkers,
	)

	s.pool.Start()

	s.ticker = time.NewTicker(s.cfg.SchedulerTickInterval)
	s.wg.Add(1)

	go s.run(ctx)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.cfg.SchedulerEnabled {
		return
	}

	slog.Info("Stopping scheduler", "pod_id", s.podID)

	// Signal stop
	close(s.stopChan)

	// Stop ticker
	if s.ticker != nil {
		s.ticker.Stop()
	}

	// Wait for the tick loop to exit so nothing submits to the pool anymore
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("Timeout waiting for scheduler tick loop to exit")
	}

	// Drain queued reconciliations
	s.pool.Stop()

	// Release all locks owned by this pod
	if err := s.lockRepo.ReleaseAllLocks(context.Background(), s.podID); err != nil {
		slog.Error("Failed to release locks during shutdown", "error", err)
	}

	slog.Info("Scheduler stopped", "pod_id", s.podID)
}

// ReconcileNow reconciles a single schedule synchronously, bypassing the
// tick loop. Used when a schedule is created or an on-demand run is asked
// for through the API.
func (s *Scheduler) ReconcileNow(ctx context.Context, schedule *model.DowntimeSchedule) error {
	return s.executeReconcile(ctx, schedule, uuid.New().String())
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	// Run immediately on start
	s.tick(ctx)

	for {
		select {
		case <-s.ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			slog.Info("Scheduler tick loop stopped", "pod_id", s.podID)
			return
		case <-ctx.Done():
			slog.Info("Scheduler context done", "pod_id", s.podID)
			return
		}
	}
}

// tick processes one scheduler tick
func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now().UTC()

	metrics.SchedulerTicks.Inc()

	slog.Debug("Scheduler tick", "pod_id", s.podID, "time", now.Format(time.RFC3339))

	// Clean expired locks first; the repository logs the count
	if _, err := s.lockRepo.CleanExpiredLocks(ctx); err != nil {
		slog.Error("Failed to clean expired locks", "error", err)
	}

	schedules := s.registry.All()
	metrics.RegisteredSchedules.Set(float64(len(schedules)))

	if len(schedules) == 0 {
		slog.Debug("No schedules registered", "pod_id", s.podID)
		return
	}

	for _, schedule := range schedules {
		job := worker.Job{
			Schedule:      schedule,
			CorrelationID: uuid.New().String(),
			Context:       ctx,
		}

		if err := s.pool.Submit(job); err != nil {
			slog.Error("Failed to submit reconcile job",
				"schedule", schedule.Name,
				"error", err,
			)
		}
	}

	slog.Debug("Scheduler tick dispatched",
		"pod_id", s.podID,
		"schedules", len(schedules),
		"queue_length", s.pool.QueueLength(),
	)
}

// executeReconcile reconciles a single schedule under a distributed lock
func (s *Scheduler) executeReconcile(ctx context.Context, schedule *model.DowntimeSchedule, correlationID string) error {
	acquired, err := s.lockRepo.AcquireLock(ctx, schedule.Name, s.podID, s.cfg.SchedulerLockTTL)
	if err != nil {
		slog.Error("Failed to acquire lock",
			"schedule", schedule.Name,
			"correlation_id", correlationID,
			"error", err,
		)
		return err
	}

	if !acquired {
		slog.Debug("Lock already held by another pod",
			"schedule", schedule.Name,
			"correlation_id", correlationID,
		)
		return nil
	}

	defer func() {
		if err := s.lockRepo.ReleaseLock(ctx, schedule.Name, s.podID); err != nil {
			slog.Error("Failed to release lock",
				"schedule", schedule.Name,
				"pod_id", s.podID,
				"error", err,
			)
		}
	}()

	start := time.Now()
	err = s.reconciler.ReconcileOnce(ctx, schedule)
	duration := time.Since(start)

	metrics.ReconcileDuration.Observe(duration.Seconds())

	if err != nil {
		metrics.ReconcileErrors.WithLabelValues(schedule.Name).Inc()
		slog.Error("Schedule reconciliation failed",
			"schedule", schedule.Name,
			"correlation_id", correlationID,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return err
	}

	slog.Debug("Schedule reconciliation completed",
		"schedule", schedule.Name,
		"correlation_id", correlationID,
		"duration_ms", duration.Milliseconds(),
	)

	return nil
}
