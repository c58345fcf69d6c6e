package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/registry"
)

// ScheduleReconciler triggers an immediate reconciliation of one schedule
type ScheduleReconciler interface {
	ReconcileNow(ctx context.Context, schedule *model.DowntimeSchedule) error
}

// ScheduleService handles downtime schedule management
type ScheduleService struct {
	repo         *database.ScheduleRepository
	targetRepo   *database.TargetRepository
	downtimeRepo *database.DowntimeRepository
	registry     *registry.Registry
	reconciler   ScheduleReconciler
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	repo *database.ScheduleRepository,
	targetRepo *database.TargetRepository,
	downtimeRepo *database.DowntimeRepository,
	reg *registry.Registry,
	reconciler ScheduleReconciler,
) *ScheduleService {
	return &ScheduleService{
		repo:         repo,
		targetRepo:   targetRepo,
		downtimeRepo: downtimeRepo,
		registry:     reg,
		reconciler:   reconciler,
	}
}

// Create validates and persists a new schedule, registers it with the
// scheduler and materializes its first downtime window right away instead
// of waiting for the next tick.
func (s *ScheduleService) Create(ctx context.Context, schedule *model.DowntimeSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	// The referenced target has to exist before any window can apply to it
	if _, err := s.targetRepo.Resolve(ctx, schedule.HostName, schedule.ServiceName); err != nil {
		return fmt.Errorf("cannot create schedule: %w", err)
	}

	schedule.Name = schedule.ComposeName()

	if err := s.repo.Create(ctx, schedule); err != nil {
		return err
	}

	if schedule.Enabled {
		s.registry.Register(schedule)

		if err := s.reconciler.ReconcileNow(ctx, schedule); err != nil {
			// The next scheduler tick retries, creation itself succeeded
			slog.Warn("Initial reconciliation failed",
				"schedule", schedule.Name,
				"error", err,
			)
		}
	}

	slog.Info("Schedule created",
		"schedule", schedule.Name,
		"target", schedule.TargetKey(),
		"enabled", schedule.Enabled,
	)

	return nil
}

// GetByID retrieves a schedule by ID
func (s *ScheduleService) GetByID(ctx context.Context, id string) (*model.DowntimeSchedule, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.GetByID(ctx, objID)
}

// List retrieves schedules with filtering
func (s *ScheduleService) List(ctx context.Context, enabled *bool, hostName string, page, limit int) ([]model.ScheduleListItem, int64, error) {
	filter := bson.M{}
	if enabled != nil {
		filter["enabled"] = *enabled
	}
	if hostName != "" {
		filter["host_name"] = hostName
	}

	schedules, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.ScheduleListItem, len(schedules))
	for i, schedule := range schedules {
		items[i] = schedule.ToListItem()
	}

	return items, total, nil
}

// Delete removes a schedule together with the pending windows it owns.
// Windows that already started are kept as history until the janitor
// purges them.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	schedule, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, objID); err != nil {
		return err
	}

	s.registry.Unregister(schedule.Name)

	removed, err := s.downtimeRepo.DeletePendingByOwner(ctx, schedule.Name, time.Now().UTC())
	if err != nil {
		slog.Error("Failed to delete pending downtimes of removed schedule",
			"schedule", schedule.Name,
			"error", err,
		)
	}

	slog.Info("Schedule deleted",
		"schedule", schedule.Name,
		"pending_windows_removed", removed,
	)

	return nil
}

// Reconcile runs an on-demand reconciliation of one schedule
func (s *ScheduleService) Reconcile(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	schedule, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return err
	}

	return s.reconciler.ReconcileNow(ctx, schedule)
}

// LoadAll populates the registry with every enabled schedule whose target
// still resolves. Called once at startup. A schedule pointing at a vanished
// target is invalid configuration; it is reported and left unregistered
// instead of failing on every tick.
func (s *ScheduleService) LoadAll(ctx context.Context) error {
	schedules, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	registered := 0
	for i := range schedules {
		schedule := &schedules[i]

		if _, err := s.targetRepo.Resolve(ctx, schedule.HostName, schedule.ServiceName); err != nil {
			slog.Error("Schedule target does not resolve, not registering",
				"schedule", schedule.Name,
				"target", schedule.TargetKey(),
				"error", err,
			)
			continue
		}

		s.registry.Register(schedule)
		registered++
	}

	slog.Info("Loaded schedules into registry",
		"registered", registered,
		"skipped", len(schedules)-registered,
	)

	return nil
}
