package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/model"
)

// ErrTargetInUse is returned when a target still has schedules referencing it
var ErrTargetInUse = errors.New("target is referenced by downtime schedules")

// TargetService handles monitored target management
type TargetService struct {
	repo         *database.TargetRepository
	scheduleRepo *database.ScheduleRepository
}

// NewTargetService creates a new target service
func NewTargetService(repo *database.TargetRepository, scheduleRepo *database.ScheduleRepository) *TargetService {
	return &TargetService{
		repo:         repo,
		scheduleRepo: scheduleRepo,
	}
}

// Create registers a new monitored target
func (s *TargetService) Create(ctx context.Context, target *model.Target) error {
	if err := target.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.repo.Create(ctx, target)
}

// GetByID retrieves a target by ID
func (s *TargetService) GetByID(ctx context.Context, id string) (*model.Target, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.GetByID(ctx, objID)
}

// List retrieves targets with filtering
func (s *TargetService) List(ctx context.Context, hostName string, tags []string, page, limit int) ([]model.TargetListItem, int64, error) {
	filter := bson.M{}
	if hostName != "" {
		filter["host_name"] = hostName
	}
	if len(tags) > 0 {
		filter["metadata.tags"] = bson.M{"$in": tags}
	}

	targets, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.TargetListItem, len(targets))
	for i, target := range targets {
		items[i] = target.ToListItem()
	}

	return items, total, nil
}

// Delete removes a target. A target still referenced by schedules cannot be
// deleted, the schedules have to go first.
func (s *TargetService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	target, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return err
	}

	count, err := s.scheduleRepo.CountByTarget(ctx, target.HostName, target.ServiceName)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("target '%s' has %d schedule(s): %w", target.Key(), count, ErrTargetInUse)
	}

	return s.repo.Delete(ctx, objID)
}
