package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/model"
)

// DowntimeService handles manually created downtime windows and queries
// over all windows regardless of origin
type DowntimeService struct {
	repo       *database.DowntimeRepository
	targetRepo *database.TargetRepository
	notifier   *NotificationService
}

// NewDowntimeService creates a new downtime service
func NewDowntimeService(
	repo *database.DowntimeRepository,
	targetRepo *database.TargetRepository,
	notifier *NotificationService,
) *DowntimeService {
	return &DowntimeService{
		repo:       repo,
		targetRepo: targetRepo,
		notifier:   notifier,
	}
}

// Create persists a manually requested downtime window. Manual windows
// never carry schedule ownership, whatever the client sent.
func (s *DowntimeService) Create(ctx context.Context, downtime *model.Downtime) error {
	downtime.ScheduledBy = ""
	downtime.ConfigOwner = ""

	if err := downtime.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	hostName, serviceName := splitTargetKey(downtime.TargetKey)
	if _, err := s.targetRepo.Resolve(ctx, hostName, serviceName); err != nil {
		return fmt.Errorf("cannot create downtime: %w", err)
	}

	if _, err := s.repo.Create(ctx, downtime); err != nil {
		return err
	}

	slog.Info("Downtime created",
		"downtime_id", downtime.ID.Hex(),
		"target", downtime.TargetKey,
		"start_time", downtime.StartTime.Format(time.RFC3339),
		"end_time", downtime.EndTime.Format(time.RFC3339),
	)

	s.notifier.DowntimeCreated(downtime)

	return nil
}

// GetByID retrieves a downtime by ID
func (s *DowntimeService) GetByID(ctx context.Context, id string) (*model.Downtime, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.GetByID(ctx, objID)
}

// List retrieves downtime windows with filtering
func (s *DowntimeService) List(ctx context.Context, targetKey, scheduledBy, state string, page, limit int) ([]model.DowntimeSummary, int64, error) {
	now := time.Now().UTC()

	filter := bson.M{}
	if targetKey != "" {
		filter["target_key"] = targetKey
	}
	if scheduledBy != "" {
		filter["scheduled_by"] = scheduledBy
	}

	// The window state is derived from its bounds, so a state filter
	// translates to bounds conditions
	switch state {
	case "":
	case model.DowntimePending:
		filter["start_time"] = bson.M{"$gte": now}
	case model.DowntimeActive:
		filter["start_time"] = bson.M{"$lt": now}
		filter["end_time"] = bson.M{"$gt": now}
	case model.DowntimeExpired:
		filter["end_time"] = bson.M{"$lte": now}
	default:
		return nil, 0, fmt.Errorf("invalid state filter '%s'", state)
	}

	downtimes, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]model.DowntimeSummary, len(downtimes))
	for i, downtime := range downtimes {
		summaries[i] = downtime.ToSummary(now)
	}

	return summaries, total, nil
}

// Delete removes a downtime window
func (s *DowntimeService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	downtime, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, objID); err != nil {
		return err
	}

	slog.Info("Downtime deleted",
		"downtime_id", id,
		"target", downtime.TargetKey,
		"scheduled_by", downtime.ScheduledBy,
	)

	s.notifier.DowntimeRemoved(downtime)

	return nil
}

// splitTargetKey takes a canonical target key apart again. Host and service
// names cannot contain the separator, so at most one split happens.
func splitTargetKey(key string) (hostName, serviceName string) {
	parts := strings.SplitN(key, "!", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
