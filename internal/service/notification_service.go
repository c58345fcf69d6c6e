package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/metrics"
	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/webhook"
)

// NotificationService publishes downtime lifecycle events to the configured
// webhook and keeps a delivery log. Deliveries run in the background so
// schedule reconciliation never waits on a slow receiver.
type NotificationService struct {
	dispatcher *webhook.Dispatcher
	repo       *database.NotificationRepository
	wg         sync.WaitGroup
}

// NewNotificationService creates a new notification service
func NewNotificationService(dispatcher *webhook.Dispatcher, repo *database.NotificationRepository) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		repo:       repo,
	}
}

// DowntimeScheduled publishes a downtime.scheduled event
func (s *NotificationService) DowntimeScheduled(schedule *model.DowntimeSchedule, downtime *model.Downtime) {
	s.publish(model.EventDowntimeScheduled, schedule, downtime)
}

// DowntimeCreated publishes a downtime.created event for a manual window
func (s *NotificationService) DowntimeCreated(downtime *model.Downtime) {
	s.publish(model.EventDowntimeCreated, nil, downtime)
}

// DowntimeRemoved publishes a downtime.removed event
func (s *NotificationService) DowntimeRemoved(downtime *model.Downtime) {
	s.publish(model.EventDowntimeRemoved, nil, downtime)
}

// publish delivers one event in the background and records the outcome
func (s *NotificationService) publish(event string, schedule *model.DowntimeSchedule, downtime *model.Downtime) {
	if !s.dispatcher.Enabled() {
		slog.Debug("Notifications disabled, skipping event",
			"event", event,
			"target", downtime.TargetKey,
		)
		return
	}

	payload := webhook.FormatDowntimePayload(event, schedule, downtime)
	correlationID := uuid.New().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Bounded by the delivery retries, generous on top of them
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		log, err := s.dispatcher.Send(ctx, payload, correlationID)
		if err != nil {
			slog.Error("Notification delivery failed",
				"event", event,
				"correlation_id", correlationID,
				"error", err,
			)
		}

		metrics.NotificationsSent.WithLabelValues(event, log.FinalStatus).Inc()

		if saveErr := s.repo.Create(ctx, log); saveErr != nil {
			slog.Error("Failed to save notification log",
				"correlation_id", correlationID,
				"error", saveErr,
			)
		}
	}()
}

// Stop waits for in-flight deliveries to finish
func (s *NotificationService) Stop() {
	s.wg.Wait()
}

// CircuitState returns the webhook circuit breaker state
func (s *NotificationService) CircuitState() string {
	return s.dispatcher.CircuitState()
}

// GetByID retrieves a notification log by ID
func (s *NotificationService) GetByID(ctx context.Context, id string) (*model.NotificationLog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.GetByID(ctx, objID)
}

// List retrieves notification logs with filtering
func (s *NotificationService) List(ctx context.Context, event, status, scheduleName string, page, limit int) ([]model.NotificationSummary, int64, error) {
	filter := bson.M{}
	if event != "" {
		filter["event"] = event
	}
	if status != "" {
		filter["final_status"] = status
	}
	if scheduleName != "" {
		filter["schedule_name"] = scheduleName
	}

	logs, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]model.NotificationSummary, len(logs))
	for i, log := range logs {
		summaries[i] = log.ToSummary()
	}

	return summaries, total, nil
}
