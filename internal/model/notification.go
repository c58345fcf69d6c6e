package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification event types
const (
	EventDowntimeScheduled = "downtime.scheduled"
	EventDowntimeCreated   = "downtime.created"
	EventDowntimeRemoved   = "downtime.removed"
)

// NotificationAttempt represents a single webhook delivery attempt
type NotificationAttempt struct {
	AttemptNumber int       `json:"attempt_number" bson:"attempt_number"`
	Timestamp     time.Time `json:"timestamp" bson:"timestamp"`
	StatusCode    int       `json:"status_code,omitempty" bson:"status_code,omitempty"`
	ResponseBody  string    `json:"response_body,omitempty" bson:"response_body,omitempty"`
	Error         string    `json:"error,omitempty" bson:"error,omitempty"`
	DurationMs    int64     `json:"duration_ms" bson:"duration_ms"`
}

// NotificationPayload represents the payload sent to the notification webhook
type NotificationPayload struct {
	Event        string    `json:"event" bson:"event"`
	ScheduleName string    `json:"schedule_name,omitempty" bson:"schedule_name,omitempty"`
	TargetKey    string    `json:"target_key" bson:"target_key"`
	DowntimeID   string    `json:"downtime_id" bson:"downtime_id"`
	StartTime    time.Time `json:"start_time" bson:"start_time"`
	EndTime      time.Time `json:"end_time" bson:"end_time"`
	Fixed        bool      `json:"fixed" bson:"fixed"`
	Author       string    `json:"author,omitempty" bson:"author,omitempty"`
	Comment      string    `json:"comment,omitempty" bson:"comment,omitempty"`
	Text         string    `json:"text" bson:"text"`
}

// NotificationLog represents a notification delivery document
type NotificationLog struct {
	ID            primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	CorrelationID string                `json:"correlation_id" bson:"correlation_id"`
	Event         string                `json:"event" bson:"event"`
	ScheduleName  string                `json:"schedule_name,omitempty" bson:"schedule_name,omitempty"`
	TargetKey     string                `json:"target_key" bson:"target_key"`
	DowntimeID    primitive.ObjectID    `json:"downtime_id" bson:"downtime_id"`
	WebhookURL    string                `json:"webhook_url" bson:"webhook_url"`
	Payload       NotificationPayload   `json:"payload" bson:"payload"`
	Attempts      []NotificationAttempt `json:"attempts" bson:"attempts"`
	FinalStatus   string                `json:"final_status" bson:"final_status"` // "delivered", "failed", "retrying"
	CreatedAt     time.Time             `json:"created_at" bson:"created_at"`
	CompletedAt   time.Time             `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// NotificationSummary represents a summary for list responses
type NotificationSummary struct {
	ID            string `json:"id"`
	CorrelationID string `json:"correlation_id"`
	Event         string `json:"event"`
	ScheduleName  string `json:"schedule_name,omitempty"`
	TargetKey     string `json:"target_key"`
	FinalStatus   string `json:"final_status"`
	AttemptsCount int    `json:"attempts_count"`
	CreatedAt     string `json:"created_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
}

// ToSummary converts NotificationLog to NotificationSummary
func (n *NotificationLog) ToSummary() NotificationSummary {
	// Convert time.Time fields to ISO 8601 strings
	var createdAt, completedAt string
	if !n.CreatedAt.IsZero() {
		createdAt = n.CreatedAt.Format(time.RFC3339)
	}
	if !n.CompletedAt.IsZero() {
		completedAt = n.CompletedAt.Format(time.RFC3339)
	}

	return NotificationSummary{
		ID:            n.ID.Hex(),
		CorrelationID: n.CorrelationID,
		Event:         n.Event,
		ScheduleName:  n.ScheduleName,
		TargetKey:     n.TargetKey,
		FinalStatus:   n.FinalStatus,
		AttemptsCount: len(n.Attempts),
		CreatedAt:     createdAt,
		CompletedAt:   completedAt,
	}
}
