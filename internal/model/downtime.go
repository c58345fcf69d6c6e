package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Downtime states derived from the window bounds
const (
	DowntimePending = "pending"
	DowntimeActive  = "active"
	DowntimeExpired = "expired"
)

// Downtime represents one concrete maintenance window on a target.
// Windows generated from a schedule carry the schedule's full name in both
// ScheduledBy and ConfigOwner; manually created windows leave both empty.
type Downtime struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TargetKey   string             `json:"target_key" bson:"target_key"`
	StartTime   time.Time          `json:"start_time" bson:"start_time"`
	EndTime     time.Time          `json:"end_time" bson:"end_time"`
	Fixed       bool               `json:"fixed" bson:"fixed"`
	Duration    int64              `json:"duration,omitempty" bson:"duration,omitempty"` // Seconds; effective length of a flexible window
	Author      string             `json:"author,omitempty" bson:"author,omitempty"`
	Comment     string             `json:"comment,omitempty" bson:"comment,omitempty"`
	ScheduledBy string             `json:"scheduled_by,omitempty" bson:"scheduled_by,omitempty"`
	ConfigOwner string             `json:"config_owner,omitempty" bson:"config_owner,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Validate validates a manually submitted downtime
func (d *Downtime) Validate() error {
	if d.TargetKey == "" {
		return errors.New("target key is required")
	}
	if d.StartTime.IsZero() || d.EndTime.IsZero() {
		return errors.New("start time and end time are required")
	}
	if !d.EndTime.After(d.StartTime) {
		return errors.New("end time must be after start time")
	}
	if !d.Fixed && d.Duration <= 0 {
		return errors.New("duration is required for flexible downtimes")
	}
	if d.Fixed {
		d.Duration = 0
	}

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	return nil
}

// IsPending reports whether the window has not started yet
func (d *Downtime) IsPending(now time.Time) bool {
	return !d.StartTime.Before(now)
}

// IsActive reports whether now falls within [start, end)
func (d *Downtime) IsActive(now time.Time) bool {
	return !now.Before(d.StartTime) && now.Before(d.EndTime)
}

// IsExpired reports whether the window has ended
func (d *Downtime) IsExpired(now time.Time) bool {
	return !now.Before(d.EndTime)
}

// State returns the window state relative to now
func (d *Downtime) State(now time.Time) string {
	switch {
	case d.IsPending(now):
		return DowntimePending
	case d.IsActive(now):
		return DowntimeActive
	default:
		return DowntimeExpired
	}
}

// DowntimeSummary represents a summary for list responses
type DowntimeSummary struct {
	ID          string `json:"id"`
	TargetKey   string `json:"target_key"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Fixed       bool   `json:"fixed"`
	Duration    int64  `json:"duration,omitempty"`
	ScheduledBy string `json:"scheduled_by,omitempty"`
	State       string `json:"state"`
}

// ToSummary converts Downtime to DowntimeSummary
func (d *Downtime) ToSummary(now time.Time) DowntimeSummary {
	return DowntimeSummary{
		ID:          d.ID.Hex(),
		TargetKey:   d.TargetKey,
		StartTime:   d.StartTime.Format(time.RFC3339),
		EndTime:     d.EndTime.Format(time.RFC3339),
		Fixed:       d.Fixed,
		Duration:    d.Duration,
		ScheduledBy: d.ScheduledBy,
		State:       d.State(now),
	}
}
