package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/timeperiod"
)

// RangeRule is one recurrence rule of a schedule: a day specification plus
// the time-of-day ranges applying on matching days. Rules keep declaration
// order; when two rules yield the same next begin, the earlier one wins.
type RangeRule struct {
	Day   string `json:"day" bson:"day"`
	Times string `json:"times" bson:"times"`
}

// DowntimeSchedule represents a recurring downtime definition document
type DowntimeSchedule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"` // Composed "<targetKey>!<shortName>", unique
	HostName    string             `json:"host_name" bson:"host_name"`
	ServiceName string             `json:"service_name,omitempty" bson:"service_name"`
	ShortName   string             `json:"short_name" bson:"short_name"`
	Ranges      []RangeRule        `json:"ranges" bson:"ranges"`
	Fixed       bool               `json:"fixed" bson:"fixed"`
	Duration    int64              `json:"duration,omitempty" bson:"duration,omitempty"` // Seconds; required for flexible windows
	Author      string             `json:"author,omitempty" bson:"author,omitempty"`
	Comment     string             `json:"comment,omitempty" bson:"comment,omitempty"`
	Enabled     bool               `json:"enabled" bson:"enabled"`
	Metadata    Metadata           `json:"metadata" bson:"metadata"`
}

// TargetKey returns the key of the target this schedule applies to
func (s *DowntimeSchedule) TargetKey() string {
	return TargetKey(s.HostName, s.ServiceName)
}

// ComposeName builds the schedule's full name from its parts. Composition
// happens once at creation; the stored name never changes afterwards.
func (s *DowntimeSchedule) ComposeName() string {
	return s.TargetKey() + "!" + s.ShortName
}

// Validate validates the schedule and normalizes its fields. Range rule
// failures are collected into a ValidationErrors so a definition with several
// bad entries reports every one of them, not just the first.
func (s *DowntimeSchedule) Validate() error {
	s.HostName = strings.TrimSpace(s.HostName)
	s.ServiceName = strings.TrimSpace(s.ServiceName)
	s.ShortName = strings.TrimSpace(s.ShortName)

	if s.HostName == "" {
		return errors.New("host name is required")
	}
	if strings.Contains(s.HostName, "!") {
		return errors.New("host name must not contain '!'")
	}
	if strings.Contains(s.ServiceName, "!") {
		return errors.New("service name must not contain '!'")
	}
	if s.ShortName == "" {
		return errors.New("short name is required")
	}
	if strings.Contains(s.ShortName, "!") {
		return errors.New("short name must not contain '!'")
	}
	if len(s.Ranges) == 0 {
		return errors.New("at least one range rule is required")
	}
	if !s.Fixed && s.Duration <= 0 {
		return errors.New("duration is required for flexible downtime schedules")
	}
	if s.Fixed {
		s.Duration = 0
	}

	var verrs ValidationErrors
	for _, r := range s.Ranges {
		if err := timeperiod.ParseDaySpec(r.Day); err != nil {
			verrs.Add("ranges", fmt.Sprintf("invalid time specification '%s': %v", r.Day, err))
		}
		if err := timeperiod.ParseTimeRanges(r.Times); err != nil {
			verrs.Add("ranges", fmt.Sprintf("invalid time range definition '%s': %v", r.Times, err))
		}
	}
	if err := verrs.OrNil(); err != nil {
		return err
	}

	// Set metadata timestamps
	now := time.Now().UTC()
	if s.Metadata.CreatedAt.IsZero() {
		s.Metadata.CreatedAt = now
	}
	if s.Metadata.UpdatedAt.IsZero() {
		s.Metadata.UpdatedAt = now
	}

	return nil
}

// ScheduleListItem represents a summary of a schedule for list responses
type ScheduleListItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TargetKey   string    `json:"target_key"`
	ShortName   string    `json:"short_name"`
	RangesCount int       `json:"ranges_count"`
	Fixed       bool      `json:"fixed"`
	Duration    int64     `json:"duration,omitempty"`
	Enabled     bool      `json:"enabled"`
	Author      string    `json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToListItem converts DowntimeSchedule to ScheduleListItem
func (s *DowntimeSchedule) ToListItem() ScheduleListItem {
	return ScheduleListItem{
		ID:          s.ID.Hex(),
		Name:        s.Name,
		TargetKey:   s.TargetKey(),
		ShortName:   s.ShortName,
		RangesCount: len(s.Ranges),
		Fixed:       s.Fixed,
		Duration:    s.Duration,
		Enabled:     s.Enabled,
		Author:      s.Author,
		CreatedAt:   s.Metadata.CreatedAt,
	}
}
