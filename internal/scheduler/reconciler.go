package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/metrics"
	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/timeperiod"
)

// TargetResolver looks up the monitored target a schedule refers to
type TargetResolver interface {
	Resolve(ctx context.Context, hostName, serviceName string) (*model.Target, error)
}

// DowntimeStore persists downtime windows
type DowntimeStore interface {
	ListByTarget(ctx context.Context, targetKey string) ([]model.Downtime, error)
	Create(ctx context.Context, downtime *model.Downtime) (primitive.ObjectID, error)
	SetConfigOwner(ctx context.Context, id primitive.ObjectID, owner string) error
}

// Notifier publishes downtime lifecycle events
type Notifier interface {
	DowntimeScheduled(schedule *model.DowntimeSchedule, downtime *model.Downtime)
}

// Reconciler materializes the next downtime window for each schedule.
// Reconciliation is idempotent: a schedule that already owns a pending
// window is left alone, so running it every tick is safe.
type Reconciler struct {
	targets   TargetResolver
	downtimes DowntimeStore
	notifier  Notifier
	now       func() time.Time
}

// NewReconciler creates a new reconciler
func NewReconciler(targets TargetResolver, downtimes DowntimeStore, notifier Notifier) *Reconciler {
	return &Reconciler{
		targets:   targets,
		downtimes: downtimes,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NextWindowSegment evaluates all range rules of a schedule and returns the
// soonest segment beginning at or after now. When several rules produce the
// same begin time, the first declared rule wins.
func NextWindowSegment(schedule *model.DowntimeSchedule, now time.Time) (timeperiod.Segment, bool) {
	var best timeperiod.Segment
	found := false

	for _, rule := range schedule.Ranges {
		seg, ok, err := timeperiod.NextSegment(rule.Day, rule.Times, now)
		if err != nil {
			// Rules are validated at creation time, so this only fires
			// on documents written by older builds
			slog.Warn("Skipping unparsable range rule",
				"schedule", schedule.Name,
				"day", rule.Day,
				"times", rule.Times,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}
		if seg.Begin.Before(now) {
			continue
		}
		if !found || seg.Begin.Before(best.Begin) {
			best = seg
			found = true
		}
	}

	return best, found
}

// ReconcileOnce ensures the schedule has exactly one pending downtime window
func (r *Reconciler) ReconcileOnce(ctx context.Context, schedule *model.DowntimeSchedule) error {
	if !schedule.Enabled {
		slog.Debug("Schedule is disabled, skipping", "schedule", schedule.Name)
		return nil
	}

	now := r.now()

	target, err := r.targets.Resolve(ctx, schedule.HostName, schedule.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to resolve target for schedule '%s': %w", schedule.Name, err)
	}

	existing, err := r.downtimes.ListByTarget(ctx, target.Key())
	if err != nil {
		return fmt.Errorf("failed to list downtimes for target '%s': %w", target.Key(), err)
	}

	for _, d := range existing {
		if d.ScheduledBy == schedule.Name && !d.StartTime.Before(now) {
			slog.Debug("Schedule already has a pending downtime",
				"schedule", schedule.Name,
				"downtime_id", d.ID.Hex(),
				"start_time", d.StartTime.Format(time.RFC3339),
			)
			return nil
		}
	}

	seg, ok := NextWindowSegment(schedule, now)
	if !ok {
		slog.Debug("No future downtime segment for schedule", "schedule", schedule.Name)
		return nil
	}

	downtime := &model.Downtime{
		TargetKey:   target.Key(),
		StartTime:   seg.Begin,
		EndTime:     seg.End,
		Fixed:       schedule.Fixed,
		Author:      schedule.Author,
		Comment:     schedule.Comment,
		ScheduledBy: schedule.Name,
		CreatedAt:   now,
	}
	if !schedule.Fixed {
		downtime.Duration = schedule.Duration
	}

	id, err := r.downtimes.Create(ctx, downtime)
	if err != nil {
		return fmt.Errorf("failed to create downtime for schedule '%s': %w", schedule.Name, err)
	}
	downtime.ID = id

	// Ownership is recorded as a second step after the window exists.
	// Idempotency keys on scheduled_by, which is already set, so a
	// failure here cannot cause a duplicate window on the next tick.
	if err := r.downtimes.SetConfigOwner(ctx, id, schedule.Name); err != nil {
		return fmt.Errorf("failed to set config owner on downtime '%s': %w", id.Hex(), err)
	}
	downtime.ConfigOwner = schedule.Name

	metrics.DowntimesCreated.Inc()

	slog.Info("Scheduled next downtime",
		"schedule", schedule.Name,
		"target", target.Key(),
		"downtime_id", id.Hex(),
		"start_time", seg.Begin.Format(time.RFC3339),
		"end_time", seg.End.Format(time.RFC3339),
		"fixed", schedule.Fixed,
	)

	if r.notifier != nil {
		r.notifier.DowntimeScheduled(schedule, downtime)
	}

	return nil
}
