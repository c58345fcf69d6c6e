package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/model"
)

// testNow is a Tuesday, 2026-08-25 09:30 UTC
var testNow = time.Date(2026, time.August, 25, 9, 30, 0, 0, time.UTC)

type fakeTargets struct {
	targets map[string]*model.Target
}

func (f *fakeTargets) Resolve(ctx context.Context, hostName, serviceName string) (*model.Target, error) {
	key := model.TargetKey(hostName, serviceName)
	target, ok := f.targets[key]
	if !ok {
		return nil, fmt.Errorf("target '%s': %w", key, database.ErrNotFound)
	}
	return target, nil
}

type fakeDowntimes struct {
	existing  []model.Downtime
	created   []model.Downtime
	owners    map[string]string
	createErr error
}

func (f *fakeDowntimes) ListByTarget(ctx context.Context, targetKey string) ([]model.Downtime, error) {
	var out []model.Downtime
	for _, d := range f.existing {
		if d.TargetKey == targetKey {
			out = append(out, d)
		}
	}
	for _, d := range f.created {
		if d.TargetKey == targetKey {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDowntimes) Create(ctx context.Context, downtime *model.Downtime) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	downtime.ID = primitive.NewObjectID()
	f.created = append(f.created, *downtime)
	return downtime.ID, nil
}

func (f *fakeDowntimes) SetConfigOwner(ctx context.Context, id primitive.ObjectID, owner string) error {
	if f.owners == nil {
		f.owners = make(map[string]string)
	}
	f.owners[id.Hex()] = owner
	return nil
}

type fakeNotifier struct {
	scheduled []string
}

func (f *fakeNotifier) DowntimeScheduled(schedule *model.DowntimeSchedule, downtime *model.Downtime) {
	f.scheduled = append(f.scheduled, schedule.Name)
}

func testSchedule(host, service, short string, ranges []model.RangeRule) *model.DowntimeSchedule {
	s := &model.DowntimeSchedule{
		HostName:    host,
		ServiceName: service,
		ShortName:   short,
		Ranges:      ranges,
		Fixed:       true,
		Enabled:     true,
		Author:      "ops",
		Comment:     "planned maintenance",
	}
	s.Name = s.ComposeName()
	return s
}

func testReconciler(targets *fakeTargets, downtimes *fakeDowntimes, notifier *fakeNotifier) *Reconciler {
	r := NewReconciler(targets, downtimes, notifier)
	r.now = func() time.Time { return testNow }
	return r
}

func hostTargets(hosts ...string) *fakeTargets {
	f := &fakeTargets{targets: make(map[string]*model.Target)}
	for _, h := range hosts {
		f.targets[h] = &model.Target{HostName: h}
	}
	return f
}

func TestNextWindowSegment_PicksSoonestRule(t *testing.T) {
	schedule := testSchedule("web-01", "", "maintenance", []model.RangeRule{
		{Day: "friday", Times: "10:00-12:00"},
		{Day: "wednesday", Times: "09:00-10:00"},
	})

	seg, ok := NextWindowSegment(schedule, testNow)

	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.August, 26, 9, 0, 0, 0, time.UTC), seg.Begin)
	assert.Equal(t, time.Date(2026, time.August, 26, 10, 0, 0, 0, time.UTC), seg.End)
}

func TestNextWindowSegment_FirstDeclaredRuleWinsTies(t *testing.T) {
	// Both rules resolve to 2026-08-26 09:00 but with different ends
	first := model.RangeRule{Day: "wednesday", Times: "09:00-10:00"}
	second := model.RangeRule{Day: "day 26", Times: "09:00-11:00"}

	schedule := testSchedule("web-01", "", "maintenance", []model.RangeRule{first, second})
	seg, ok := NextWindowSegment(schedule, testNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.August, 26, 10, 0, 0, 0, time.UTC), seg.End)

	schedule = testSchedule("web-01", "", "maintenance", []model.RangeRule{second, first})
	seg, ok = NextWindowSegment(schedule, testNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.August, 26, 11, 0, 0, 0, time.UTC), seg.End)
}

func TestNextWindowSegment_SkipsUnparsableRule(t *testing.T) {
	schedule := testSchedule("web-01", "", "maintenance", []model.RangeRule{
		{Day: "someday", Times: "09:00-10:00"},
		{Day: "wednesday", Times: "09:00-10:00"},
	})

	seg, ok := NextWindowSegment(schedule, testNow)

	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.August, 26, 9, 0, 0, 0, time.UTC), seg.Begin)
}

func TestNextWindowSegment_NoFutureSegment(t *testing.T) {
	schedule := testSchedule("web-01", "", "maintenance", []model.RangeRule{
		{Day: "2026-01-05", Times: "09:00-10:00"},
	})

	_, ok := NextWindowSegment(schedule, testNow)

	assert.False(t, ok)
}

func TestReconcileOnce_CreatesNextWindow(t *testing.T) {
	downtimes := &fakeDowntimes{}
	notifier := &fakeNotifier{}
	r := testReconciler(hostTargets("web-01"), downtimes, notifier)

	schedule := testSchedule("web-01", "", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})

	err := r.ReconcileOnce(context.Background(), schedule)
	require.NoError(t, err)

	require.Len(t, downtimes.created, 1)
	created := downtimes.created[0]

	assert.Equal(t, "web-01", created.TargetKey)
	assert.Equal(t, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC), created.StartTime)
	assert.Equal(t, time.Date(2026, time.August, 31, 8, 0, 0, 0, time.UTC), created.EndTime)
	assert.True(t, created.Fixed)
	assert.Zero(t, created.Duration)
	assert.Equal(t, "web-01!nightly", created.ScheduledBy)
	assert.Equal(t, "ops", created.Author)
	assert.Equal(t, "planned maintenance", created.Comment)

	// Ownership is recorded as a second step
	assert.Equal(t, "web-01!nightly", downtimes.owners[created.ID.Hex()])

	require.Len(t, notifier.scheduled, 1)
	assert.Equal(t, "web-01!nightly", notifier.scheduled[0])
}

func TestReconcileOnce_SecondRunIsNoOp(t *testing.T) {
	downtimes := &fakeDowntimes{}
	notifier := &fakeNotifier{}
	r := testReconciler(hostTargets("web-01"), downtimes, notifier)

	schedule := testSchedule("web-01", "", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})

	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))
	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))

	assert.Len(t, downtimes.created, 1)
	assert.Len(t, notifier.scheduled, 1)
}

func TestReconcileOnce_ExistingPendingWindowBlocks(t *testing.T) {
	downtimes := &fakeDowntimes{
		existing: []model.Downtime{
			{
				ID:          primitive.NewObjectID(),
				TargetKey:   "web-01",
				StartTime:   time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
				EndTime:     time.Date(2026, time.August, 31, 8, 0, 0, 0, time.UTC),
				ScheduledBy: "web-01!nightly",
			},
		},
	}
	notifier := &fakeNotifier{}
	r := testReconciler(hostTargets("web-01"), downtimes, notifier)

	schedule := testSchedule("web-01", "", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})

	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))

	assert.Empty(t, downtimes.created)
	assert.Empty(t, notifier.scheduled)
}

func TestReconcileOnce_OtherWindowsDoNotBlock(t *testing.T) {
	// A window owned by another schedule and a manual one on the same
	// target must not satisfy this schedule's pending check
	downtimes := &fakeDowntimes{
		existing: []model.Downtime{
			{
				ID:          primitive.NewObjectID(),
				TargetKey:   "web-01",
				StartTime:   time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC),
				EndTime:     time.Date(2026, time.August, 30, 8, 0, 0, 0, time.UTC),
				ScheduledBy: "web-01!weekly",
			},
			{
				ID:        primitive.NewObjectID(),
				TargetKey: "web-01",
				StartTime: time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, time.September, 2, 4, 0, 0, 0, time.UTC),
			},
		},
	}
	r := testReconciler(hostTargets("web-01"), downtimes, &fakeNotifier{})

	schedule := testSchedule("web-01", "", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})

	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))

	require.Len(t, downtimes.created, 1)
	assert.Equal(t, "web-01!nightly", downtimes.created[0].ScheduledBy)
}

func TestReconcileOnce_PastWindowDoesNotBlock(t *testing.T) {
	// The schedule's previous window already started, so the next one
	// gets materialized
	downtimes := &fakeDowntimes{
		existing: []model.Downtime{
			{
				ID:          primitive.NewObjectID(),
				TargetKey:   "web-01",
				StartTime:   time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC),
				EndTime:     time.Date(2026, time.August, 24, 8, 0, 0, 0, time.UTC),
				ScheduledBy: "web-01!nightly",
			},
		},
	}
	r := testReconciler(hostTargets("web-01"), downtimes, &fakeNotifier{})

	schedule := testSchedule("web-01", "", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})

	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))

	require.Len(t, downtimes.created, 1)
	assert.Equal(t, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC), downtimes.created[0].StartTime)
}

func TestReconcileOnce_NoFutureSegmentIsNoOp(t *testing.T) {
	downtimes := &fakeDowntimes{}
	notifier := &fakeNotifier{}
	r := testReconciler(hostTargets("web-01"), downtimes, notifier)

	schedule := testSchedule("web-01", "", "one-off", []model.RangeRule{
		{Day: "2026-01-05", Times: "09:00-10:00"},
	})

	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))

	assert.Empty(t, downtimes.created)
	assert.Empty(t, notifier.scheduled)
}

func TestReconcileOnce_DisabledScheduleSkipped(t *testing.T) {
	downtimes := &fakeDowntimes{}
	r := testReconciler(hostTargets("web-01"), downtimes, &fakeNotifier{})

	schedule := testSchedule("web-01", "", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})
	schedule.Enabled = false

	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))

	assert.Empty(t, downtimes.created)
}

func TestReconcileOnce_UnresolvableTargetFails(t *testing.T) {
	downtimes := &fakeDowntimes{}
	r := testReconciler(hostTargets(), downtimes, &fakeNotifier{})

	schedule := testSchedule("gone-01", "", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})

	err := r.ReconcileOnce(context.Background(), schedule)

	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Empty(t, downtimes.created)
}

func TestReconcileOnce_FlexibleWindowCarriesDuration(t *testing.T) {
	downtimes := &fakeDowntimes{}
	r := testReconciler(hostTargets("web-01"), downtimes, &fakeNotifier{})

	schedule := testSchedule("web-01", "", "patching", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})
	schedule.Fixed = false
	schedule.Duration = 3600

	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))

	require.Len(t, downtimes.created, 1)
	assert.False(t, downtimes.created[0].Fixed)
	assert.Equal(t, int64(3600), downtimes.created[0].Duration)
}

func TestReconcileOnce_ServiceTarget(t *testing.T) {
	targets := &fakeTargets{targets: map[string]*model.Target{
		"web-01!http": {HostName: "web-01", ServiceName: "http"},
	}}
	downtimes := &fakeDowntimes{}
	r := testReconciler(targets, downtimes, &fakeNotifier{})

	schedule := testSchedule("web-01", "http", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})
	require.Equal(t, "web-01!http!nightly", schedule.Name)

	require.NoError(t, r.ReconcileOnce(context.Background(), schedule))

	require.Len(t, downtimes.created, 1)
	assert.Equal(t, "web-01!http", downtimes.created[0].TargetKey)
	assert.Equal(t, "web-01!http!nightly", downtimes.created[0].ScheduledBy)
}

func TestReconcileOnce_CreateErrorPropagates(t *testing.T) {
	insertErr := errors.New("insert failed")
	downtimes := &fakeDowntimes{createErr: insertErr}
	notifier := &fakeNotifier{}
	r := testReconciler(hostTargets("web-01"), downtimes, notifier)

	schedule := testSchedule("web-01", "", "nightly", []model.RangeRule{
		{Day: "monday", Times: "00:00-08:00"},
	})

	err := r.ReconcileOnce(context.Background(), schedule)

	require.Error(t, err)
	assert.ErrorIs(t, err, insertErr)
	assert.Empty(t, notifier.scheduled)
}
