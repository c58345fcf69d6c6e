package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dandantas/hush/internal/model"
)

// recorder collects the schedules handed to the pool
type recorder struct {
	mu        sync.Mutex
	schedules []string
	block     chan struct{}
}

func (r *recorder) reconcile(ctx context.Context, schedule *model.DowntimeSchedule, correlationID string) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules = append(r.schedules, schedule.Name)
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.schedules...)
}

func testJob(name string) Job {
	return Job{
		Schedule:      &model.DowntimeSchedule{Name: name},
		CorrelationID: "test-" + name,
		Context:       context.Background(),
	}
}

func TestPool_ProcessesSubmittedJobs(t *testing.T) {
	rec := &recorder{}
	pool := NewPool(2, 10)
	pool.SetReconciler(rec.reconcile)
	pool.Start()

	require.NoError(t, pool.Submit(testJob("web-01!nightly")))
	require.NoError(t, pool.Submit(testJob("db-01!weekly")))

	pool.Stop()

	assert.ElementsMatch(t, []string{"web-01!nightly", "db-01!weekly"}, rec.seen())
}

func TestPool_StopDrainsQueuedJobs(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	pool := NewPool(1, 10)
	pool.SetReconciler(rec.reconcile)
	pool.Start()

	// The single worker blocks on the first job, the rest queue up
	for i, name := range []string{"a!s", "b!s", "c!s", "d!s"} {
		require.NoError(t, pool.Submit(testJob(name)), "job %d", i)
	}

	close(rec.block)
	pool.Stop()

	assert.Len(t, rec.seen(), 4)
	assert.Equal(t, 0, pool.QueueLength())
}

func TestPool_ReconcileErrorDoesNotStopWorkers(t *testing.T) {
	rec := &recorder{}
	pool := NewPool(1, 10)
	pool.SetReconciler(func(ctx context.Context, schedule *model.DowntimeSchedule, correlationID string) error {
		if schedule.Name == "bad!s" {
			return context.DeadlineExceeded
		}
		return rec.reconcile(ctx, schedule, correlationID)
	})
	pool.Start()

	require.NoError(t, pool.Submit(testJob("bad!s")))
	require.NoError(t, pool.Submit(testJob("good!s")))

	pool.Stop()

	assert.Equal(t, []string{"good!s"}, rec.seen())
}
