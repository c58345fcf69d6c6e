package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/model"
)

func fastRetry(maxAttempts int) retryPolicy {
	return newRetryPolicy(model.RetryConfig{
		MaxAttempts:    maxAttempts,
		InitialDelayMs: 1,
		MaxDelayMs:     5,
		Multiplier:     2.0,
	})
}

func testPayload() model.NotificationPayload {
	downtime := &model.Downtime{
		ID:        primitive.NewObjectID(),
		TargetKey: "web-01",
		StartTime: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.August, 31, 8, 0, 0, 0, time.UTC),
		Fixed:     true,
	}
	schedule := &model.DowntimeSchedule{Name: "web-01!nightly"}
	return FormatDowntimePayload(model.EventDowntimeScheduled, schedule, downtime)
}

func TestDispatcherDeliversPayload(t *testing.T) {
	var gotBody []byte
	var gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)

	log, err := d.Send(context.Background(), testPayload(), "corr-1")
	require.NoError(t, err)

	assert.Equal(t, "delivered", log.FinalStatus)
	assert.Len(t, log.Attempts, 1)
	assert.Equal(t, http.StatusOK, log.Attempts[0].StatusCode)
	assert.Equal(t, "corr-1", log.CorrelationID)
	assert.False(t, log.CompletedAt.IsZero())

	assert.Equal(t, "application/json", gotContentType)

	var payload model.NotificationPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, model.EventDowntimeScheduled, payload.Event)
	assert.Equal(t, "web-01!nightly", payload.ScheduleName)
	assert.Equal(t, "web-01", payload.TargetKey)
	assert.Contains(t, payload.Text, "web-01!nightly")
}

func TestDispatcherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)
	d.retry = fastRetry(3)

	log, err := d.Send(context.Background(), testPayload(), "corr-2")
	require.NoError(t, err)

	assert.Equal(t, "delivered", log.FinalStatus)
	assert.Len(t, log.Attempts, 3)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDispatcherDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)
	d.retry = fastRetry(3)

	log, err := d.Send(context.Background(), testPayload(), "corr-3")
	require.Error(t, err)

	assert.Equal(t, "failed", log.FinalStatus)
	assert.Len(t, log.Attempts, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatcherFailsAfterRetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)
	d.retry = fastRetry(3)

	log, err := d.Send(context.Background(), testPayload(), "corr-4")
	require.Error(t, err)

	assert.Equal(t, "failed", log.FinalStatus)
	assert.Len(t, log.Attempts, 3)
}

func TestDispatcherEnabled(t *testing.T) {
	assert.False(t, NewDispatcher("", time.Second).Enabled())
	assert.True(t, NewDispatcher("http://hooks.example.com/downtime", time.Second).Enabled())
}
