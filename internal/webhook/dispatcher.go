package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dandantas/hush/internal/model"
)

// Dispatcher delivers downtime event notifications to the configured
// webhook with retry logic
type Dispatcher struct {
	url            string
	httpClient     *http.Client
	circuitBreaker *CircuitBreaker
	retry          retryPolicy
}

// NewDispatcher creates a new webhook dispatcher. An empty URL disables
// delivery entirely.
func NewDispatcher(url string, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		circuitBreaker: NewCircuitBreaker(),
		retry:          newRetryPolicy(model.RetryConfig{}),
	}
}

// Enabled reports whether a webhook URL is configured
func (d *Dispatcher) Enabled() bool {
	return d.url != ""
}

// CircuitState returns the current circuit breaker state
func (d *Dispatcher) CircuitState() string {
	return d.circuitBreaker.StateName()
}

// Send delivers a downtime event payload with retries and returns the
// delivery log. The log is returned even when delivery fails so callers
// can persist the attempt history.
func (d *Dispatcher) Send(
	ctx context.Context,
	payload model.NotificationPayload,
	correlationID string,
) (*model.NotificationLog, error) {
	downtimeID, _ := primitive.ObjectIDFromHex(payload.DowntimeID)

	log := &model.NotificationLog{
		ID:            primitive.NewObjectID(),
		CorrelationID: correlationID,
		Event:         payload.Event,
		ScheduleName:  payload.ScheduleName,
		TargetKey:     payload.TargetKey,
		DowntimeID:    downtimeID,
		WebhookURL:    d.url,
		Payload:       payload,
		Attempts:      make([]model.NotificationAttempt, 0),
		FinalStatus:   "retrying",
		CreatedAt:     time.Now().UTC(),
	}

	if !d.circuitBreaker.CanAttempt() {
		slog.Warn("Circuit breaker is open, skipping webhook delivery",
			"correlation_id", correlationID,
			"event", payload.Event,
			"circuit_state", d.circuitBreaker.StateName(),
		)
		log.FinalStatus = "failed"
		log.CompletedAt = time.Now().UTC()
		return log, fmt.Errorf("circuit breaker is open")
	}

	for attempt := 1; attempt <= d.retry.maxAttempts(); attempt++ {
		slog.Debug("Attempting webhook delivery",
			"correlation_id", correlationID,
			"event", payload.Event,
			"attempt", attempt,
			"max_attempts", d.retry.maxAttempts(),
		)

		attemptResult := d.deliver(ctx, payload, attempt)
		log.Attempts = append(log.Attempts, attemptResult)

		if attemptResult.Error == "" && attemptResult.StatusCode >= 200 && attemptResult.StatusCode < 300 {
			slog.Info("Webhook delivered",
				"correlation_id", correlationID,
				"event", payload.Event,
				"attempt", attempt,
				"status_code", attemptResult.StatusCode,
			)

			log.FinalStatus = "delivered"
			log.CompletedAt = time.Now().UTC()
			d.circuitBreaker.RecordSuccess()
			return log, nil
		}

		// A missing status code means the request never completed; with a
		// status code present the retry decision rests on the code alone
		var attemptErr error
		if attemptResult.Error != "" && attemptResult.StatusCode == 0 {
			attemptErr = fmt.Errorf("%s", attemptResult.Error)
		}

		if !d.retry.shouldRetry(attempt, attemptResult.StatusCode, attemptErr) {
			slog.Error("Webhook delivery failed, not retrying",
				"correlation_id", correlationID,
				"event", payload.Event,
				"attempt", attempt,
				"status_code", attemptResult.StatusCode,
				"error", attemptResult.Error,
			)

			log.FinalStatus = "failed"
			log.CompletedAt = time.Now().UTC()
			d.circuitBreaker.RecordFailure()
			return log, fmt.Errorf("webhook delivery failed after %d attempts", attempt)
		}

		if attempt < d.retry.maxAttempts() {
			delay := d.retry.delay(attempt)
			slog.Warn("Webhook delivery failed, retrying",
				"correlation_id", correlationID,
				"event", payload.Event,
				"attempt", attempt,
				"next_retry_ms", delay.Milliseconds(),
				"error", attemptResult.Error,
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				log.FinalStatus = "failed"
				log.CompletedAt = time.Now().UTC()
				return log, ctx.Err()
			}
		}
	}

	slog.Error("Webhook delivery failed after all retries",
		"correlation_id", correlationID,
		"event", payload.Event,
		"attempts", d.retry.maxAttempts(),
	)

	log.FinalStatus = "failed"
	log.CompletedAt = time.Now().UTC()
	d.circuitBreaker.RecordFailure()
	return log, fmt.Errorf("webhook delivery failed after %d attempts", d.retry.maxAttempts())
}

// deliver performs a single delivery attempt
func (d *Dispatcher) deliver(ctx context.Context, payload model.NotificationPayload, attemptNumber int) model.NotificationAttempt {
	start := time.Now()
	attempt := model.NotificationAttempt{
		AttemptNumber: attemptNumber,
		Timestamp:     start.UTC(),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		attempt.Error = fmt.Sprintf("Failed to marshal payload: %v", err)
		attempt.DurationMs = time.Since(start).Milliseconds()
		return attempt
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		attempt.Error = fmt.Sprintf("Failed to create request: %v", err)
		attempt.DurationMs = time.Since(start).Milliseconds()
		return attempt
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		attempt.Error = fmt.Sprintf("Request failed: %v", err)
		attempt.DurationMs = time.Since(start).Milliseconds()
		return attempt
	}
	defer resp.Body.Close()

	// Limit to 1KB, receivers sometimes echo large bodies back
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		slog.Warn("Failed to read webhook response body", "error", err)
	}

	attempt.StatusCode = resp.StatusCode
	attempt.ResponseBody = string(bodyBytes)
	attempt.DurationMs = time.Since(start).Milliseconds()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		attempt.Error = fmt.Sprintf("Webhook returned status %d", resp.StatusCode)
	}

	return attempt
}
