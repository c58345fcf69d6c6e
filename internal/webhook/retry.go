package webhook

import (
	"math"
	"time"

	"github.com/dandantas/hush/internal/model"
)

// retryPolicy decides whether and when a failed delivery is attempted again
type retryPolicy struct {
	cfg model.RetryConfig
}

func newRetryPolicy(cfg model.RetryConfig) retryPolicy {
	cfg.SetDefaults()
	return retryPolicy{cfg: cfg}
}

func (p retryPolicy) maxAttempts() int {
	return p.cfg.MaxAttempts
}

// delay computes the exponential backoff before the next attempt:
// min(initial_delay * multiplier^(attempt-1), max_delay)
func (p retryPolicy) delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delayMs := float64(p.cfg.InitialDelayMs) * math.Pow(p.cfg.Multiplier, float64(attempt-1))
	if delayMs > float64(p.cfg.MaxDelayMs) {
		delayMs = float64(p.cfg.MaxDelayMs)
	}

	return time.Duration(delayMs) * time.Millisecond
}

// shouldRetry reports whether another attempt makes sense after the given
// outcome. Network errors, 5xx and 429 are retried; other 4xx are not.
func (p retryPolicy) shouldRetry(attempt int, statusCode int, err error) bool {
	if attempt >= p.cfg.MaxAttempts {
		return false
	}

	if err != nil {
		return true
	}

	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	if statusCode == 429 {
		return true
	}
	if statusCode >= 400 && statusCode < 500 {
		return false
	}
	if statusCode >= 300 {
		return true
	}

	return false
}
