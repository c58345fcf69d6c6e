package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dandantas/hush/internal/config"
)

// DowntimePurger removes downtime windows that ended before a cutoff
type DowntimePurger interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Janitor periodically deletes downtime windows past the retention period.
// Deletion is a plain range delete, so concurrent janitors on multiple
// pods do not interfere with each other.
type Janitor struct {
	cfg       *config.Config
	downtimes DowntimePurger
	cron      *cron.Cron
}

// NewJanitor creates a new janitor instance
func NewJanitor(cfg *config.Config, downtimes DowntimePurger) *Janitor {
	return &Janitor{
		cfg:       cfg,
		downtimes: downtimes,
	}
}

// Start registers the purge job and begins the cron loop
func (j *Janitor) Start() error {
	if !j.cfg.JanitorEnabled {
		slog.Info("Janitor is disabled by configuration")
		return nil
	}

	j.cron = cron.New()

	if _, err := j.cron.AddFunc(j.cfg.JanitorSchedule, j.purge); err != nil {
		return fmt.Errorf("invalid janitor schedule '%s': %w", j.cfg.JanitorSchedule, err)
	}

	j.cron.Start()

	slog.Info("Janitor started",
		"schedule", j.cfg.JanitorSchedule,
		"retention", j.cfg.DowntimeRetention,
	)

	// Purge once at boot instead of waiting for the first cron match
	go j.purge()

	return nil
}

// Stop stops the cron loop and waits for a running purge to finish
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}

	<-j.cron.Stop().Done()

	slog.Info("Janitor stopped")
}

// purge deletes downtime windows whose end time fell out of retention
func (j *Janitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.cfg.DowntimeRetention)

	deleted, err := j.downtimes.DeleteExpired(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to purge expired downtimes", "error", err)
		return
	}

	if deleted > 0 {
		slog.Info("Purged expired downtimes",
			"count", deleted,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}
}
