package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SchedulerTicks tracks the number of scheduler tick cycles executed
	SchedulerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hush_scheduler_ticks_total",
			Help: "Total number of scheduler tick cycles executed",
		},
	)

	// ReconcileErrors tracks failed reconciliations by schedule
	ReconcileErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hush_reconcile_errors_total",
			Help: "Total number of failed schedule reconciliations",
		},
		[]string{"schedule"},
	)

	// DowntimesCreated tracks downtime windows materialized by the scheduler
	DowntimesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hush_downtimes_created_total",
			Help: "Total number of downtime windows created from schedules",
		},
	)

	// ReconcileDuration tracks how long a single schedule reconciliation takes
	ReconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hush_reconcile_duration_seconds",
			Help:    "Duration of a single schedule reconciliation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RegisteredSchedules tracks the number of schedules in the active registry
	RegisteredSchedules = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hush_registered_schedules",
			Help: "Number of downtime schedules currently registered with the scheduler",
		},
	)

	// NotificationsSent tracks webhook notification outcomes by event and status
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hush_notifications_total",
			Help: "Total number of webhook notifications by event type and final status",
		},
		[]string{"event", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		SchedulerTicks,
		ReconcileErrors,
		DowntimesCreated,
		ReconcileDuration,
		RegisteredSchedules,
		NotificationsSent,
	)
}

// Handler exposes the metrics endpoint for the HTTP router
func Handler() http.Handler {
	return promhttp.Handler()
}
