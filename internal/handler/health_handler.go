package handler

import (
	"net/http"
	"time"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/registry"
	"github.com/dandantas/hush/internal/service"
)

// HealthHandler handles service health and readiness checks
type HealthHandler struct {
	db        *database.MongoDB
	registry  *registry.Registry
	notifier  *service.NotificationService
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.MongoDB, reg *registry.Registry, notifier *service.NotificationService, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		registry:  reg,
		notifier:  notifier,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status              string `json:"status"`
	Version             string `json:"version"`
	Timestamp           string `json:"timestamp"`
	MongoDB             string `json:"mongodb"`
	RegisteredSchedules int    `json:"registered_schedules"`
	WebhookCircuit      string `json:"webhook_circuit"`
	UptimeSeconds       int64  `json:"uptime_seconds"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Ready   bool   `json:"ready"`
	MongoDB string `json:"mongodb"`
}

// Health returns the service health status
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	mongoStatus := "connected"
	if err := h.db.Ping(r.Context()); err != nil {
		mongoStatus = "disconnected"
	}

	response := HealthResponse{
		Status:              "healthy",
		Version:             h.version,
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
		MongoDB:             mongoStatus,
		RegisteredSchedules: h.registry.Len(),
		WebhookCircuit:      h.notifier.CircuitState(),
		UptimeSeconds:       int64(time.Since(h.startTime).Seconds()),
	}

	writeJSON(w, http.StatusOK, response)
}

// Ready reports whether the service can serve traffic. Kubernetes keeps
// the pod out of rotation while this returns 503.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ready := true
	mongoStatus := "connected"

	if err := h.db.Ping(r.Context()); err != nil {
		ready = false
		mongoStatus = "disconnected"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	response := ReadyResponse{
		Ready:   ready,
		MongoDB: mongoStatus,
	}

	writeJSON(w, statusCode, response)
}
