package handler

import (
	"net/http"
	"strings"

	"github.com/dandantas/hush/internal/metrics"
	"github.com/dandantas/hush/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	targetHandler       *TargetHandler
	scheduleHandler     *ScheduleHandler
	downtimeHandler     *DowntimeHandler
	notificationHandler *NotificationHandler
	healthHandler       *HealthHandler
	corsConfig          middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	targetHandler *TargetHandler,
	scheduleHandler *ScheduleHandler,
	downtimeHandler *DowntimeHandler,
	notificationHandler *NotificationHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		targetHandler:       targetHandler,
		scheduleHandler:     scheduleHandler,
		downtimeHandler:     downtimeHandler,
		notificationHandler: notificationHandler,
		healthHandler:       healthHandler,
		corsConfig:          corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health and metrics endpoints (no middleware)
	mux.HandleFunc("/health", rt.healthHandler.Health)
	mux.HandleFunc("/ready", rt.healthHandler.Ready)
	mux.Handle("/metrics", metrics.Handler())

	// API endpoints
	mux.HandleFunc("/api/v1/targets", rt.handleTargets)
	mux.HandleFunc("/api/v1/targets/", rt.handleTargetsWithID)
	mux.HandleFunc("/api/v1/schedules", rt.handleSchedules)
	mux.HandleFunc("/api/v1/schedules/", rt.handleSchedulesWithID)
	mux.HandleFunc("/api/v1/downtimes", rt.handleDowntimes)
	mux.HandleFunc("/api/v1/downtimes/", rt.handleDowntimesWithID)
	mux.HandleFunc("/api/v1/notifications", rt.notificationHandler.List)
	mux.HandleFunc("/api/v1/notifications/", rt.notificationHandler.Get)

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}

// handleTargets routes target collection endpoints
func (rt *Router) handleTargets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.targetHandler.List(w, r)
	case http.MethodPost:
		rt.targetHandler.Create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleTargetsWithID routes target individual endpoints
func (rt *Router) handleTargetsWithID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.targetHandler.Get(w, r)
	case http.MethodDelete:
		rt.targetHandler.Delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleSchedules routes schedule collection endpoints
func (rt *Router) handleSchedules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.scheduleHandler.List(w, r)
	case http.MethodPost:
		rt.scheduleHandler.Create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleSchedulesWithID routes schedule individual endpoints
func (rt *Router) handleSchedulesWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/schedules/")

	// Check if this is a reconcile endpoint
	if strings.HasSuffix(path, "/reconcile") {
		if r.Method != http.MethodPost && r.Method != http.MethodOptions {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		rt.scheduleHandler.Reconcile(w, r)
		return
	}

	// Handle CRUD operations
	switch r.Method {
	case http.MethodGet:
		rt.scheduleHandler.Get(w, r)
	case http.MethodDelete:
		rt.scheduleHandler.Delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleDowntimes routes downtime collection endpoints
func (rt *Router) handleDowntimes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.downtimeHandler.List(w, r)
	case http.MethodPost:
		rt.downtimeHandler.Create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleDowntimesWithID routes downtime individual endpoints
func (rt *Router) handleDowntimesWithID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.downtimeHandler.Get(w, r)
	case http.MethodDelete:
		rt.downtimeHandler.Delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
