package handler

import (
	"net/http"
	"strings"

	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/service"
)

// NotificationHandler handles notification log queries
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// NotificationListResponse represents the list response
type NotificationListResponse struct {
	Total   int64                       `json:"total"`
	Page    int                         `json:"page"`
	Limit   int                         `json:"limit"`
	Results []model.NotificationSummary `json:"results"`
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	event := r.URL.Query().Get("event")
	status := r.URL.Query().Get("status")
	scheduleName := r.URL.Query().Get("schedule_name")
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)

	// Enforce max limit
	if limit > 100 {
		limit = 100
	}

	summaries, total, err := h.service.List(r.Context(), event, status, scheduleName, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, NotificationListResponse{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Results: summaries,
	})
}

// Get handles GET /api/v1/notifications/{id}
func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/notifications/")

	log, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, log)
}
