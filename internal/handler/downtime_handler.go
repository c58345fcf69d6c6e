package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/service"
)

// DowntimeHandler handles downtime window operations
type DowntimeHandler struct {
	service *service.DowntimeService
}

// NewDowntimeHandler creates a new downtime handler
func NewDowntimeHandler(service *service.DowntimeService) *DowntimeHandler {
	return &DowntimeHandler{
		service: service,
	}
}

// DowntimeCreateRequest represents the create request body. Fixed is a
// pointer so an absent field defaults to true.
type DowntimeCreateRequest struct {
	TargetKey string    `json:"target_key"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Fixed     *bool     `json:"fixed"`
	Duration  int64     `json:"duration"`
	Author    string    `json:"author"`
	Comment   string    `json:"comment"`
}

// DowntimeCreateResponse represents the create response
type DowntimeCreateResponse struct {
	ID        string `json:"id"`
	TargetKey string `json:"target_key"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	State     string `json:"state"`
	Message   string `json:"message"`
}

// DowntimeListResponse represents the list response
type DowntimeListResponse struct {
	Total   int64                   `json:"total"`
	Page    int                     `json:"page"`
	Limit   int                     `json:"limit"`
	Results []model.DowntimeSummary `json:"results"`
}

// Create handles POST /api/v1/downtimes
func (h *DowntimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req DowntimeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	downtime := model.Downtime{
		TargetKey: req.TargetKey,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Fixed:     req.Fixed == nil || *req.Fixed,
		Duration:  req.Duration,
		Author:    req.Author,
		Comment:   req.Comment,
	}

	if err := h.service.Create(r.Context(), &downtime); err != nil {
		// A missing target is a bad reference in the request body, not a
		// missing resource at this URL
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, DowntimeCreateResponse{
		ID:        downtime.ID.Hex(),
		TargetKey: downtime.TargetKey,
		StartTime: downtime.StartTime.Format(time.RFC3339),
		EndTime:   downtime.EndTime.Format(time.RFC3339),
		State:     downtime.State(time.Now().UTC()),
		Message:   "Downtime created successfully",
	})
}

// Get handles GET /api/v1/downtimes/{id}
func (h *DowntimeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/downtimes/")
	id = strings.Split(id, "/")[0]

	downtime, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, downtime)
}

// List handles GET /api/v1/downtimes
func (h *DowntimeHandler) List(w http.ResponseWriter, r *http.Request) {
	targetKey := r.URL.Query().Get("target_key")
	scheduledBy := r.URL.Query().Get("scheduled_by")
	state := r.URL.Query().Get("state")
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)

	// Enforce max limit
	if limit > 100 {
		limit = 100
	}

	switch state {
	case "", model.DowntimePending, model.DowntimeActive, model.DowntimeExpired:
	default:
		writeError(w, http.StatusBadRequest, "Invalid state filter: "+state)
		return
	}

	summaries, total, err := h.service.List(r.Context(), targetKey, scheduledBy, state, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, DowntimeListResponse{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Results: summaries,
	})
}

// Delete handles DELETE /api/v1/downtimes/{id}
func (h *DowntimeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/downtimes/")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Downtime deleted successfully",
	})
}
