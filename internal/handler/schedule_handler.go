package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/service"
)

// ScheduleHandler handles downtime schedule CRUD operations
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(service *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
	}
}

// ScheduleCreateRequest represents the create request body. Fixed and
// Enabled are pointers so an absent field defaults to true instead of the
// zero value.
type ScheduleCreateRequest struct {
	HostName    string            `json:"host_name"`
	ServiceName string            `json:"service_name"`
	ShortName   string            `json:"short_name"`
	Ranges      []model.RangeRule `json:"ranges"`
	Fixed       *bool             `json:"fixed"`
	Duration    int64             `json:"duration"`
	Author      string            `json:"author"`
	Comment     string            `json:"comment"`
	Enabled     *bool             `json:"enabled"`
	Tags        []string          `json:"tags"`
}

// ScheduleCreateResponse represents the create response
type ScheduleCreateResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// ScheduleListResponse represents the list response
type ScheduleListResponse struct {
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
	Results []model.ScheduleListItem `json:"results"`
}

// Create handles POST /api/v1/schedules
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ScheduleCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	schedule := model.DowntimeSchedule{
		HostName:    req.HostName,
		ServiceName: req.ServiceName,
		ShortName:   req.ShortName,
		Ranges:      req.Ranges,
		Fixed:       req.Fixed == nil || *req.Fixed,
		Duration:    req.Duration,
		Author:      req.Author,
		Comment:     req.Comment,
		Enabled:     req.Enabled == nil || *req.Enabled,
		Metadata: model.Metadata{
			Tags: req.Tags,
		},
	}

	if err := h.service.Create(r.Context(), &schedule); err != nil {
		// A missing target is a bad reference in the request body, not a
		// missing resource at this URL
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ScheduleCreateResponse{
		ID:      schedule.ID.Hex(),
		Name:    schedule.Name,
		Enabled: schedule.Enabled,
		Message: "Schedule created successfully",
	})
}

// Get handles GET /api/v1/schedules/{id}
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/schedules/")
	id = strings.Split(id, "/")[0]

	schedule, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// List handles GET /api/v1/schedules
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	enabled := parseQueryBool(r, "enabled")
	hostName := r.URL.Query().Get("host_name")
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)

	// Enforce max limit
	if limit > 100 {
		limit = 100
	}

	items, total, err := h.service.List(r.Context(), enabled, hostName, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ScheduleListResponse{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Results: items,
	})
}

// Delete handles DELETE /api/v1/schedules/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/schedules/")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Schedule deleted successfully",
	})
}

// Reconcile handles POST /api/v1/schedules/{id}/reconcile
func (h *ScheduleHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/schedules/")
	id = strings.Split(id, "/")[0]

	if err := h.service.Reconcile(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Reconciliation completed",
	})
}
