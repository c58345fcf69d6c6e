package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/service"
)

// TargetHandler handles monitored target CRUD operations
type TargetHandler struct {
	service *service.TargetService
}

// NewTargetHandler creates a new target handler
func NewTargetHandler(service *service.TargetService) *TargetHandler {
	return &TargetHandler{
		service: service,
	}
}

// TargetCreateResponse represents the create response
type TargetCreateResponse struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// TargetListResponse represents the list response
type TargetListResponse struct {
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
	Results []model.TargetListItem `json:"results"`
}

// Create handles POST /api/v1/targets
func (h *TargetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var target model.Target
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.Create(r.Context(), &target); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, TargetCreateResponse{
		ID:      target.ID.Hex(),
		Key:     target.Key(),
		Message: "Target created successfully",
	})
}

// Get handles GET /api/v1/targets/{id}
func (h *TargetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/targets/")
	id = strings.Split(id, "/")[0]

	target, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, target)
}

// List handles GET /api/v1/targets
func (h *TargetHandler) List(w http.ResponseWriter, r *http.Request) {
	hostName := r.URL.Query().Get("host_name")
	tagsStr := r.URL.Query().Get("tags")
	var tags []string
	if tagsStr != "" {
		tags = strings.Split(tagsStr, ",")
	}
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)

	// Enforce max limit
	if limit > 100 {
		limit = 100
	}

	items, total, err := h.service.List(r.Context(), hostName, tags, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TargetListResponse{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Results: items,
	})
}

// Delete handles DELETE /api/v1/targets/{id}
func (h *TargetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/targets/")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Target deleted successfully",
	})
}
