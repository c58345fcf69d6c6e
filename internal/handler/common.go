package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dandantas/hush/internal/database"
	"github.com/dandantas/hush/internal/model"
	"github.com/dandantas/hush/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse carries per-field failures of a rejected document
type ValidationErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Errors  []model.FieldError `json:"errors"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// writeServiceError maps service layer failures onto HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs *model.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:   http.StatusText(http.StatusUnprocessableEntity),
			Message: "validation failed",
			Errors:  verrs.Errors,
		})
	case errors.Is(err, database.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTargetInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// parseQueryInt parses an integer query parameter with a default value
func parseQueryInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// parseQueryBool parses a boolean query parameter
func parseQueryBool(r *http.Request, key string) *bool {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}

	boolValue := value == "true" || value == "1"
	return &boolValue
}
