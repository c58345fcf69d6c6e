package model

import (
	"strings"
)

// FieldError describes a single invalid field value
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the field error as "field: message"
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every validation failure of a document so callers
// see all problems at once instead of fixing them one round-trip at a time
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// Add appends a field error
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any failure was recorded
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// OrNil returns the collection as an error, or nil when empty
func (v *ValidationErrors) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// Error joins all recorded failures
func (v *ValidationErrors) Error() string {
	msgs := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
