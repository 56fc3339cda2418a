// Package errors renders failed requests as the API's error envelope:
// {"success": false, "message": "...", "errors": {...}}.
package errors

import (
	"encoding/json"
	"net/http"
)

// Problem describes a failed request.
type Problem struct {
	// Status is the HTTP status code for this occurrence. It is not serialized.
	Status int
	// Message is a human-readable summary shown to clients.
	Message string
	// Errors holds optional field-level details, keyed by field name.
	Errors map[string]string
}

// Error implements the error interface.
func (p Problem) Error() string {
	return p.Message
}

// WithMessage returns a copy with the given message.
func (p Problem) WithMessage(message string) Problem {
	p.Message = message
	return p
}

// WithFieldError returns a copy with an additional field error.
func (p Problem) WithFieldError(field, message string) Problem {
	errs := make(map[string]string, len(p.Errors)+1)
	for k, v := range p.Errors {
		errs[k] = v
	}
	errs[field] = message
	p.Errors = errs
	return p
}

// MarshalJSON writes the envelope form.
func (p Problem) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelope{
		Success: false,
		Message: p.Message,
		Errors:  p.Errors,
	})
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Pre-defined problem templates for common scenarios.
var (
	ErrValidation = Problem{
		Status:  http.StatusBadRequest,
		Message: "Validation error",
	}

	ErrBadRequest = Problem{
		Status:  http.StatusBadRequest,
		Message: "Bad Request",
	}

	ErrUnauthorized = Problem{
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
	}

	ErrNotFound = Problem{
		Status:  http.StatusNotFound,
		Message: "Resource not found",
	}

	ErrConflict = Problem{
		Status:  http.StatusConflict,
		Message: "Conflict",
	}

	// ErrInternal never carries the underlying cause.
	ErrInternal = Problem{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
	}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(fieldErrors map[string]string) Problem {
	p := ErrValidation
	if len(fieldErrors) > 0 {
		p.Errors = fieldErrors
	}
	return p
}
