package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Error taxonomy for backend calls. Every transport or HTTP failure is
	// translated into exactly one of these at the service boundary.
	ErrUnreachable  = fmt.Errorf("backend unreachable")
	ErrTimeout      = fmt.Errorf("operation timed out")
	ErrUnauthorized = fmt.Errorf("unauthorized")
	ErrValidation   = fmt.Errorf("validation failed")
	ErrUpstream     = fmt.Errorf("upstream error")
	ErrCancelled    = fmt.Errorf("request cancelled")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// FieldError describes a single offending field in a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the normalized form of a failed backend call.
//
// Wraps one of the taxonomy sentinels so callers can dispatch with
// [errors.Is] while still reading the verbatim upstream message.
type APIError struct {
	Status  int          // HTTP status, 0 for transport failures
	Message string       // Upstream detail, surfaced verbatim
	Fields  []FieldError // Populated for validation errors only
	kind    error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s", e.kind, e.Message)
	}
	return e.kind.Error()
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// FieldSummary joins field-level messages into a single human-readable line
// without discarding the structured list.
func (e *APIError) FieldSummary() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return strings.Join(parts, "; ")
}

// NewAPIError builds an [APIError] wrapping the given taxonomy sentinel.
func NewAPIError(kind error, status int, message string, fields []FieldError) *APIError {
	return &APIError{Status: status, Message: message, Fields: fields, kind: kind}
}

// AsAPIError extracts a structured [APIError] from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsCancelled reports whether err represents caller-initiated cancellation.
// Cancelled outcomes are filtered before user-facing error display.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
