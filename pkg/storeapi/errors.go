package storeapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for use with errors.Is(). Every non-2xx response and every
// transport failure maps to exactly one of these categories.
var (
	// ErrUnauthenticated is returned on 401. The session is invalid; the
	// caller is responsible for sending the user back to login.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned on 403. The session stays valid but the
	// identity lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned on 404.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned on 400, carrying field-level detail when the
	// backend provided any.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable is returned when the backend cannot be reached at all
	// (DNS failure, connection refused, timeout).
	ErrUnavailable = errors.New("service unavailable")
)

// APIError is the normalized error for any non-2xx backend response.
// Message is a best-effort human-readable string extracted from the response
// body; Fields holds per-field validation messages when the backend sent a
// 400 with field detail.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// Message is the extracted human-readable error message.
	Message string

	// Fields maps field names to their validation messages (400 only).
	Fields map[string][]string
}

// Error returns a human-readable description of the failure.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("storeapi: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("storeapi: HTTP %d", e.StatusCode)
}

// Is maps the status code onto the sentinel categories so callers can use
// errors.Is(err, ErrNotFound) without knowing about APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.StatusCode == 401
	case ErrForbidden:
		return e.StatusCode == 403
	case ErrNotFound:
		return e.StatusCode == 404
	case ErrValidation:
		return e.StatusCode == 400
	}
	return false
}

// FieldMessages flattens the per-field validation detail into one string,
// fields in deterministic order. Returns "" when there is no field detail.
func (e *APIError) FieldMessages() string {
	if len(e.Fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], "; "))
	}
	return strings.Join(parts, "; ")
}

// TransportError is returned when the request never produced an HTTP
// response. It matches ErrUnavailable.
type TransportError struct {
	// Cause is the underlying connection-level error.
	Cause error
}

// Error returns a human-readable description of the transport failure.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storeapi: service unavailable: %v", e.Cause)
	}
	return "storeapi: service unavailable"
}

// Unwrap returns the underlying error cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches ErrUnavailable.
func (e *TransportError) Is(target error) bool {
	return target == ErrUnavailable
}
