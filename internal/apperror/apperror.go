// Package apperror defines the application's error taxonomy.
//
// Services and repositories return these errors; the HTTP layer maps them
// to status codes in exactly one place (handler/response.go). This keeps
// the lower layers protocol-agnostic — they say WHAT went wrong, never
// which HTTP status that implies.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers check for these with errors.Is(), which walks
// the wrapped chain, so it works even when services add context with %w.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSchemaMissing means the backing table does not exist yet — the
	// store is reachable but unprovisioned. Recoverable by running the
	// setup SQL; the UI degrades with instructions instead of failing.
	ErrSchemaMissing = errors.New("schema missing")

	// ErrStoreBusy is a transient store condition (the write path is
	// briefly locked). Worth a fixed-delay retry before giving up.
	ErrStoreBusy = errors.New("store busy")
)

// AppError carries a sentinel plus a human-readable message, and
// optionally the field that caused a validation failure.
type AppError struct {
	Err     error  // sentinel from the list above
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is/errors.As reach the sentinel inside.
func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with key %s", resource, key),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with key %s", resource, key),
	}
}

// Unauthorized returns an AppError for missing or failed authentication.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// SchemaMissing returns an AppError for an unprovisioned table.
func SchemaMissing(table string) *AppError {
	return &AppError{
		Err:     ErrSchemaMissing,
		Message: fmt.Sprintf("table %s does not exist — run the setup SQL", table),
	}
}

// StoreBusy returns an AppError for a transient store lock.
func StoreBusy(op string) *AppError {
	return &AppError{
		Err:     ErrStoreBusy,
		Message: fmt.Sprintf("store busy during %s — retry shortly", op),
	}
}
