package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT ERROR FORMAT:
// Every error response from our API has the same shape:
//   {"error": "not_found", "message": "snippet not found with code 1234"}
//
// This makes it easy for the frontend to parse errors — it always knows
// what fields to expect, regardless of whether it's a 400, 404, or 503.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/im-rahulr/codeshareit/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description

	// SetupSQL is only populated on schema_missing errors: it carries the
	// provisioning script so the admin panel can show the operator exactly
	// what to run against the store.
	SetupSQL string `json:"setupSql,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the first body write — Encode
// calls w.Write internally, which flushes them.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and
// sends it. This is the only place domain errors meet HTTP: the service
// layer returns apperror sentinels and never sees a status code.
//
// errors.Is() walks the whole wrap chain, so a service error like
//
//	fmt.Errorf("sharing snippet: %w", apperror.ValidationFailed(...))
//
// still maps to 400 — the sentinel is found through the wrapping.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest // 400
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized // 401
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden // 403
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict // 409
			errorType = "conflict"
		case errors.Is(err, apperror.ErrSchemaMissing), errors.Is(err, apperror.ErrStoreBusy):
			// The store needs provisioning (or is stuck) — the service is
			// up but cannot serve until the operator intervenes.
			status = http.StatusServiceUnavailable // 503
			errorType = "schema_missing"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — return a generic 500. The raw error message might
	// contain SQL or file paths, so it never reaches the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a JSON request body into dst, returning a validation
// error the caller can pass straight to writeError.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "request body must be valid JSON")
	}
	return nil
}
