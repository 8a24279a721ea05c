package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger is the slice of the store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness probe and the public site status.
// Both endpoints stay reachable while the site switch is off — the
// keepalive pinger and the offline interstitial depend on them.
type HealthHandler struct {
	store    Pinger
	settings StatusReader
	logger   *slog.Logger
}

// StatusReader reads the site switch for public consumption.
type StatusReader interface {
	Offline(ctx context.Context) (bool, error)
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger, settings StatusReader, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, settings: settings, logger: logger}
}

// HandleHealthz reports process and store liveness.
//
// HTTP: GET /healthz
// RESPONSE: 200 {"status":"ok"} or 503 {"status":"degraded"}
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("health check: store unreachable", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSiteStatus returns the public view of the site switch.
//
// HTTP: GET /api/status
// RESPONSE: {"offline": false}
//
// Errors fail open: if the flag cannot be read the site reports itself
// online, matching what the traffic gate does.
func (h *HealthHandler) HandleSiteStatus(w http.ResponseWriter, r *http.Request) {
	offline, err := h.settings.Offline(r.Context())
	if err != nil {
		h.logger.Warn("site status read failed, reporting online", slog.String("error", err.Error()))
		offline = false
	}
	writeJSON(w, http.StatusOK, map[string]bool{"offline": offline})
}
