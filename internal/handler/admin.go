package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/im-rahulr/codeshareit/internal/model"
	"github.com/im-rahulr/codeshareit/internal/service"
)

// SettingsService is the slice of the settings service the admin
// handlers need.
type SettingsService interface {
	Status(ctx context.Context) (service.SiteStatus, error)
	SetOffline(ctx context.Context, offline bool) (service.SiteStatus, error)
	UpdateCredentials(ctx context.Context, username, password, confirm string) (*model.Settings, error)
	VerifyLogin(ctx context.Context, username, password string) error
}

// AdminHandler serves the admin panel API: snippet management, stats,
// the site on/off switch, and credential updates. Every route here sits
// behind the session middleware — these methods can assume the caller
// is authenticated.
type AdminHandler struct {
	snippets SnippetService
	settings SettingsService
	logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(snippets SnippetService, settings SettingsService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{snippets: snippets, settings: settings, logger: logger}
}

// HandleList returns all snippets, newest first, optionally filtered.
//
// HTTP: GET /api/admin/snippets?q=term
//
// The q filter matches share code, content, or token count — the admin
// table's single search box searches all three.
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	snippets, err := h.snippets.List(r.Context(), query)
	if err != nil {
		h.logger.Error("admin list failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	// Always encode as [] rather than null when empty.
	items := make([]snippetResponse, 0, len(snippets))
	for i := range snippets {
		items = append(items, toSnippetResponse(&snippets[i]))
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleDelete removes a snippet by share code.
//
// HTTP: DELETE /api/admin/snippets/{code}
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	if err := h.snippets.Delete(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("snippet deleted", slog.String("shareCode", code))
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats returns the dashboard aggregates.
//
// HTTP: GET /api/admin/stats
// RESPONSE: {"totalSnippets":3,"totalTokens":42,"totalLines":17,"todayCount":1}
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	agg, err := h.snippets.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// HandleGetStatus reads the site switch.
//
// HTTP: GET /api/admin/settings/status
//
// When the settings table is missing the response still succeeds: the
// payload carries setupRequired plus the provisioning SQL, and the
// panel renders the setup card instead of the toggle.
func (h *AdminHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.settings.Status(r.Context())
	if err != nil {
		h.logger.Error("status read failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleSetStatus flips the site switch.
//
// HTTP: PUT /api/admin/settings/status
// REQUEST BODY: {"offline": true}
func (h *AdminHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Offline bool `json:"offline"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	status, err := h.settings.SetOffline(r.Context(), req.Offline)
	if err != nil {
		h.logger.Error("status update failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleUpdateCredentials replaces the admin credential pair.
//
// HTTP: PUT /api/admin/settings/credentials
// REQUEST BODY: {"username":"...","password":"...","confirmPassword":"..."}
//
// The session stays valid after a change — tokens are bound to the
// username at issue time, not to the password.
func (h *AdminHandler) HandleUpdateCredentials(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	settings, err := h.settings.UpdateCredentials(r.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"username": settings.Username,
		"message":  "credentials updated",
	})
}
