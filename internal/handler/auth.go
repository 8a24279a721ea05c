package handler

import (
	"log/slog"
	"net/http"

	"github.com/im-rahulr/codeshareit/internal/auth"
)

// AuthHandler owns the admin session lifecycle: login issues a signed
// session cookie, logout clears it, and /me lets the panel check
// whether its cookie is still good without loading anything else.
//
// The session is an HttpOnly cookie holding a signed token, so the
// frontend never stores or even sees the credential material — the
// browser sends the cookie, the server verifies the signature.
type AuthHandler struct {
	settings SettingsService
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(settings SettingsService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{settings: settings, tokens: tokens, logger: logger}
}

// HandleLogin verifies a credential pair and starts a session.
//
// HTTP: POST /api/admin/login
// REQUEST BODY: {"username":"admin","password":"..."}
// RESPONSE: 200 {"username":"admin"} plus a Set-Cookie, or 401.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.settings.VerifyLogin(r.Context(), req.Username, req.Password); err != nil {
		// Log at Warn — repeated failures here are worth noticing.
		h.logger.Warn("login rejected", slog.String("username", req.Username))
		writeError(w, err)
		return
	}

	token, err := h.tokens.Generate(req.Username)
	if err != nil {
		h.logger.Error("token generation failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, token)
	h.logger.Info("admin logged in", slog.String("username", req.Username))
	writeJSON(w, http.StatusOK, map[string]string{"username": req.Username})
}

// HandleLogout ends the session by clearing the cookie. The token
// itself is not revoked server-side; it simply expires.
//
// HTTP: POST /api/admin/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe reports who the current session belongs to. It sits behind
// the session middleware, so reaching it at all means the cookie
// verified — we just echo the username back.
//
// HTTP: GET /api/admin/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.AdminFromContext(r.Context())
	if !ok {
		// Middleware misconfiguration, not a client error.
		h.logger.Error("session route reached without admin context")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}
