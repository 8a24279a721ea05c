package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// OfflineChecker reads the site switch. Satisfied by the settings
// service; declared here so the gate doesn't import the service layer.
type OfflineChecker interface {
	Offline(ctx context.Context) (bool, error)
}

// SiteGate blocks visitor traffic while the site switch is off. Mount
// it on the public snippet routes only — the admin panel, the login
// endpoint and the health probe must stay reachable so the switch can
// be turned back on.
//
// The gate FAILS OPEN: if the flag cannot be read (store busy, table
// missing) the request goes through. A broken settings table should
// never take the whole site down with it.
func SiteGate(checker OfflineChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			offline, err := checker.Offline(r.Context())
			if err != nil {
				logger.Warn("site gate could not read the switch, allowing request",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			if offline {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "site_offline",
					"message": "The site is temporarily offline for maintenance",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
