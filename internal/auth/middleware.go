package auth

import (
	"context"
	"net/http"
)

// SessionCookie is the name of the HttpOnly cookie holding the admin
// session token.
const SessionCookie = "admin_session"

// contextKey is an unexported type for context keys in this package.
// Using a package-private type means no other package can read or shadow
// the values we store — a plain string key would be collidable.
type contextKey string

const adminUserKey contextKey = "adminUser"

// RequireAdmin enforces a valid admin session on protected routes.
//
// It reads the session cookie, validates the JWT, and stores the admin
// username in the request context. Missing or invalid tokens get a 401
// and the chain stops — handlers behind this middleware can assume an
// authenticated admin.
//
// The cookie is HttpOnly: page scripts cannot read it, so an XSS bug
// can't exfiltrate the session the way it could a localStorage flag.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := extractAdmin(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid admin session required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), adminUserKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext returns the authenticated admin username, if any.
// The second return is false on requests that didn't pass RequireAdmin.
func AdminFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(adminUserKey).(string)
	return username, ok && username != ""
}

// SetSessionCookie writes the session cookie on a successful login.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on logout.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func extractAdmin(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
