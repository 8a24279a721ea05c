package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

type stubChecker struct {
	offline bool
	err     error
}

func (s stubChecker) Offline(context.Context) (bool, error) { return s.offline, s.err }

func gateFor(t *testing.T, checker stubChecker) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return SiteGate(checker, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestSiteGate_OnlinePassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	gateFor(t, stubChecker{offline: false}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/snippets/1234", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestSiteGate_OfflineBlocks(t *testing.T) {
	rr := httptest.NewRecorder()
	gateFor(t, stubChecker{offline: true}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/snippets", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
}

func TestSiteGate_FailsOpenOnError(t *testing.T) {
	rr := httptest.NewRecorder()
	gateFor(t, stubChecker{offline: true, err: errors.New("table missing")}).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/snippets/1234", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (gate fails open)", rr.Code)
	}
}
