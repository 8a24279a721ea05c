package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/im-rahulr/codeshareit/internal/handler"
	"github.com/stretchr/testify/assert"
)

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

type mockStatusReader struct {
	offline bool
	err     error
}

func (m mockStatusReader) Offline(context.Context) (bool, error) { return m.offline, m.err }

func TestHealthHandler_HandleHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := handler.NewHealthHandler(mockPinger{}, mockStatusReader{}, testLogger())
		rr := httptest.NewRecorder()

		h.HandleHealthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"ok"`)
	})

	t.Run("store unreachable", func(t *testing.T) {
		h := handler.NewHealthHandler(mockPinger{err: errors.New("locked")}, mockStatusReader{}, testLogger())
		rr := httptest.NewRecorder()

		h.HandleHealthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"degraded"`)
	})
}

func TestHealthHandler_HandleSiteStatus(t *testing.T) {
	t.Run("reports the flag", func(t *testing.T) {
		h := handler.NewHealthHandler(mockPinger{}, mockStatusReader{offline: true}, testLogger())
		rr := httptest.NewRecorder()

		h.HandleSiteStatus(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"offline":true`)
	})

	t.Run("fails open on read errors", func(t *testing.T) {
		h := handler.NewHealthHandler(mockPinger{}, mockStatusReader{offline: true, err: errors.New("boom")}, testLogger())
		rr := httptest.NewRecorder()

		h.HandleSiteStatus(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"offline":false`)
	})
}
