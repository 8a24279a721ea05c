package handler

import (
	"log/slog"
	"net/http"

	"github.com/im-rahulr/codeshareit/internal/apperror"
	"github.com/im-rahulr/codeshareit/internal/highlight"
	"github.com/im-rahulr/codeshareit/internal/service"
	"github.com/im-rahulr/codeshareit/internal/stats"
)

// HighlightHandler renders syntax-highlighted HTML server-side. The
// viewer page sends the raw snippet text and gets back markup it can
// drop into a <pre> block — no client-side highlighting library needed.
type HighlightHandler struct {
	logger *slog.Logger
}

// NewHighlightHandler creates a new HighlightHandler.
func NewHighlightHandler(logger *slog.Logger) *HighlightHandler {
	return &HighlightHandler{logger: logger}
}

// HandleHighlight tokenizes and renders a piece of source code.
//
// HTTP: POST /api/highlight
// REQUEST BODY: {"content": "const x = 1"}
// RESPONSE: {"html": "<span ...>", "stats": {"tokens": 4, "lines": 1}}
//
// The handler is a thin shell over the highlight package; it exists so
// the tokenizer stays a pure library with no HTTP types in it.
func (h *HighlightHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if len(req.Content) > service.MaxContentLength {
		writeError(w, apperror.ValidationFailed("content", "content is too large to highlight"))
		return
	}

	resp := struct {
		HTML  string             `json:"html"`
		Stats stats.SnippetStats `json:"stats"`
	}{
		HTML:  highlight.RenderHTML(req.Content),
		Stats: stats.ForContent(req.Content),
	}
	writeJSON(w, http.StatusOK, resp)
}
