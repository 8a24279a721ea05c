package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/im-rahulr/codeshareit/internal/model"
	"github.com/im-rahulr/codeshareit/internal/stats"
)

// SnippetService is the slice of the snippet service the handlers need.
// Declaring the interface here (at the consumer) keeps the handler
// testable with a hand-written mock and the service layer free of any
// HTTP knowledge.
type SnippetService interface {
	Share(ctx context.Context, content string) (*model.Snippet, error)
	Lookup(ctx context.Context, code string) (*model.Snippet, error)
	List(ctx context.Context, query string) ([]model.Snippet, error)
	Stats(ctx context.Context) (stats.Aggregate, error)
	Delete(ctx context.Context, code string) error
}

// SnippetHandler serves the public sharing flow: paste code, get a
// 4-digit share code back, retrieve by code.
type SnippetHandler struct {
	snippets SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a new SnippetHandler.
func NewSnippetHandler(snippets SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// snippetResponse is a snippet plus its derived stats — the frontend
// shows token and line counts next to every snippet, so we compute them
// once here instead of making the client reimplement the counting rules.
type snippetResponse struct {
	ShareCode string             `json:"shareCode"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
	Stats     stats.SnippetStats `json:"stats"`
}

func toSnippetResponse(s *model.Snippet) snippetResponse {
	return snippetResponse{
		ShareCode: s.ShareCode,
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
		Stats:     stats.ForContent(s.Content),
	}
}

// HandleShare stores a pasted snippet and returns its share code.
//
// HTTP: POST /api/snippets
// REQUEST BODY: {"content": "print('hello')"}
// RESPONSE: 201 with the stored snippet, or 400/409/500 on failure.
func (h *SnippetHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.snippets.Share(r.Context(), req.Content)
	if err != nil {
		h.logger.Warn("share failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.logger.Info("snippet shared",
		slog.String("shareCode", snippet.ShareCode),
		slog.Int("bytes", len(snippet.Content)),
	)
	writeJSON(w, http.StatusCreated, toSnippetResponse(snippet))
}

// HandleLookup retrieves a snippet by its share code.
//
// HTTP: GET /api/snippets/{code}
func (h *SnippetHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	snippet, err := h.snippets.Lookup(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSnippetResponse(snippet))
}
