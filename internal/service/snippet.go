// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate, enforce
// rules and orchestrate; repositories read and write the store. Services
// depend on repository interfaces, never concrete stores, so tests can
// inject in-memory fakes and the store can be swapped without touching
// this package.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/im-rahulr/codeshareit/internal/apperror"
	"github.com/im-rahulr/codeshareit/internal/model"
	"github.com/im-rahulr/codeshareit/internal/repository"
	"github.com/im-rahulr/codeshareit/internal/stats"
)

const (
	// Share codes live in 1000–9999: always four digits, 9000 possible.
	shareCodeMin   = 1000
	shareCodeSpace = 9000

	// maxRandomAttempts bounds the random-probe phase of issuance.
	// After this many conflicts we stop guessing and compute a free code
	// exactly, so issuance always terminates.
	maxRandomAttempts = 25

	// MaxContentLength caps snippet size (~100KB of code).
	MaxContentLength = 100000
)

// SnippetService handles snippet sharing, lookup and administration.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
	rng    *rand.Rand
}

// NewSnippetService creates a SnippetService.
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	seed := uint64(time.Now().UnixNano())
	return newSnippetServiceWithRand(repo, logger, rand.New(rand.NewPCG(seed, seed>>32)))
}

// newSnippetServiceWithRand injects a seeded source. Tests use this to
// make issuance deterministic.
func newSnippetServiceWithRand(repo repository.SnippetRepository, logger *slog.Logger, rng *rand.Rand) *SnippetService {
	return &SnippetService{repo: repo, logger: logger, rng: rng}
}

// Share stores content under a freshly issued share code.
//
// ISSUANCE:
// Generating a code, querying whether it exists, and then inserting
// leaves a race window where two visitors claim the same code. Here the
// INSERT itself claims the code under the UNIQUE constraint:
//
//	phase 1: random candidate + insert; on conflict, fresh candidate
//	         (cheap, and collision-free stores exit on the first try)
//	phase 2: after maxRandomAttempts conflicts, fetch the used set and
//	         pick uniformly among the free remainder — guaranteed to
//	         terminate, even with one code left
//
// Only a store holding all 9000 codes makes issuance fail, with a
// conflict error rather than an infinite loop.
func (s *SnippetService) Share(ctx context.Context, content string) (*model.Snippet, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperror.ValidationFailed("content", "snippet content is required")
	}
	if len(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("snippet content must be %d bytes or less", MaxContentLength))
	}

	// Phase 1: random probing.
	for attempt := 0; attempt < maxRandomAttempts; attempt++ {
		code := strconv.Itoa(shareCodeMin + s.rng.IntN(shareCodeSpace))
		snippet := &model.Snippet{ShareCode: code, Content: content}

		err := s.repo.Create(ctx, snippet)
		if err == nil {
			s.logger.Info("snippet shared",
				slog.String("id", snippet.ID),
				slog.String("shareCode", code),
			)
			return snippet, nil
		}
		if errors.Is(err, apperror.ErrConflict) {
			continue
		}
		s.logger.Error("failed to store snippet", slog.String("error", err.Error()))
		return nil, fmt.Errorf("storing snippet: %w", err)
	}

	// Phase 2: exact fallback. A conflict here means someone claimed our
	// pick between the read and the insert — recompute and try again.
	for attempt := 0; attempt < maxRandomAttempts; attempt++ {
		code, err := s.pickFreeCode(ctx)
		if err != nil {
			return nil, err
		}

		snippet := &model.Snippet{ShareCode: code, Content: content}
		err = s.repo.Create(ctx, snippet)
		if err == nil {
			s.logger.Info("snippet shared after fallback",
				slog.String("id", snippet.ID),
				slog.String("shareCode", code),
			)
			return snippet, nil
		}
		if errors.Is(err, apperror.ErrConflict) {
			continue
		}
		return nil, fmt.Errorf("storing snippet: %w", err)
	}

	return nil, &apperror.AppError{
		Err:     apperror.ErrConflict,
		Message: "could not issue a share code, please try again",
	}
}

// pickFreeCode diffs the used codes against the full space and picks one
// of the free ones at random.
func (s *SnippetService) pickFreeCode(ctx context.Context) (string, error) {
	used, err := s.repo.UsedShareCodes(ctx)
	if err != nil {
		return "", fmt.Errorf("listing used share codes: %w", err)
	}

	taken := make(map[string]bool, len(used))
	for _, c := range used {
		taken[c] = true
	}

	free := make([]string, 0, shareCodeSpace-len(taken))
	for n := shareCodeMin; n < shareCodeMin+shareCodeSpace; n++ {
		if code := strconv.Itoa(n); !taken[code] {
			free = append(free, code)
		}
	}

	if len(free) == 0 {
		return "", &apperror.AppError{
			Err:     apperror.ErrConflict,
			Message: "all share codes are in use",
		}
	}

	return free[s.rng.IntN(len(free))], nil
}

// Lookup retrieves a snippet by share code. The code must be exactly
// four digits — anything else is a validation failure, before the store
// is touched. A missing code is ErrNotFound, distinct from store errors.
func (s *SnippetService) Lookup(ctx context.Context, code string) (*model.Snippet, error) {
	code = strings.TrimSpace(code)
	if !isShareCode(code) {
		return nil, apperror.ValidationFailed("code", "share code must be exactly 4 digits")
	}

	return s.repo.GetByShareCode(ctx, code)
}

// List returns all snippets newest first, optionally filtered.
//
// The filter is the dashboard search: a case-insensitive substring match
// over the share code, the full content, or the token count rendered as
// a string ("12" matches a 12-token snippet and a code containing 12).
func (s *SnippetService) List(ctx context.Context, query string) ([]model.Snippet, error) {
	snippets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return snippets, nil
	}

	filtered := make([]model.Snippet, 0, len(snippets))
	for _, sn := range snippets {
		if strings.Contains(strings.ToLower(sn.ShareCode), query) ||
			strings.Contains(strings.ToLower(sn.Content), query) ||
			strings.Contains(strconv.Itoa(stats.CountTokens(sn.Content)), query) {
			filtered = append(filtered, sn)
		}
	}

	return filtered, nil
}

// Stats computes the dashboard aggregates over all snippets.
func (s *SnippetService) Stats(ctx context.Context) (stats.Aggregate, error) {
	snippets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to load snippets for stats", slog.String("error", err.Error()))
		return stats.Aggregate{}, fmt.Errorf("loading snippets for stats: %w", err)
	}

	return stats.Summarize(snippets, time.Now()), nil
}

// Delete removes a snippet by its share code.
func (s *SnippetService) Delete(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if !isShareCode(code) {
		return apperror.ValidationFailed("code", "share code must be exactly 4 digits")
	}

	if err := s.repo.DeleteByShareCode(ctx, code); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.String("shareCode", code))
	return nil
}

func isShareCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

