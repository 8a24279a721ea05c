// Package repository defines the storage interfaces — the seam between
// business logic and the concrete data store.
//
// Services depend on these interfaces, never on a concrete *sqlite.DB.
// That's what makes the store swappable (a hosted table store, Postgres,
// a mock in tests) without touching the service layer.
package repository

import (
	"context"

	"github.com/im-rahulr/codeshareit/internal/model"
)

// SnippetRepository stores shared code snippets.
//
// Create must be atomic with respect to the share-code uniqueness
// constraint: two concurrent Creates with the same code must result in
// exactly one row and one apperror.ErrConflict. There is deliberately no
// Update — snippets are immutable once shared.
type SnippetRepository interface {
	// Create inserts the snippet and fills ID/CreatedAt on the passed
	// struct. Returns apperror.ErrConflict if the share code is taken.
	Create(ctx context.Context, snippet *model.Snippet) error

	// GetByShareCode returns the snippet with exactly this share code,
	// or apperror.ErrNotFound.
	GetByShareCode(ctx context.Context, code string) (*model.Snippet, error)

	// List returns all snippets, newest first.
	List(ctx context.Context) ([]model.Snippet, error)

	// UsedShareCodes returns every share code currently in the store.
	// The issuance fallback uses this to pick among the free remainder.
	UsedShareCodes(ctx context.Context) ([]string, error)

	// DeleteByShareCode removes the snippet with this share code, or
	// returns apperror.ErrNotFound if no row matches.
	DeleteByShareCode(ctx context.Context, code string) error
}

// SettingsRepository stores the singleton admin settings row.
//
// Implementations must tolerate the settings table not existing yet and
// report that as apperror.ErrSchemaMissing (distinct from ErrNotFound,
// which means the table exists but holds no row). Transient lock
// conditions surface as apperror.ErrStoreBusy so callers can retry.
type SettingsRepository interface {
	// Get returns the singleton row, apperror.ErrNotFound if absent, or
	// apperror.ErrSchemaMissing if the table itself is missing.
	Get(ctx context.Context) (*model.Settings, error)

	// Upsert creates the singleton row if absent, else updates it in
	// place. Fills ID/CreatedAt/UpdatedAt on the passed struct.
	Upsert(ctx context.Context, settings *model.Settings) error
}
