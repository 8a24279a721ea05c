package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/im-rahulr/codeshareit/internal/apperror"
	"github.com/im-rahulr/codeshareit/internal/model"
	"github.com/im-rahulr/codeshareit/internal/repository"
)

// Compile-time check that *DB implements the interface. If a method is
// missing or has the wrong signature, this line fails to compile.
var _ repository.SnippetRepository = (*DB)(nil)

// Create inserts a new snippet.
//
// UNIQUENESS IS THE DATABASE'S JOB:
// share_code carries a UNIQUE constraint, so this INSERT is the single
// atomic point where a code is claimed. There is no check-then-insert
// window — if two requests race on the same code, one INSERT succeeds
// and the other comes back as apperror.ErrConflict for the caller to
// retry with a fresh candidate.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	snippet.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO code_snippets (id, share_code, code_content, created_at)
		 VALUES (?, ?, ?, ?)`,
		snippet.ID,
		snippet.ShareCode,
		snippet.Content,
		snippet.CreatedAt,
	)
	if err != nil {
		err = translate(err, "code_snippets")
		if errors.Is(err, apperror.ErrConflict) {
			return apperror.Conflict("snippet", snippet.ShareCode)
		}
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetByShareCode retrieves the snippet with exactly this share code.
func (db *DB) GetByShareCode(ctx context.Context, code string) (*model.Snippet, error) {
	var s model.Snippet

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, share_code, code_content, created_at
		 FROM code_snippets
		 WHERE share_code = ?`,
		code,
	).Scan(&s.ID, &s.ShareCode, &s.Content, &s.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("snippet", code)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", code, translate(err, "code_snippets"))
	}

	return &s, nil
}

// List returns all snippets, newest first. The admin dashboard filters
// and aggregates in memory, matching how the listing is consumed — the
// whole table is the working set.
func (db *DB) List(ctx context.Context) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, share_code, code_content, created_at
		 FROM code_snippets
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", translate(err, "code_snippets"))
	}
	defer rows.Close()

	var snippets []model.Snippet
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(&s.ID, &s.ShareCode, &s.Content, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// UsedShareCodes returns every share code currently claimed. The issuance
// fallback diffs this against the full code space when random probing
// keeps colliding.
func (db *DB) UsedShareCodes(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT share_code FROM code_snippets`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing share codes: %w", translate(err, "code_snippets"))
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("sqlite: scanning share code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating share codes: %w", err)
	}

	return codes, nil
}

// DeleteByShareCode removes the snippet with this share code.
// RowsAffected distinguishes "deleted" from "was never there".
func (db *DB) DeleteByShareCode(ctx context.Context, code string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM code_snippets WHERE share_code = ?`,
		code,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", code, translate(err, "code_snippets"))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", code)
	}

	return nil
}
