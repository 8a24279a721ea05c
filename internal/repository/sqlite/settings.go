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

var _ repository.SettingsRepository = (*DB)(nil)

// Get returns the singleton admin settings row.
//
// Three outcomes, three distinct errors:
//   - the row exists            → (*Settings, nil)
//   - table exists, no row yet  → apperror.ErrNotFound
//   - table doesn't exist       → apperror.ErrSchemaMissing
//
// The LIMIT 1 mirrors the singleton contract: if extra rows ever sneak
// in, the oldest one wins consistently rather than at random.
func (db *DB) Get(ctx context.Context) (*model.Settings, error) {
	var (
		s           model.Settings
		siteOffline int
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, site_offline, created_at, updated_at
		 FROM admin_settings
		 ORDER BY created_at ASC
		 LIMIT 1`,
	).Scan(&s.ID, &s.Username, &s.PasswordHash, &siteOffline, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("settings", "singleton")
		}
		err = translate(err, "admin_settings")
		if errors.Is(err, apperror.ErrSchemaMissing) || errors.Is(err, apperror.ErrStoreBusy) {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite: getting settings: %w", err)
	}

	s.SiteOffline = siteOffline != 0

	return &s, nil
}

// Upsert writes the singleton row: update in place when it exists,
// insert otherwise.
//
// Both statements run inside one transaction so a concurrent Upsert
// can't turn create-vs-update into two rows. SQLite serializes writers,
// so the "insert or update" decision is atomic — no read-then-write race.
func (db *DB) Upsert(ctx context.Context, settings *model.Settings) error {
	now := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		err = translate(err, "admin_settings")
		if errors.Is(err, apperror.ErrSchemaMissing) || errors.Is(err, apperror.ErrStoreBusy) {
			return err
		}
		return fmt.Errorf("sqlite: beginning settings upsert: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	var createdAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM admin_settings ORDER BY created_at ASC LIMIT 1`,
	).Scan(&existingID, &createdAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		settings.ID = xid.New().String()
		settings.CreatedAt = now
		settings.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO admin_settings (id, username, password_hash, site_offline, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			settings.ID, settings.Username, settings.PasswordHash,
			boolToInt(settings.SiteOffline), settings.CreatedAt, settings.UpdatedAt,
		)
	case err != nil:
		err = translate(err, "admin_settings")
		if errors.Is(err, apperror.ErrSchemaMissing) || errors.Is(err, apperror.ErrStoreBusy) {
			return err
		}
		return fmt.Errorf("sqlite: reading settings for upsert: %w", err)
	default:
		settings.ID = existingID
		settings.CreatedAt = createdAt
		settings.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			`UPDATE admin_settings
			 SET username = ?, password_hash = ?, site_offline = ?, updated_at = ?
			 WHERE id = ?`,
			settings.Username, settings.PasswordHash,
			boolToInt(settings.SiteOffline), settings.UpdatedAt, settings.ID,
		)
	}
	if err != nil {
		err = translate(err, "admin_settings")
		if errors.Is(err, apperror.ErrSchemaMissing) || errors.Is(err, apperror.ErrStoreBusy) {
			return err
		}
		return fmt.Errorf("sqlite: writing settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		err = translate(err, "admin_settings")
		if errors.Is(err, apperror.ErrStoreBusy) {
			return err
		}
		return fmt.Errorf("sqlite: committing settings upsert: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
