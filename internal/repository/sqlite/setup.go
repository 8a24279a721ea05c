package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
)

// SetupSQL is the provisioning script surfaced to the operator when the
// store is unprovisioned (the "Setup Required" recovery path). It is the
// copy-paste equivalent of Migrate(), for deployments where the server
// runs with migrations disabled and a human owns the schema.
//
// Admin credentials are not seeded here: the default password must be
// bcrypt-hashed, which SQL can't do. SeedAdmin handles that on startup.
const SetupSQL = `-- CodeShareit setup
-- Run against the server's SQLite database, then restart the server.

-- 1) Snippets table: share_code is the public 4-digit identifier.
CREATE TABLE IF NOT EXISTS code_snippets (
  id           TEXT PRIMARY KEY,
  share_code   TEXT NOT NULL UNIQUE,
  code_content TEXT NOT NULL,
  created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- 2) Newest-first listing index.
CREATE INDEX IF NOT EXISTS idx_code_snippets_created_at ON code_snippets(created_at);

-- 3) Singleton admin settings row (credentials + site-offline flag).
CREATE TABLE IF NOT EXISTS admin_settings (
  id            TEXT PRIMARY KEY,
  username      TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  site_offline  INTEGER NOT NULL DEFAULT 0,
  created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SeedAdmin inserts the default admin credential row if the settings
// table is empty. Idempotent: an existing row (whatever its contents) is
// left untouched, so operator-changed credentials survive restarts.
func (db *DB) SeedAdmin(ctx context.Context, username, passwordHash string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning admin seed: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM admin_settings LIMIT 1`,
	).Scan(&existing)
	if err == nil {
		return nil // already seeded (or operator-managed)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sqlite: checking admin seed: %w", translate(err, "admin_settings"))
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO admin_settings (id, username, password_hash, site_offline, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		xid.New().String(), username, passwordHash, now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: seeding admin settings: %w", err)
	}

	return tx.Commit()
}
