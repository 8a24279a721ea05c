// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
//
// ERROR TRANSLATION:
// This package is also where raw driver errors become domain errors:
//   - UNIQUE constraint violation on share_code → apperror.ErrConflict
//   - "no such table"                           → apperror.ErrSchemaMissing
//   - SQLITE_BUSY / SQLITE_LOCKED              → apperror.ErrStoreBusy
// Callers above this layer never see SQLite error codes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite". We also use the package directly below to
	// inspect typed driver errors.
	sqlite "modernc.org/sqlite"

	"github.com/im-rahulr/codeshareit/internal/apperror"
)

// SQLite primary result codes and extended result codes we translate.
// See https://sqlite.org/rescode.html — these are stable constants of the
// SQLite C API, mirrored by the driver.
const (
	codeError            = 1    // generic SQLITE_ERROR ("no such table" arrives as this)
	codeBusy             = 5    // SQLITE_BUSY
	codeLocked           = 6    // SQLITE_LOCKED
	codeConstraintUnique = 2067 // SQLITE_CONSTRAINT_UNIQUE
)

// Options controls how the database is opened.
type Options struct {
	// SkipMigrate opens the database without creating tables. Used to
	// exercise the unprovisioned-store recovery path (and by tests).
	SkipMigrate bool
}

// DB wraps a sql.DB connection pool and implements both repository
// interfaces (SnippetRepository in snippet.go, SettingsRepository in
// settings.go).
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath, configures it, and runs
// migrations. Use ":memory:" for a throwaway in-memory database in tests.
func New(dbPath string, opts Options) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A ":memory:" database exists per connection — with the default
	// pool, a second connection would see an empty database. Pin the
	// pool to one connection so tests behave.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open only creates the pool — Ping forces a real connection so a
	// bad path fails here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in flight —
	// important for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if !opts.SkipMigrate {
		if err := db.Migrate(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: running migrations: %w", err)
		}
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New().
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the store is reachable. The health endpoint calls this.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Migrate creates the tables if they don't exist. Exported so a server
// started with SkipMigrate can provision on demand once an operator has
// confirmed the setup.
//
// CREATE TABLE IF NOT EXISTS is idempotent — safe to run repeatedly.
func (db *DB) Migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS code_snippets (
			id           TEXT PRIMARY KEY,
			share_code   TEXT NOT NULL UNIQUE,
			code_content TEXT NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_code_snippets_created_at ON code_snippets(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating code_snippets table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS admin_settings (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			site_offline  INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating admin_settings table: %w", err)
	}

	return nil
}

// translate maps a raw driver error to the domain taxonomy. Errors we
// don't recognise pass through unchanged (the caller wraps them).
func translate(err error, table string) error {
	if err == nil {
		return nil
	}

	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return err
	}

	switch serr.Code() {
	case codeConstraintUnique:
		return apperror.ErrConflict
	case codeBusy, codeLocked:
		return apperror.StoreBusy(table)
	case codeError:
		// SQLite reports a missing table as a generic error with a
		// recognisable message. This is the "relation does not exist"
		// signal the recovery path keys off.
		if isNoSuchTable(err) {
			return apperror.SchemaMissing(table)
		}
	}
	return err
}

func isNoSuchTable(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no such table")
}
