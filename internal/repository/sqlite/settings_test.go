package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/im-rahulr/codeshareit/internal/apperror"
	"github.com/im-rahulr/codeshareit/internal/model"
)

func TestSettingsGet_NoRow(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() on empty table error = %v, want ErrNotFound", err)
	}
}

// SkipMigrate leaves the tables uncreated — this is how the
// unprovisioned-store path is exercised. The error must be
// ErrSchemaMissing, distinct from ErrNotFound.
func TestSettingsGet_TableMissing(t *testing.T) {
	db, err := New(":memory:", Options{SkipMigrate: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Get(context.Background())
	if !errors.Is(err, apperror.ErrSchemaMissing) {
		t.Errorf("Get() without table error = %v, want ErrSchemaMissing", err)
	}
}

func TestSettingsUpsert_TableMissing(t *testing.T) {
	db, err := New(":memory:", Options{SkipMigrate: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	err = db.Upsert(context.Background(), &model.Settings{
		Username:     "admin",
		PasswordHash: "$2a$04$fake",
	})
	if !errors.Is(err, apperror.ErrSchemaMissing) {
		t.Errorf("Upsert() without table error = %v, want ErrSchemaMissing", err)
	}
}

func TestSettingsUpsert_CreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// First upsert inserts the row
	first := &model.Settings{
		Username:     "admin",
		PasswordHash: "hash-1",
		SiteOffline:  false,
	}
	if err := db.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert() insert error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("Upsert() did not assign an ID")
	}

	// Second upsert must update the same row, not add another
	second := &model.Settings{
		Username:     "root",
		PasswordHash: "hash-2",
		SiteOffline:  true,
	}
	if err := db.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Upsert() created a second row: id %q vs %q", second.ID, first.ID)
	}

	got, err := db.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Username != "root" {
		t.Errorf("Username = %q, want %q", got.Username, "root")
	}
	if got.PasswordHash != "hash-2" {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, "hash-2")
	}
	if !got.SiteOffline {
		t.Error("SiteOffline = false, want true")
	}
}

func TestSeedAdmin_InsertsOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SeedAdmin(ctx, "admin", "hash-a"); err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}

	// Second seed must be a no-op — it must not overwrite edits
	if err := db.SeedAdmin(ctx, "other", "hash-b"); err != nil {
		t.Fatalf("SeedAdmin() second call error = %v", err)
	}

	got, err := db.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Username != "admin" {
		t.Errorf("Username = %q, want %q (seed must not overwrite)", got.Username, "admin")
	}
	if got.PasswordHash != "hash-a" {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, "hash-a")
	}
}

func TestMigrate_AfterSkip(t *testing.T) {
	db, err := New(":memory:", Options{SkipMigrate: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Provision on demand, then the same handle must work normally.
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	_, err = db.Get(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after Migrate error = %v, want ErrNotFound", err)
	}
}
