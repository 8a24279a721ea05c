package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/im-rahulr/codeshareit/internal/apperror"
	"github.com/im-rahulr/codeshareit/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" gives each test a fresh database with no disk I/O, destroyed
// when the connection closes. t.Cleanup handles the close even in subtests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:", Options{})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestSnippet(t *testing.T, db *DB, shareCode, content string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{ShareCode: shareCode, Content: content}
	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

func TestCreate(t *testing.T) {
	db := newTestDB(t)

	snippet := &model.Snippet{
		ShareCode: "1234",
		Content:   "print('hello')",
	}

	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.ID == "" {
		t.Error("Create() did not set snippet.ID")
	}
	if snippet.CreatedAt.IsZero() {
		t.Error("Create() did not set snippet.CreatedAt")
	}
}

// The whole point of the UNIQUE constraint: a second insert with the same
// share code must fail with ErrConflict, not silently duplicate.
func TestCreate_DuplicateShareCode(t *testing.T) {
	db := newTestDB(t)
	createTestSnippet(t, db, "4242", "first")

	err := db.Create(context.Background(), &model.Snippet{ShareCode: "4242", Content: "second"})
	if err == nil {
		t.Fatal("Create() should fail on duplicate share code")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}

	// The first snippet must be untouched
	got, err := db.GetByShareCode(context.Background(), "4242")
	if err != nil {
		t.Fatalf("GetByShareCode() error = %v", err)
	}
	if got.Content != "first" {
		t.Errorf("Content = %q, want %q", got.Content, "first")
	}
}

func TestGetByShareCode(t *testing.T) {
	db := newTestDB(t)
	created := createTestSnippet(t, db, "0042", "x = 42")

	found, err := db.GetByShareCode(context.Background(), "0042")
	if err != nil {
		t.Fatalf("GetByShareCode() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Content != "x = 42" {
		t.Errorf("Content = %q, want %q", found.Content, "x = 42")
	}
	// Leading zero must survive the round trip — the code is a string.
	if found.ShareCode != "0042" {
		t.Errorf("ShareCode = %q, want %q", found.ShareCode, "0042")
	}
}

func TestGetByShareCode_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByShareCode(context.Background(), "9999")
	if err == nil {
		t.Fatal("GetByShareCode() should error for a missing code")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	createTestSnippet(t, db, "1111", "one")
	createTestSnippet(t, db, "2222", "two")
	createTestSnippet(t, db, "3333", "three")

	snippets, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(snippets) != 3 {
		t.Fatalf("List() returned %d snippets, want 3", len(snippets))
	}
	// Inserted in order 1111, 2222, 3333 — newest first means reversed.
	// CreatedAt can collide at this speed, so the id tiebreaker (xid is
	// time-ordered) keeps the order deterministic.
	if snippets[0].ShareCode != "3333" {
		t.Errorf("first snippet = %q, want %q (newest first)", snippets[0].ShareCode, "3333")
	}
	if snippets[2].ShareCode != "1111" {
		t.Errorf("last snippet = %q, want %q", snippets[2].ShareCode, "1111")
	}
}

func TestUsedShareCodes(t *testing.T) {
	db := newTestDB(t)
	createTestSnippet(t, db, "1000", "a")
	createTestSnippet(t, db, "2000", "b")

	codes, err := db.UsedShareCodes(context.Background())
	if err != nil {
		t.Fatalf("UsedShareCodes() error = %v", err)
	}

	if len(codes) != 2 {
		t.Fatalf("UsedShareCodes() returned %d codes, want 2", len(codes))
	}
	seen := map[string]bool{}
	for _, c := range codes {
		seen[c] = true
	}
	if !seen["1000"] || !seen["2000"] {
		t.Errorf("UsedShareCodes() = %v, want 1000 and 2000", codes)
	}
}

func TestDeleteByShareCode(t *testing.T) {
	db := newTestDB(t)
	createTestSnippet(t, db, "5678", "delete me")

	if err := db.DeleteByShareCode(context.Background(), "5678"); err != nil {
		t.Fatalf("DeleteByShareCode() error = %v", err)
	}

	_, err := db.GetByShareCode(context.Background(), "5678")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("after delete, GetByShareCode error = %v, want ErrNotFound", err)
	}
}

func TestDeleteByShareCode_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteByShareCode(context.Background(), "0000")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
