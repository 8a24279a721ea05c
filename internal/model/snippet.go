// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Snippet represents a shared code snippet.
//
// A snippet is write-once: created when a visitor submits code, read back
// by anyone holding the share code, and eventually deleted by an admin.
// It is never updated in place, which is why there is no UpdatedAt field.
//
// WHY IS ShareCode A STRING?
// The share code is a 4-digit identifier like "0427". Stored as an int it
// would lose leading zeros, and it's an opaque lookup key — we never do
// arithmetic on it. The UNIQUE constraint on share_code in the DB is what
// guarantees one code maps to exactly one snippet.
type Snippet struct {
	ID        string    `json:"id"`
	ShareCode string    `json:"shareCode"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
