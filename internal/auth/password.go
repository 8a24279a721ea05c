// Package auth — password hashing utilities.
//
// WHY BCRYPT?
// bcrypt is a hashing function designed to be slow, which makes brute-forcing a
// leaked database expensive. It generates a random salt per hash and
// embeds it in the output, so the stored string is self-contained:
//
//	$2a$12$<22-char salt><31-char hash>
//
// NEVER store passwords in plain text or with fast hashes (MD5, SHA-256).
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor: ~250ms per hash on a modern
// server, which is negligible at login frequency and brutal for attackers.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be lowered in tests
// — cost 4 runs in milliseconds without changing the logic under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom
// (lower) cost. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the plaintext password with bcrypt. The returned string is
// stored directly — it embeds its own salt and cost.
//
// bcrypt silently ignores input past 72 bytes; we reject such passwords
// explicitly rather than truncate.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", errors.New("auth: password longer than 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash.
// A mismatch is not an error — it's a false return. Errors mean the
// stored hash is malformed.
func (p *PasswordService) Verify(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("auth: comparing password: %w", err)
}
