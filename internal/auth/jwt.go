// Package auth provides admin session tokens and password hashing.
//
// SESSION FLOW:
// 1. Admin POSTs credentials to /api/admin/login
// 2. Server verifies them against the bcrypt hash in the settings row
// 3. Server issues a signed JWT and stores it in an HttpOnly cookie
// 4. Middleware on /api/admin/* validates the cookie per request
//
// This replaces the old client-local "adminAuthenticated" flag, which any
// visitor could set themselves. A JWT is stateless — the server keeps no
// session table — but unlike a localStorage boolean it is signed: nobody
// can mint or alter one without the secret key, and it expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration is how long an admin login lasts before the cookie's
// token expires and the admin must log in again.
const SessionDuration = 12 * time.Hour

// TokenService signs and verifies admin session tokens.
// The same HMAC secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: SESSION_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the "sub" claim carries the admin
// username the token was issued for.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given admin
// username, valid for SessionDuration.
func (s *TokenService) Generate(username string) (string, error) {
	return s.GenerateWithDuration(username, SessionDuration)
}

// GenerateWithDuration creates a token with a custom expiry. Used by
// tests to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(username string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "codeshareit",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning the admin
// username it was issued for. Expired, tampered or foreign-signed tokens
// all fail here.
func (s *TokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{},
		func(t *jwt.Token) (interface{}, error) {
			// Reject any token not signed with our algorithm. Without
			// this check an attacker could submit a token claiming
			// alg=none or an RSA variant.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("auth: parsing token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", errors.New("auth: invalid token")
	}
	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}

	return c.Subject, nil
}
