package model

import "time"

// Settings is the singleton admin settings row: the admin credential pair
// plus the site-wide offline switch.
//
// There is intentionally exactly one of these. The repository's Upsert
// enforces the singleton by replacing whatever row exists rather than
// appending. PasswordHash holds a bcrypt hash — the plaintext password is
// never stored or returned by any API.
//
// The `json:"-"` tag on PasswordHash means the hash is NEVER serialized,
// even by accident. Handlers that need to show the username build their
// own response structs.
type Settings struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	SiteOffline  bool      `json:"siteOffline"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
