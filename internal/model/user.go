// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The avatar is a gravatar URL derived from the email at registration time —
// see auth.GravatarURL. It is stored (not recomputed per read) so that posts
// and comments can snapshot it cheaply.
//
// WHY `json:"-"` ON PasswordHash?
// The hash must never leave the server. Tagging it with "-" means
// encoding/json skips it entirely — even if a handler accidentally encodes
// the whole struct, the hash cannot appear in a response body.
//
// GitHubID is 0 for accounts registered with email/password. Accounts created
// through the GitHub OAuth flow have no password hash; they can only log in
// via GitHub.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	Avatar       string    `json:"avatar"    db:"avatar"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     int64     `json:"-"         db:"github_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the response shape for identity endpoints (/register,
// /current). A dedicated struct rather than the full User keeps the wire
// contract explicit: id, name, email, avatar — nothing else.
type PublicUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Public returns the response-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
	}
}
