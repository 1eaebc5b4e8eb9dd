package model

import "time"

// Profile holds the public-facing details a user chooses to publish.
// Exactly one profile exists per user; it is deleted when the account is.
//
// Skills arrive on the wire as a single comma-separated string (that's what
// the SPA's form sends) and are stored/returned as a list.
//
// Owner carries the profile owner's name and avatar so public profile reads
// don't force the client into a second lookup. It is filled in by the
// repository at read time from the users table — it is NOT a stored snapshot,
// so it never goes stale the way post author snapshots can.
type Profile struct {
	ID             string       `json:"id"             db:"id"`
	UserID         string       `json:"user"           db:"user_id"`
	Handle         string       `json:"handle"         db:"handle"`
	Status         string       `json:"status"         db:"status"`
	Company        string       `json:"company,omitempty"        db:"company"`
	Website        string       `json:"website,omitempty"        db:"website"`
	Location       string       `json:"location,omitempty"       db:"location"`
	Bio            string       `json:"bio,omitempty"            db:"bio"`
	GitHubUsername string       `json:"githubusername,omitempty" db:"github_username"`
	Skills         []string     `json:"skills"         db:"skills"`
	Social         SocialLinks  `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Owner          ProfileOwner `json:"owner"`
	CreatedAt      time.Time    `json:"createdAt"      db:"created_at"`
	UpdatedAt      time.Time    `json:"updatedAt"      db:"updated_at"`
}

// ProfileOwner is the owning user's display identity, resolved at read time.
type ProfileOwner struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// SocialLinks are optional external profile URLs.
type SocialLinks struct {
	YouTube   string `json:"youtube,omitempty"   db:"youtube"`
	Twitter   string `json:"twitter,omitempty"   db:"twitter"`
	Facebook  string `json:"facebook,omitempty"  db:"facebook"`
	LinkedIn  string `json:"linkedin,omitempty"  db:"linkedin"`
	Instagram string `json:"instagram,omitempty" db:"instagram"`
}

// Experience is one work-history entry. Entries are ordered most-recent-first
// and individually addressable by ID for deletion.
//
// From/To are free-form date strings ("2019-06", "Aug 2021") rather than
// time.Time — the client sends whatever its date picker produces and the
// server never computes with them. Current means "I still work here"; To is
// empty in that case.
type Experience struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Company     string    `json:"company"     db:"company"`
	Location    string    `json:"location,omitempty" db:"location"`
	From        string    `json:"from"        db:"from_date"`
	To          string    `json:"to,omitempty"          db:"to_date"`
	Current     bool      `json:"current"     db:"current"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// Education is one schooling entry, same addressing and ordering rules as
// Experience.
type Education struct {
	ID           string    `json:"id"           db:"id"`
	School       string    `json:"school"       db:"school"`
	Degree       string    `json:"degree"       db:"degree"`
	FieldOfStudy string    `json:"fieldofstudy" db:"field_of_study"`
	From         string    `json:"from"         db:"from_date"`
	To           string    `json:"to,omitempty"           db:"to_date"`
	Current      bool      `json:"current"      db:"current"`
	Description  string    `json:"description,omitempty"  db:"description"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}
