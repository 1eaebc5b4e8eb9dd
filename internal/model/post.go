package model

import "time"

// Post is a status update on the feed.
//
// Name and Avatar are a snapshot of the author's display identity taken when
// the post was created. They are deliberately NOT kept in sync with later
// account edits — the feed shows what the author looked like at posting time.
// UserID is the live reference used for the author-only delete gate.
//
// Deleting the author's account does not delete their posts; the snapshot
// keeps old posts renderable.
type Post struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"user"      db:"user_id"`
	Text      string    `json:"text"      db:"text"`
	Name      string    `json:"name"      db:"name"`
	Avatar    string    `json:"avatar"    db:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Like marks that one user liked a post. At most one like exists per
// (post, user) pair.
type Like struct {
	UserID    string    `json:"user"      db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Comment is a reply on a post, newest first, removable by its own ID by the
// user who wrote it. Carries the same kind of author snapshot as Post.
type Comment struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"user"      db:"user_id"`
	Text      string    `json:"text"      db:"text"`
	Name      string    `json:"name"      db:"name"`
	Avatar    string    `json:"avatar"    db:"avatar"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
