package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/devconnector/internal/model"
)

// newTestDB opens a fresh in-memory database for one test. ":memory:" is
// fast, isolated, and gone when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// createTestUser inserts a user and fails the test on error.
func createTestUser(t *testing.T, u *UserDB, name, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		Avatar:       "https://www.gravatar.com/avatar/abc?s=200&r=pg&d=mm",
		PasswordHash: "$2a$04$fakehashfortesting",
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestProfile inserts a minimal profile for the user.
func createTestProfile(t *testing.T, p *ProfileDB, userID, handle string) *model.Profile {
	t.Helper()
	profile := &model.Profile{
		UserID: userID,
		Handle: handle,
		Status: "Developer",
		Skills: []string{"go", "sql"},
	}
	if err := p.Create(context.Background(), profile); err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// createTestPost inserts a post authored by the user.
func createTestPost(t *testing.T, p *PostDB, user *model.User, text string) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID: user.ID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
	if err := p.Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
