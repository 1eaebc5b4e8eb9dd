package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	u := newTestDB(t).Users()

	user := &model.User{
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		Avatar:       "https://example.com/a.png",
		PasswordHash: "$2a$04$hash",
	}

	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
	if user.UpdatedAt.IsZero() {
		t.Error("Create() did not set user.UpdatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	u := newTestDB(t).Users()
	createTestUser(t, u, "First", "taken@example.com")

	duplicate := &model.User{Name: "Second", Email: "taken@example.com"}
	err := u.Create(context.Background(), duplicate)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict for duplicate email", err)
	}
}

func TestUserCreate_DuplicateEmailDifferentCase(t *testing.T) {
	u := newTestDB(t).Users()
	createTestUser(t, u, "First", "ada@example.com")

	// The email column collates NOCASE — same mailbox, different spelling.
	duplicate := &model.User{Name: "Second", Email: "ADA@EXAMPLE.COM"}
	err := u.Create(context.Background(), duplicate)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict for case-variant email", err)
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	u := newTestDB(t).Users()
	created := createTestUser(t, u, "Ada", "ada@example.com")

	found, err := u.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Name != "Ada" {
		t.Errorf("Name = %q, want %q", found.Name, "Ada")
	}
	if found.PasswordHash == "" {
		t.Error("GetByID() did not load the password hash")
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	u := newTestDB(t).Users()
	created := createTestUser(t, u, "Ada", "ada@example.com")

	found, err := u.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestUserGetByEmail_CaseInsensitive(t *testing.T) {
	u := newTestDB(t).Users()
	created := createTestUser(t, u, "Ada", "ada@example.com")

	found, err := u.GetByEmail(context.Background(), "Ada@Example.COM")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPSERT (GitHub) TESTS
// =========================================================================

func TestUserUpsertGitHub_NewUser(t *testing.T) {
	u := newTestDB(t).Users()

	user := &model.User{
		GitHubID: 12345,
		Name:     "Octocat",
		Email:    "octocat@github.com",
		Avatar:   "https://avatars.githubusercontent.com/u/12345",
	}

	if err := u.UpsertGitHub(context.Background(), user); err != nil {
		t.Fatalf("UpsertGitHub() error = %v", err)
	}
	if user.ID == "" {
		t.Error("UpsertGitHub() did not set user.ID for a new user")
	}
	if user.PasswordHash != "" {
		t.Error("GitHub account should have no password hash")
	}
}

func TestUserUpsertGitHub_SecondLoginKeepsID(t *testing.T) {
	u := newTestDB(t).Users()

	first := &model.User{GitHubID: 99, Name: "Old Name", Email: "old@example.com"}
	if err := u.UpsertGitHub(context.Background(), first); err != nil {
		t.Fatalf("first UpsertGitHub() error = %v", err)
	}

	second := &model.User{GitHubID: 99, Name: "New Name", Email: "new@example.com"}
	if err := u.UpsertGitHub(context.Background(), second); err != nil {
		t.Fatalf("second UpsertGitHub() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("UpsertGitHub() changed user ID: got %q, want %q", second.ID, first.ID)
	}
	if second.Name != "New Name" {
		t.Errorf("Name = %q, want %q", second.Name, "New Name")
	}
	if second.Email != "new@example.com" {
		t.Errorf("Email = %q, want %q", second.Email, "new@example.com")
	}
}

func TestUserUpsertGitHub_EmptyEmailKeepsExisting(t *testing.T) {
	u := newTestDB(t).Users()

	first := &model.User{GitHubID: 7, Name: "Hidden", Email: "kept@example.com"}
	if err := u.UpsertGitHub(context.Background(), first); err != nil {
		t.Fatalf("first UpsertGitHub() error = %v", err)
	}

	// GitHub lets users hide their email; a later login supplies none.
	second := &model.User{GitHubID: 7, Name: "Hidden"}
	if err := u.UpsertGitHub(context.Background(), second); err != nil {
		t.Fatalf("second UpsertGitHub() error = %v", err)
	}

	if second.Email != "kept@example.com" {
		t.Errorf("Email = %q, want the existing address kept", second.Email)
	}
}

func TestUserUpsertGitHub_ZeroGitHubID(t *testing.T) {
	u := newTestDB(t).Users()

	err := u.UpsertGitHub(context.Background(), &model.User{Name: "No GitHub"})
	if err == nil {
		t.Fatal("UpsertGitHub() should reject a zero GitHub ID")
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestUserDelete(t *testing.T) {
	u := newTestDB(t).Users()
	created := createTestUser(t, u, "Ada", "ada@example.com")

	if err := u.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := u.GetByID(context.Background(), created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	err := u.Delete(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

// Deleting a user must cascade to their profile and its entries, and leave
// their posts alone — the snapshot keeps old posts renderable.
func TestUserDelete_CascadesProfileNotPosts(t *testing.T) {
	db := newTestDB(t)
	u, p, posts := db.Users(), db.Profiles(), db.Posts()

	user := createTestUser(t, u, "Ada", "ada@example.com")
	profile := createTestProfile(t, p, user.ID, "adal")
	if err := p.AddExperience(context.Background(), profile.ID, &model.Experience{
		Title: "Engineer", Company: "Acme", From: "2019",
	}); err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}
	post := createTestPost(t, posts, user, "a post that should outlive the account")

	if err := u.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := p.GetByUserID(context.Background(), user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("profile survived account deletion: err = %v", err)
	}

	survived, err := posts.GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("post did not survive account deletion: %v", err)
	}
	if survived.Name != "Ada" {
		t.Errorf("post snapshot Name = %q, want %q", survived.Name, "Ada")
	}
}
