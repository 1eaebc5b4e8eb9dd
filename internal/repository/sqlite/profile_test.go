package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestProfileCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada", "ada@example.com")
	p := db.Profiles()

	profile := &model.Profile{
		UserID: user.ID,
		Handle: "adal",
		Status: "Developer",
		Skills: []string{"go", "sql", "docker"},
		Social: model.SocialLinks{Twitter: "https://twitter.com/adal"},
	}
	if err := p.Create(context.Background(), profile); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if profile.ID == "" {
		t.Error("Create() did not set profile.ID")
	}

	found, err := p.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if found.Handle != "adal" {
		t.Errorf("Handle = %q, want %q", found.Handle, "adal")
	}
	if len(found.Skills) != 3 || found.Skills[0] != "go" {
		t.Errorf("Skills = %v, want [go sql docker]", found.Skills)
	}
	if found.Social.Twitter != "https://twitter.com/adal" {
		t.Errorf("Social.Twitter = %q, want the stored link", found.Social.Twitter)
	}
}

func TestProfileCreate_DuplicateHandle(t *testing.T) {
	db := newTestDB(t)
	u := db.Users()
	first := createTestUser(t, u, "First", "first@example.com")
	second := createTestUser(t, u, "Second", "second@example.com")
	p := db.Profiles()

	createTestProfile(t, p, first.ID, "shared-handle")

	dup := &model.Profile{UserID: second.ID, Handle: "shared-handle", Status: "Dev"}
	err := p.Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict for duplicate handle", err)
	}
}

// =========================================================================
// READ TESTS
// =========================================================================

func TestProfileGetByHandle(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada", "ada@example.com")
	p := db.Profiles()
	createTestProfile(t, p, user.ID, "adal")

	found, err := p.GetByHandle(context.Background(), "adal")
	if err != nil {
		t.Fatalf("GetByHandle() error = %v", err)
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, user.ID)
	}
}

func TestProfileGetByHandle_NotFound(t *testing.T) {
	p := newTestDB(t).Profiles()

	_, err := p.GetByHandle(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByHandle() error = %v, want ErrNotFound", err)
	}
}

// Every profile read resolves the owner's live name and avatar via the join.
func TestProfileRead_ResolvesOwner(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada Lovelace", "ada@example.com")
	p := db.Profiles()
	createTestProfile(t, p, user.ID, "adal")

	found, err := p.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if found.Owner.Name != "Ada Lovelace" {
		t.Errorf("Owner.Name = %q, want %q", found.Owner.Name, "Ada Lovelace")
	}
	if found.Owner.Avatar != user.Avatar {
		t.Errorf("Owner.Avatar = %q, want %q", found.Owner.Avatar, user.Avatar)
	}
}

func TestProfileList(t *testing.T) {
	db := newTestDB(t)
	u, p := db.Users(), db.Profiles()

	for _, handle := range []string{"first", "second", "third"} {
		user := createTestUser(t, u, handle, handle+"@example.com")
		createTestProfile(t, p, user.ID, handle)
	}

	profiles, err := p.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("List() returned %d profiles, want 3", len(profiles))
	}
	// Newest first.
	if profiles[0].Handle != "third" {
		t.Errorf("List()[0].Handle = %q, want %q (newest first)", profiles[0].Handle, "third")
	}
}

func TestProfileList_Pagination(t *testing.T) {
	db := newTestDB(t)
	u, p := db.Users(), db.Profiles()

	for _, handle := range []string{"a", "bb", "cc", "dd"} {
		user := createTestUser(t, u, handle, handle+"@example.com")
		createTestProfile(t, p, user.ID, handle)
	}

	page, err := p.List(context.Background(), repository.ListOptions{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("List(limit=2, offset=1) returned %d profiles, want 2", len(page))
	}
	if page[0].Handle != "cc" {
		t.Errorf("page[0].Handle = %q, want %q", page[0].Handle, "cc")
	}
}

func TestProfileList_Empty(t *testing.T) {
	p := newTestDB(t).Profiles()

	profiles, err := p.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if profiles == nil {
		t.Error("List() returned nil, want empty slice")
	}
	if len(profiles) != 0 {
		t.Errorf("List() on empty table returned %d profiles", len(profiles))
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestProfileUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada", "ada@example.com")
	p := db.Profiles()
	profile := createTestProfile(t, p, user.ID, "adal")

	profile.Status = "Senior Developer"
	profile.Bio = "I wrote the first program."
	if err := p.Update(context.Background(), profile); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, _ := p.GetByUserID(context.Background(), user.ID)
	if found.Status != "Senior Developer" {
		t.Errorf("Status = %q, want the updated value", found.Status)
	}
	if found.Bio != "I wrote the first program." {
		t.Errorf("Bio = %q, want the updated value", found.Bio)
	}
}

func TestProfileUpdate_HandleConflict(t *testing.T) {
	db := newTestDB(t)
	u, p := db.Users(), db.Profiles()

	first := createTestUser(t, u, "First", "first@example.com")
	second := createTestUser(t, u, "Second", "second@example.com")
	createTestProfile(t, p, first.ID, "taken")
	mine := createTestProfile(t, p, second.ID, "mine")

	mine.Handle = "taken"
	err := p.Update(context.Background(), mine)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Update() error = %v, want ErrConflict when stealing a handle", err)
	}
}

func TestProfileUpdate_SameHandleIsFine(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada", "ada@example.com")
	p := db.Profiles()
	profile := createTestProfile(t, p, user.ID, "adal")

	// Re-asserting your own handle must not conflict with yourself.
	profile.Status = "Updated"
	if err := p.Update(context.Background(), profile); err != nil {
		t.Fatalf("Update() with own handle error = %v", err)
	}
}

// =========================================================================
// EXPERIENCE / EDUCATION TESTS
// =========================================================================

func TestProfileAddExperience_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada", "ada@example.com")
	p := db.Profiles()
	profile := createTestProfile(t, p, user.ID, "adal")

	for _, title := range []string{"Junior", "Mid", "Senior"} {
		if err := p.AddExperience(context.Background(), profile.ID, &model.Experience{
			Title: title, Company: "Acme", From: "2019",
		}); err != nil {
			t.Fatalf("AddExperience(%q) error = %v", title, err)
		}
	}

	found, err := p.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if len(found.Experience) != 3 {
		t.Fatalf("len(Experience) = %d, want 3", len(found.Experience))
	}
	if found.Experience[0].Title != "Senior" {
		t.Errorf("Experience[0].Title = %q, want %q (newest first)", found.Experience[0].Title, "Senior")
	}
}

func TestProfileRemoveExperience(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada", "ada@example.com")
	p := db.Profiles()
	profile := createTestProfile(t, p, user.ID, "adal")

	exp := &model.Experience{Title: "Engineer", Company: "Acme", From: "2019"}
	if err := p.AddExperience(context.Background(), profile.ID, exp); err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}

	if err := p.RemoveExperience(context.Background(), profile.ID, exp.ID); err != nil {
		t.Fatalf("RemoveExperience() error = %v", err)
	}

	found, _ := p.GetByUserID(context.Background(), user.ID)
	if len(found.Experience) != 0 {
		t.Errorf("len(Experience) after remove = %d, want 0", len(found.Experience))
	}
}

func TestProfileRemoveExperience_NotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada", "ada@example.com")
	p := db.Profiles()
	profile := createTestProfile(t, p, user.ID, "adal")

	err := p.RemoveExperience(context.Background(), profile.ID, "no-such-entry")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("RemoveExperience() error = %v, want ErrNotFound", err)
	}
}

// An entry ID only deletes off its own profile — guessing another user's
// entry ID must come back NotFound.
func TestProfileRemoveExperience_ScopedToProfile(t *testing.T) {
	db := newTestDB(t)
	u, p := db.Users(), db.Profiles()

	owner := createTestUser(t, u, "Owner", "owner@example.com")
	ownerProfile := createTestProfile(t, p, owner.ID, "owner")
	exp := &model.Experience{Title: "Engineer", Company: "Acme", From: "2019"}
	if err := p.AddExperience(context.Background(), ownerProfile.ID, exp); err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}

	other := createTestUser(t, u, "Other", "other@example.com")
	otherProfile := createTestProfile(t, p, other.ID, "other")

	err := p.RemoveExperience(context.Background(), otherProfile.ID, exp.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("RemoveExperience() across profiles error = %v, want ErrNotFound", err)
	}

	// The entry is still on the owner's profile.
	found, _ := p.GetByUserID(context.Background(), owner.ID)
	if len(found.Experience) != 1 {
		t.Errorf("owner's entry was deleted through another profile")
	}
}

func TestProfileAddRemoveEducation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "Ada", "ada@example.com")
	p := db.Profiles()
	profile := createTestProfile(t, p, user.ID, "adal")

	edu := &model.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2015"}
	if err := p.AddEducation(context.Background(), profile.ID, edu); err != nil {
		t.Fatalf("AddEducation() error = %v", err)
	}

	found, _ := p.GetByUserID(context.Background(), user.ID)
	if len(found.Education) != 1 || found.Education[0].School != "MIT" {
		t.Fatalf("Education = %v, want the MIT entry", found.Education)
	}

	if err := p.RemoveEducation(context.Background(), profile.ID, edu.ID); err != nil {
		t.Fatalf("RemoveEducation() error = %v", err)
	}

	found, _ = p.GetByUserID(context.Background(), user.ID)
	if len(found.Education) != 0 {
		t.Errorf("len(Education) after remove = %d, want 0", len(found.Education))
	}
}
