// Package repository declares the storage interfaces the service layer
// programs against. The concrete implementation lives in repository/sqlite;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/devconnector/internal/model"
)

// ListOptions paginate list reads.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository stores account records.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict if the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns apperror.ErrNotFound if no user exists with that ID.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByEmail returns apperror.ErrNotFound if the email is unknown.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpsertGitHub inserts or updates a user keyed by GitHub ID, filling in
	// the record's internal ID on return.
	UpsertGitHub(ctx context.Context, user *model.User) error

	// Delete removes the user. The profile goes with it (FK cascade);
	// posts do not.
	Delete(ctx context.Context, id string) error
}

// ProfileRepository stores profiles and their experience/education entries.
// Reads return the profile with both entry lists and the owner's display
// identity populated.
type ProfileRepository interface {
	// Create inserts a profile. Returns apperror.ErrConflict if the handle
	// is taken.
	Create(ctx context.Context, profile *model.Profile) error

	// Update overwrites the profile's scalar fields. The caller (service)
	// performs the read-merge; unsupplied fields keep their loaded values.
	Update(ctx context.Context, profile *model.Profile) error

	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*model.Profile, error)
	List(ctx context.Context, opts ListOptions) ([]model.Profile, error)

	// AddExperience/AddEducation insert a new entry for the profile.
	// Remove* return apperror.ErrNotFound if the entry does not exist on
	// that profile.
	AddExperience(ctx context.Context, profileID string, exp *model.Experience) error
	RemoveExperience(ctx context.Context, profileID, expID string) error
	AddEducation(ctx context.Context, profileID string, edu *model.Education) error
	RemoveEducation(ctx context.Context, profileID, eduID string) error
}

// PostRepository stores posts, likes, and comments. Post reads come back
// with likes and comments populated, newest first.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, opts ListOptions) ([]model.Post, error)
	Delete(ctx context.Context, id string) error

	// AddLike returns apperror.ErrConflict if this user already liked the
	// post; RemoveLike returns apperror.ErrNotFound if they hadn't.
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error

	AddComment(ctx context.Context, postID string, comment *model.Comment) error

	// GetComment returns apperror.ErrNotFound if the comment is not on the
	// post. RemoveComment has the same not-found contract.
	GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error)
	RemoveComment(ctx context.Context, postID, commentID string) error
}
