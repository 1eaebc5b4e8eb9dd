package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
	"github.com/sakif/devconnector/internal/validation"
)

// Default pagination for public listings.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ProfileService handles profile upserts, public reads, the experience and
// education sub-collections, and account deletion.
type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		logger:   logger,
	}
}

// Upsert creates the caller's profile on first POST and merges into it on
// every later one.
//
// MERGE SEMANTICS:
// Supplied fields replace the stored values; fields the request leaves
// empty keep theirs. The required fields (handle, status, skills) are always
// supplied — validation guarantees it — so "merge" only applies to the
// optional descriptive fields and social links.
//
// The handle must not belong to another user. On create the check rides the
// UNIQUE constraint; on update, changing the handle to someone else's fails
// the same way. Re-asserting your own handle is fine.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in validation.ProfileInput) (*model.Profile, error) {
	if errs := validation.Profile(in); len(errs) > 0 {
		return nil, apperror.ValidationMap(errs)
	}

	handle := strings.TrimSpace(in.Handle)

	existing, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/profile: loading profile for user %s: %w", userID, err)
	}

	if existing == nil {
		profile := &model.Profile{
			UserID: userID,
			Handle: handle,
			Status: strings.TrimSpace(in.Status),
			Skills: validation.SplitSkills(in.Skills),
		}
		applyOptionalFields(profile, in)

		if err := s.profiles.Create(ctx, profile); err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				return nil, err
			}
			return nil, fmt.Errorf("service/profile: creating profile for user %s: %w", userID, err)
		}

		s.logger.Info("profile created",
			slog.String("userID", userID),
			slog.String("handle", profile.Handle),
		)
		return s.profiles.GetByUserID(ctx, userID)
	}

	existing.Handle = handle
	existing.Status = strings.TrimSpace(in.Status)
	existing.Skills = validation.SplitSkills(in.Skills)
	applyOptionalFields(existing, in)

	if err := s.profiles.Update(ctx, existing); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/profile: updating profile for user %s: %w", userID, err)
	}

	s.logger.Info("profile updated", slog.String("userID", userID))
	return s.profiles.GetByUserID(ctx, userID)
}

// applyOptionalFields merges the optional fields: only non-empty request
// values overwrite the stored ones.
func applyOptionalFields(p *model.Profile, in validation.ProfileInput) {
	setIfPresent(&p.Company, in.Company)
	setIfPresent(&p.Website, in.Website)
	setIfPresent(&p.Location, in.Location)
	setIfPresent(&p.Bio, in.Bio)
	setIfPresent(&p.GitHubUsername, in.GitHubUsername)
	setIfPresent(&p.Social.YouTube, in.YouTube)
	setIfPresent(&p.Social.Twitter, in.Twitter)
	setIfPresent(&p.Social.Facebook, in.Facebook)
	setIfPresent(&p.Social.LinkedIn, in.LinkedIn)
	setIfPresent(&p.Social.Instagram, in.Instagram)
}

func setIfPresent(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

// GetOwn returns the caller's profile, NotFound if they haven't created one.
func (s *ProfileService) GetOwn(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "there is no profile for this user"}
		}
		return nil, fmt.Errorf("service/profile: loading profile for user %s: %w", userID, err)
	}
	return profile, nil
}

// GetByHandle returns the profile published under a handle. Public.
func (s *ProfileService) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	profile, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "there is no profile with this handle"}
		}
		return nil, fmt.Errorf("service/profile: loading profile %q: %w", handle, err)
	}
	return profile, nil
}

// GetByUserID returns a user's profile by their ID. Public.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "there is no profile for this user"}
		}
		return nil, fmt.Errorf("service/profile: loading profile for user %s: %w", userID, err)
	}
	return profile, nil
}

// List returns all profiles, newest first.
func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	profiles, err := s.profiles.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("service/profile: listing profiles: %w", err)
	}
	return profiles, nil
}

// AddExperience validates and prepends a work-history entry to the caller's
// profile, returning the refreshed profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, in validation.ExperienceInput) (*model.Profile, error) {
	if errs := validation.Experience(in); len(errs) > 0 {
		return nil, apperror.ValidationMap(errs)
	}

	profile, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	exp := &model.Experience{
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        strings.TrimSpace(in.From),
		To:          strings.TrimSpace(in.To),
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.profiles.AddExperience(ctx, profile.ID, exp); err != nil {
		return nil, fmt.Errorf("service/profile: adding experience for user %s: %w", userID, err)
	}

	return s.profiles.GetByUserID(ctx, userID)
}

// RemoveExperience deletes one entry by ID; NotFound if it isn't on the
// caller's profile.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*model.Profile, error) {
	profile, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.RemoveExperience(ctx, profile.ID, expID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/profile: removing experience %s: %w", expID, err)
	}

	return s.profiles.GetByUserID(ctx, userID)
}

// AddEducation validates and prepends a schooling entry.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, in validation.EducationInput) (*model.Profile, error) {
	if errs := validation.Education(in); len(errs) > 0 {
		return nil, apperror.ValidationMap(errs)
	}

	profile, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	edu := &model.Education{
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         strings.TrimSpace(in.From),
		To:           strings.TrimSpace(in.To),
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	}
	if err := s.profiles.AddEducation(ctx, profile.ID, edu); err != nil {
		return nil, fmt.Errorf("service/profile: adding education for user %s: %w", userID, err)
	}

	return s.profiles.GetByUserID(ctx, userID)
}

// RemoveEducation deletes one education entry by ID.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*model.Profile, error) {
	profile, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.RemoveEducation(ctx, profile.ID, eduID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/profile: removing education %s: %w", eduID, err)
	}

	return s.profiles.GetByUserID(ctx, userID)
}

// DeleteAccount removes the caller's user record; the profile and its
// entries cascade at the store level. Posts are left in place with their
// author snapshots — the feed keeps rendering them.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("service/profile: deleting account %s: %w", userID, err)
	}
	s.logger.Info("account deleted", slog.String("userID", userID))
	return nil
}
