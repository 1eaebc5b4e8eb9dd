// Package service contains the business logic layer.
//
// Handlers parse HTTP and delegate here; this layer validates, enforces the
// rules, and talks to the repositories. It returns domain errors
// (apperror.*) and never sees a status code or an http.Request.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
	"github.com/sakif/devconnector/internal/validation"
)

// AuthService handles registration and login.
//
// Dependencies (injected in server.go):
//   - users      repository.UserRepository  → account records
//   - tokens     *auth.TokenService         → sign/verify identity tokens
//   - passwords  *auth.PasswordService      → bcrypt hashing
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record with the token issued for it.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// Validation failures come back as one per-field map (apperror.ErrValidation)
// so the client can annotate its whole form in one round trip. A duplicate
// email is Conflict. The stored record carries a bcrypt hash and a gravatar
// URL derived from the email; the caller gets the user back but the hash
// never serializes (json:"-").
func (s *AuthService) Register(ctx context.Context, in validation.RegisterInput) (*model.User, error) {
	if errs := validation.Register(in); len(errs) > 0 {
		return nil, apperror.ValidationMap(errs)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Avatar:       auth.GravatarURL(email),
		PasswordHash: hash,
	}

	// The repository maps the email UNIQUE violation to Conflict, so the
	// existence check and the insert are one atomic operation — no window
	// for two concurrent registrations of the same address.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies credentials and issues an identity token.
//
// Unknown email is NotFound; wrong password is Unauthenticated. The bcrypt
// comparison is constant-time inside the library. On success the token
// embeds the user's ID plus name/avatar display hints; nothing is persisted.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*AuthResult, error) {
	if errs := validation.Login(in); len(errs) > 0 {
		return nil, apperror.ValidationMap(errs)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user", in.Email)
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	// GitHub-only accounts have no hash; they cannot log in with a password.
	if user.PasswordHash == "" {
		return nil, apperror.Unauthenticated("password incorrect")
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.Unauthenticated("password incorrect")
		}
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Name, user.Avatar)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback: upsert the
// account keyed by GitHub ID, then issue the same identity token a password
// login would. First login creates the account (gravatar is skipped —
// GitHub supplies a real avatar URL).
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		GitHubID: ghUser.ID,
		Name:     ghUser.DisplayName(),
		Email:    strings.ToLower(ghUser.Email),
		Avatar:   ghUser.AvatarURL,
	}

	if err := s.users.UpsertGitHub(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.Int64("githubID", ghUser.ID),
	)

	token, err := s.tokens.Generate(user.ID, user.Name, user.Avatar)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
