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

// PostService handles the feed: posts, likes, and comments.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, logger: logger}
}

// Create publishes a post for the author.
//
// The author's name and avatar are stamped onto the post at this moment and
// never updated afterwards — the feed shows the author as they were when
// they posted. The author argument is the gate-resolved user, so the
// snapshot can't be spoofed by the request body.
func (s *PostService) Create(ctx context.Context, author *model.User, text string) (*model.Post, error) {
	if errs := validation.Post(text); len(errs) > 0 {
		return nil, apperror.ValidationMap(errs)
	}

	post := &model.Post{
		UserID: author.ID,
		Text:   strings.TrimSpace(text),
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("userID", author.ID),
	)
	return post, nil
}

// List returns the feed, newest first.
func (s *PostService) List(ctx context.Context, limit, offset int) ([]model.Post, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.posts.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	return posts, nil
}

// GetByID returns one post with its likes and comments.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/post: getting post %s: %w", id, err)
	}
	return post, nil
}

// Delete removes a post. Only its author may: anyone else gets Forbidden,
// checked against the stored post's author id, not anything the client sent.
func (s *PostService) Delete(ctx context.Context, requesterID, postID string) error {
	post, err := s.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != requesterID {
		return apperror.Forbidden("only the author can delete a post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("service/post: deleting post %s: %w", postID, err)
	}

	s.logger.Info("post deleted",
		slog.String("postID", postID),
		slog.String("userID", requesterID),
	)
	return nil
}

// Like records the user's like and returns the refreshed post. A second
// like from the same user is Conflict.
func (s *PostService) Like(ctx context.Context, userID, postID string) (*model.Post, error) {
	// Surface NotFound for a missing post before the like insert tries to
	// satisfy its foreign key.
	if _, err := s.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/post: liking post %s: %w", postID, err)
	}

	return s.GetByID(ctx, postID)
}

// Unlike removes the user's like; NotFound if they hadn't liked the post.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) (*model.Post, error) {
	if _, err := s.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "you have not liked this post"}
		}
		return nil, fmt.Errorf("service/post: unliking post %s: %w", postID, err)
	}

	return s.GetByID(ctx, postID)
}

// AddComment validates and prepends a comment, stamped with the commenter's
// display snapshot, and returns the refreshed post.
func (s *PostService) AddComment(ctx context.Context, author *model.User, postID, text string) (*model.Post, error) {
	if errs := validation.Post(text); len(errs) > 0 {
		return nil, apperror.ValidationMap(errs)
	}

	if _, err := s.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID: author.ID,
		Text:   strings.TrimSpace(text),
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, fmt.Errorf("service/post: commenting on post %s: %w", postID, err)
	}

	return s.GetByID(ctx, postID)
}

// RemoveComment deletes a comment off a post. Only the comment's author may;
// a missing comment is NotFound.
func (s *PostService) RemoveComment(ctx context.Context, requesterID, postID, commentID string) (*model.Post, error) {
	comment, err := s.posts.GetComment(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/post: loading comment %s: %w", commentID, err)
	}

	if comment.UserID != requesterID {
		return nil, apperror.Forbidden("only the author can delete a comment")
	}

	if err := s.posts.RemoveComment(ctx, postID, commentID); err != nil {
		return nil, fmt.Errorf("service/post: removing comment %s: %w", commentID, err)
	}

	return s.GetByID(ctx, postID)
}
