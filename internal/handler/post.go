package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devconnector/internal/service"
)

// PostHandler owns the /api/posts routes.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// postInput is the body for creating posts and comments.
type postInput struct {
	Text string `json:"text"`
}

// HandleCreate publishes a post.
//
// HTTP: POST /api/posts {text} (gate)
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), user, in.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleList returns the feed, newest first.
//
// HTTP: GET /api/posts?limit=20&offset=0 (public)
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	posts, err := h.posts.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleGetByID returns one post.
//
// HTTP: GET /api/posts/{id} (public)
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post; author only.
//
// HTTP: DELETE /api/posts/{id} (gate)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleLike records a like and returns the refreshed post.
//
// HTTP: POST /api/posts/like/{id} (gate)
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	post, err := h.posts.Like(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleUnlike removes the caller's like.
//
// HTTP: POST /api/posts/unlike/{id} (gate)
func (h *PostHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	post, err := h.posts.Unlike(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleAddComment prepends a comment to a post.
//
// HTTP: POST /api/posts/comment/{id} {text} (gate)
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.AddComment(r.Context(), user, r.PathValue("id"), in.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleRemoveComment deletes a comment; comment author only.
//
// HTTP: DELETE /api/posts/comment/{id}/{commentID} (gate)
func (h *PostHandler) HandleRemoveComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	post, err := h.posts.RemoveComment(r.Context(), user.ID,
		r.PathValue("id"), r.PathValue("commentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
