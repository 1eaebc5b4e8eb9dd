package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/service"
	"github.com/sakif/devconnector/internal/validation"
)

// ProfileHandler owns the /api/profile routes.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// currentUser pulls the gate-resolved user out of the context. Handlers on
// protected routes can rely on it; the fallback 401 only fires if a route
// was wired without the gate by mistake.
func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return nil, false
	}
	return user, true
}

// HandleGetOwn returns the caller's profile.
//
// HTTP: GET /api/profile (gate)
func (h *ProfileHandler) HandleGetOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetOwn(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleUpsert creates or updates the caller's profile.
//
// HTTP: POST /api/profile {handle, status, skills, ...}
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in validation.ProfileInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleList returns all profiles.
//
// HTTP: GET /api/profile/all?limit=20&offset=0 (public)
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	profiles, err := h.profiles.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HandleGetByHandle returns the profile published under a handle.
//
// HTTP: GET /api/profile/handle/{handle} (public)
func (h *ProfileHandler) HandleGetByHandle(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")

	profile, err := h.profiles.GetByHandle(r.Context(), handle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleGetByUserID returns a user's profile by their ID.
//
// HTTP: GET /api/profile/user/{userID} (public)
func (h *ProfileHandler) HandleGetByUserID(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	profile, err := h.profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleAddExperience prepends a work-history entry.
//
// HTTP: POST /api/profile/experience (gate)
func (h *ProfileHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in validation.ExperienceInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.AddExperience(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleRemoveExperience deletes a work-history entry by ID.
//
// HTTP: DELETE /api/profile/experience/{id} (gate)
func (h *ProfileHandler) HandleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.RemoveExperience(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleAddEducation prepends a schooling entry.
//
// HTTP: POST /api/profile/education (gate)
func (h *ProfileHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in validation.EducationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.AddEducation(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleRemoveEducation deletes a schooling entry by ID.
//
// HTTP: DELETE /api/profile/education/{id} (gate)
func (h *ProfileHandler) HandleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.RemoveEducation(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteAccount removes the caller's account and profile.
//
// HTTP: DELETE /api/profile (gate)
func (h *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.profiles.DeleteAccount(r.Context(), user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// parsePagination reads limit/offset query params, leaving zeros for the
// service defaults when absent or malformed.
func parsePagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
