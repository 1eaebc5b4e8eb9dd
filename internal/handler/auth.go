package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"
	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/service"
	"github.com/sakif/devconnector/internal/validation"
)

// AuthHandler owns the /api/users routes: register, login, current user,
// and the optional GitHub OAuth flow.
type AuthHandler struct {
	authService *service.AuthService
	github      *auth.GitHubProvider // nil when GitHub login is not configured
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Pass a nil github provider to
// leave the OAuth routes unregistered.
func NewAuthHandler(authService *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		github:      github,
		logger:      logger,
	}
}

// HandleRegister creates an account.
//
// HTTP: POST /api/users/register {name, email, password, password2}
//
// 201 with {id, name, email, avatar} on success. The response is built from
// the Public view — the stored record (and above all the password hash)
// never leaves the server.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in validation.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Public())
}

// loginResponse is the body of a successful login.
type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// HandleLogin verifies credentials and issues an identity token.
//
// HTTP: POST /api/users/login {email, password}
//
// The token comes back bare; the client sends it as
// "Authorization: Bearer <token>".
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in validation.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: result.Token})
}

// HandleCurrent returns the authenticated user.
//
// HTTP: GET /api/users/current (behind the gate)
//
// The gate already resolved the token to a live user row; this handler just
// serializes the safe view of it.
func (h *AuthHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

// HandleGitHubLogin starts the OAuth flow: store a random CSRF state in a
// short-lived cookie and redirect the browser to GitHub.
//
// HTTP: GET /api/users/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: check the CSRF state,
// exchange the code for a GitHub profile, upsert the account, and return
// the same token shape a password login produces.
//
// HTTP: GET /api/users/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("github callback: state mismatch")
		writeError(w, apperror.Unauthenticated("invalid OAuth state"))
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.Unauthenticated("missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("github callback: exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Unauthenticated("GitHub login failed"))
		return
	}

	result, err := h.authService.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: result.Token})
}
