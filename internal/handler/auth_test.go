package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/handler"
	"github.com/sakif/devconnector/internal/repository/sqlite"
	"github.com/sakif/devconnector/internal/service"
)

// authFixture is the wiring a handler test needs: the handler itself plus
// the token service and user store backing it, for minting and checking
// credentials directly.
type authFixture struct {
	handler *handler.AuthHandler
	tokens  *auth.TokenService
	users   *sqlite.UserDB
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	users := db.Users()
	authService := service.NewAuthService(users, tokens, auth.NewPasswordServiceForTest(4), logger)

	return &authFixture{
		handler: handler.NewAuthHandler(authService, nil, logger),
		tokens:  tokens,
		users:   users,
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

const registerBody = `{
	"name": "Ada Lovelace",
	"email": "ada@example.com",
	"password": "secret123",
	"password2": "secret123"
}`

func TestHandleRegister(t *testing.T) {
	t.Run("valid registration", func(t *testing.T) {
		fx := newAuthFixture(t)

		rr := postJSON(t, fx.handler.HandleRegister, registerBody)
		assert.Equal(t, http.StatusCreated, rr.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))

		assert.NotEmpty(t, body["id"])
		assert.Equal(t, "Ada Lovelace", body["name"])
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Contains(t, body["avatar"], "gravatar.com")

		// The hash must never appear in a response, under any key.
		for key := range body {
			assert.NotContains(t, key, "assword", "response leaks a password field: %s", key)
		}
	})

	t.Run("validation errors come back per field", func(t *testing.T) {
		fx := newAuthFixture(t)

		rr := postJSON(t, fx.handler.HandleRegister, `{"name":"A"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var body handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "validation_error", body.Error)
		assert.Contains(t, body.Fields, "name")
		assert.Contains(t, body.Fields, "email")
		assert.Contains(t, body.Fields, "password")
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		fx := newAuthFixture(t)

		first := postJSON(t, fx.handler.HandleRegister, registerBody)
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, fx.handler.HandleRegister, registerBody)
		assert.Equal(t, http.StatusConflict, second.Code)

		var body handler.ErrorResponse
		require.NoError(t, json.NewDecoder(second.Body).Decode(&body))
		assert.Equal(t, "conflict", body.Error)
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		fx := newAuthFixture(t)

		rr := postJSON(t, fx.handler.HandleRegister, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleLogin(t *testing.T) {
	t.Run("valid credentials issue a token", func(t *testing.T) {
		fx := newAuthFixture(t)
		require.Equal(t, http.StatusCreated,
			postJSON(t, fx.handler.HandleRegister, registerBody).Code)

		rr := postJSON(t, fx.handler.HandleLogin,
			`{"email":"ada@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.True(t, body.Success)
		require.NotEmpty(t, body.Token)

		// The token really identifies the registered account.
		claims, err := fx.tokens.Validate(body.Token)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", claims.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := newAuthFixture(t)
		require.Equal(t, http.StatusCreated,
			postJSON(t, fx.handler.HandleRegister, registerBody).Code)

		rr := postJSON(t, fx.handler.HandleLogin,
			`{"email":"ada@example.com","password":"wrong-password"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		fx := newAuthFixture(t)

		rr := postJSON(t, fx.handler.HandleLogin,
			`{"email":"nobody@example.com","password":"whatever1"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleCurrent(t *testing.T) {
	fx := newAuthFixture(t)
	require.Equal(t, http.StatusCreated,
		postJSON(t, fx.handler.HandleRegister, registerBody).Code)

	login := postJSON(t, fx.handler.HandleLogin,
		`{"email":"ada@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, login.Code)

	var loginBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(login.Body).Decode(&loginBody))

	// Mount the handler behind the same gate the router uses.
	protected := auth.RequireUser(fx.tokens, fx.users)(http.HandlerFunc(fx.handler.HandleCurrent))

	t.Run("with a valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
		req.Header.Set("Authorization", "Bearer "+loginBody.Token)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
	})

	t.Run("without a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
