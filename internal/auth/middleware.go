package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/devconnector/internal/model"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// current-user value — no collisions with other packages' context values.
type contextKey struct{}

var userKey contextKey

// UserResolver looks up a user by internal ID. Satisfied by
// repository.UserRepository; declared here so the gate depends on the one
// method it needs, not on the whole repository surface.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// RequireUser is the protected-route gate.
//
// It extracts the bearer token from the Authorization header, verifies it,
// and resolves the token's subject against the user store. The request
// proceeds only with a live, resolved user in its context; everything else —
// missing header, malformed scheme, bad signature, expiry, deleted account —
// fails closed with 401 before the handler body runs.
//
// WHY RESOLVE THE USER ON EVERY REQUEST?
// The token also carries name/avatar, so the gate could trust the token
// alone. But a token outlives account deletion (there is no revocation
// list), and protected mutations must not act for an identity that no
// longer exists. One indexed primary-key read per request buys that
// guarantee. The resolved user lives exactly as long as the request; there
// is no cross-request caching.
func RequireUser(tokens *TokenService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveUser(r, tokens, users)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthenticated","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user placed in the context by
// RequireUser. The second return is false on routes not behind the gate.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// resolveUser does header extraction, token verification, and identity
// resolution. Any failure means 401; the caller does not distinguish them
// (the log line in the repository layer is enough for debugging, and a
// uniform response leaks nothing to probing clients).
func resolveUser(r *http.Request, tokens *TokenService, users UserResolver) (*model.User, error) {
	header := r.Header.Get("Authorization")
	const scheme = "Bearer "
	if !strings.HasPrefix(header, scheme) {
		return nil, ErrInvalidToken
	}

	claims, err := tokens.Validate(strings.TrimPrefix(header, scheme))
	if err != nil {
		return nil, err
	}

	// Fail closed if the account behind the token is gone.
	user, err := users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		return nil, err
	}

	return user, nil
}
