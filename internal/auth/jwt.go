// Package auth provides identity tokens, password hashing, the request gate,
// and the GitHub OAuth provider.
//
// AUTHENTICATION FLOW:
//  1. Client POSTs email/password to /api/users/login
//  2. Server verifies the password against the stored bcrypt hash and issues
//     a signed JWT carrying {sub: userID, name, avatar, iat, exp}
//  3. Client stores the token and sends it on every protected request as
//     "Authorization: Bearer <token>"
//  4. The RequireUser middleware verifies the signature and expiry, resolves
//     the subject against the user store, and puts the user in the request
//     context for the handler
//
// The token is self-contained — the server keeps no session table, so a
// token stays valid until it expires. There is no revocation list.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "devconnector"

// ErrInvalidToken is returned by Validate for any token that fails
// verification: bad signature, wrong algorithm, expired, malformed.
// Callers that need to distinguish expiry can check ErrTokenExpired.
var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: token expired")
)

// TokenService signs and verifies identity tokens.
//
// It holds the process-wide HMAC secret and the token lifetime. The same
// secret must be used for signing and verification; it is injected from
// config at startup and read-only afterwards.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService.
// The secret should be at least 32 bytes of random data in production;
// anything under 16 characters is rejected outright.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Claims is the token payload: the standard registered claims plus the
// author's display identity.
//
// Name and Avatar are denormalized for the SPA's benefit (render the navbar
// without a round trip). They can go stale if the account is later edited;
// protected endpoints never trust them — the gate re-resolves the user row
// from the subject claim on every request.
type Claims struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Generate signs a new identity token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, one secret for both
// sign and verify. "sub" carries the internal user ID.
func (s *TokenService) Generate(userID, name, avatar string) (string, error) {
	return s.generate(userID, name, avatar, s.ttl)
}

// GenerateWithDuration signs a token with a caller-chosen lifetime.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID, name, avatar string, d time.Duration) (string, error) {
	return s.generate(userID, name, avatar, d)
}

func (s *TokenService) generate(userID, name, avatar string, d time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("auth: userID must not be empty")
	}

	now := time.Now()
	c := Claims{
		Name:   name,
		Avatar: avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns its claims.
//
// Checks performed (mostly by the jwt library):
//   - signature is valid for our secret
//   - algorithm is HS256 (jwt.WithValidMethods blocks algorithm-confusion
//     tokens, including "none")
//   - token carries an expiry and it is in the future
//   - issuer matches ours (tokens from other apps sharing a secret by
//     accident are rejected)
//
// Verification is pure — same token, same outcome, no side effects — so
// repeated validation of a valid token within its window always yields the
// same identity.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}

	return c, nil
}
