// internal/app/system/auth/auth.go

// Package auth issues and verifies the bearer tokens that identify every
// caller. A verified token becomes a Principal in the request context; the
// rest of the application never touches JWT directly.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/communa-dev/communa/internal/app/system/httpjson"
	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// Principal is the authenticated caller injected into request context.
type Principal struct {
	ID    string
	Name  string
	Roles []string
}

// HasRole reports whether the principal carries the given role name.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Claims is the JWT payload; Subject holds the user id.
type Claims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager creates a token manager. The secret must be a strong
// random string in production; expiry is how long issued tokens stay valid.
func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), expiry: expiry}
}

// Issue creates a signed token for the user.
func (m *TokenManager) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:  user.FullName,
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token string and returns the principal it carries.
func (m *TokenManager) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &Principal{ID: claims.Subject, Name: claims.Name, Roles: claims.Roles}, nil
}

type ctxKey string

const principalKey ctxKey = "principal"

// CurrentUser returns the principal and a "found?" flag.
func CurrentUser(r *http.Request) (*Principal, bool) {
	p, ok := r.Context().Value(principalKey).(*Principal)
	return p, ok
}

func withPrincipal(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, p))
}

// WithTestUser injects a principal directly, bypassing token verification.
// Handler tests use this instead of minting real tokens.
func WithTestUser(r *http.Request, p *Principal) *http.Request {
	return withPrincipal(r, p)
}

// RequireSignedIn verifies the Authorization bearer token and injects the
// principal into context. Missing or invalid tokens get a 401 envelope.
func (m *TokenManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Allow tests to pre-inject a principal.
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			httpjson.Error(w, nil, apierr.Wrap(apierr.Unauthorized, "authorization token required", ErrMissingToken))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpjson.Error(w, nil, apierr.Wrap(apierr.Unauthorized, "invalid authorization header", ErrInvalidToken))
			return
		}
		principal, err := m.Verify(parts[1])
		if err != nil {
			httpjson.Error(w, nil, apierr.Wrap(apierr.Unauthorized, "invalid or expired token", err))
			return
		}
		next.ServeHTTP(w, withPrincipal(r, principal))
	})
}
