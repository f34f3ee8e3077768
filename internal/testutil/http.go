// internal/testutil/http.go
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/communa-dev/communa/internal/app/system/auth"
	"github.com/communa-dev/communa/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal builds an auth principal for a stored user.
func Principal(user models.User) *auth.Principal {
	return &auth.Principal{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Roles: user.Roles,
	}
}

// AdminPrincipal returns a SUPER_ADMIN principal with a fresh id.
func AdminPrincipal() *auth.Principal {
	return &auth.Principal{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Roles: []string{models.RoleSuperAdmin},
	}
}

// NewRequest creates a JSON request with an optional body.
func NewRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// NewAuthedRequest creates a JSON request with a principal in context,
// bypassing token verification.
func NewAuthedRequest(method, target, body string, p *auth.Principal) *http.Request {
	return auth.WithTestUser(NewRequest(method, target, body), p)
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}
