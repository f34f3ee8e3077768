// internal/app/features/authn/routes.go
package authn

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Login is the only unauthenticated endpoint in the API.
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(h.Tokens.RequireSignedIn)
		pr.Get("/me", h.HandleMe)
		pr.Get("/me/activity", h.HandleMyActivity)
	})

	return r
}
