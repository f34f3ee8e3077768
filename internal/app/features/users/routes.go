// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
)

// Routes are mounted behind the signed-in middleware in bootstrap;
// per-capability checks happen inside the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListUsers)
	r.Post("/", h.HandleCreateUser)
	r.Get("/{id}", h.HandleGetUser)
	r.Put("/{id}", h.HandleUpdateUser)
	r.Delete("/{id}", h.HandleDeleteUser)

	return r
}
