// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListGroups)
	r.Post("/", h.HandleCreateGroup)
	r.Get("/mine", h.HandleMyMemberships)
	r.Get("/{id}", h.HandleGetGroup)
	r.Put("/{id}", h.HandleUpdateGroup)
	r.Delete("/{id}", h.HandleDeleteGroup)

	r.Route("/{id}/memberships", func(mr chi.Router) {
		mr.Get("/", h.HandleListMemberships)
		mr.Post("/", h.HandleJoinGroup)
		mr.Post("/{membershipID}/approve", h.HandleApproveMembership)
		mr.Post("/{membershipID}/reject", h.HandleRejectMembership)
	})

	return r
}
