// internal/app/features/refdata/routes.go
package refdata

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/terms", func(tr chi.Router) {
		tr.Get("/", h.HandleListTerms)
		tr.Post("/", h.HandleCreateTerm)
		tr.Delete("/{id}", h.HandleDeleteTerm)
	})

	r.Route("/faculties", func(fr chi.Router) {
		fr.Get("/", h.HandleListFaculties)
		fr.Post("/", h.HandleCreateFaculty)
		fr.Delete("/{id}", h.HandleDeleteFaculty)
	})

	r.Route("/majors", func(mr chi.Router) {
		mr.Get("/", h.HandleListMajors)
		mr.Post("/", h.HandleCreateMajor)
		mr.Delete("/{id}", h.HandleDeleteMajor)
	})

	return r
}
