// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListAssignments)
	r.Post("/", h.HandleCreateAssignment)
	r.Get("/{id}", h.HandleGetAssignment)
	r.Put("/{id}", h.HandleUpdateAssignment)
	r.Delete("/{id}", h.HandleDeleteAssignment)

	r.Route("/{id}/submissions", func(sr chi.Router) {
		sr.Get("/", h.HandleListSubmissions)
		sr.Post("/", h.HandleSubmit)
		sr.Get("/me", h.HandleMySubmission)
		sr.Post("/{submissionID}/grade", h.HandleGrade)
	})

	return r
}
