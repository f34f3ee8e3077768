// internal/app/features/courses/routes.go
package courses

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListCourses)
	r.Post("/", h.HandleCreateCourse)
	r.Get("/{id}", h.HandleGetCourse)
	r.Put("/{id}", h.HandleUpdateCourse)
	r.Delete("/{id}", h.HandleDeleteCourse)

	r.Route("/{id}/meetings", func(mr chi.Router) {
		mr.Get("/", h.HandleListMeetings)
		mr.Post("/", h.HandleCreateMeeting)
		mr.Put("/{meetingID}", h.HandleUpdateMeeting)
		mr.Delete("/{meetingID}", h.HandleDeleteMeeting)
	})

	return r
}
