// internal/app/features/threads/routes.go
package threads

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListThreads)
	r.Post("/", h.HandleCreateThread)
	r.Get("/{id}", h.HandleGetThread)

	r.Route("/{id}/posts", func(pr chi.Router) {
		pr.Get("/", h.HandleListPosts)
		pr.Post("/", h.HandleCreatePost)
		pr.Put("/{postID}", h.HandleUpdatePost)
		pr.Delete("/{postID}", h.HandleDeletePost)
	})

	r.Route("/{id}/tasks", func(tr chi.Router) {
		tr.Get("/", h.HandleListTasks)
		tr.Post("/", h.HandleCreateTask)
		tr.Put("/{taskID}", h.HandleUpdateTask)
		tr.Delete("/{taskID}", h.HandleDeleteTask)
	})

	r.Get("/{id}/activity", h.HandleListActivity)

	return r
}
