// internal/app/features/privatefiles/routes.go
package privatefiles

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListFiles)
	r.Post("/", h.HandleCreateFile)
	r.Put("/{id}", h.HandleRenameFile)
	r.Delete("/{id}", h.HandleDeleteFile)

	return r
}
