// internal/app/features/content/routes.go
package content

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/eduhub/internal/app/system/auth"
)

// Routes returns a subrouter serving the content endpoints, mounted under
// /api/content. Reads are public; writes require an admin token.
func Routes(h *Handler, tokens *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAdmin)
		r.Post("/", h.Create)
		r.Post("/upload", h.Upload)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
