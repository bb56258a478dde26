// internal/app/features/browse/routes.go
package browse

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter serving the discovery endpoints, mounted
// under /api.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.Stats)
	r.Get("/structure", h.Structure)
	r.Get("/semesters/{semester}/subjects", h.Subjects)
	r.Get("/semesters/{semester}/subjects/{subject}/categories", h.Categories)
	return r
}
