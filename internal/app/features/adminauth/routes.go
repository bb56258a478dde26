// internal/app/features/adminauth/routes.go
package adminauth

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/eduhub/internal/app/system/auth"
)

// Routes returns a subrouter serving the admin account endpoints,
// mounted under /api/admin.
func Routes(h *Handler, tokens *auth.Manager) chi.Router {
	r := chi.NewRouter()
	r.Post("/setup", h.Setup)
	r.Post("/login", h.Login)
	r.With(tokens.RequireAdmin).Get("/verify", h.Verify)
	return r
}
