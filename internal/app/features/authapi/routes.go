// internal/app/features/authapi/routes.go
package authapi

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/mealbridge/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/auth.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(sm.RequireSignedIn).Get("/profile", h.Profile)
	return r
}
