// internal/app/features/donations/routes.go
package donations

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/mealbridge/internal/app/system/auth"
	"github.com/dalemusser/mealbridge/internal/app/system/status"
)

// Routes returns the subrouter mounted under /api/donations. Role gates
// are enforced here, per route, rather than inside the handlers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.With(sm.RequireRole(status.RoleDonor)).Post("/", h.Create)
	r.With(sm.RequireRole(status.RoleDonor)).Get("/my-donations", h.MyDonations)
	r.With(sm.RequireSignedIn).Get("/available", h.Available)
	r.With(sm.RequireRole(status.RoleNGO)).Post("/{donationID}/claim", h.Claim)
	r.With(sm.RequireRole(status.RoleNGO)).Get("/ngo/my-donations", h.NgoDonations)

	return r
}
