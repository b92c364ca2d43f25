// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/mealbridge/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /api/analytics. Any
// signed-in role may read the counters.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/dashboard", h.Dashboard)
	r.Get("/user-stats", h.UserStats)

	return r
}
