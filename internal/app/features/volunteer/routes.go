// internal/app/features/volunteer/routes.go
package volunteer

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/mealbridge/internal/app/system/auth"
	"github.com/dalemusser/mealbridge/internal/app/system/status"
)

// Routes returns the subrouter mounted under /api/volunteer. Every
// endpoint requires the VOLUNTEER role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(status.RoleVolunteer))

	r.Get("/available-assignments", h.AvailableAssignments)
	r.Post("/assignment/{donationID}/claim", h.ClaimAssignment)
	r.Get("/my-assignments", h.MyAssignments)
	r.Post("/assignment/{assignmentID}/status", h.UpdateStatus)

	return r
}
