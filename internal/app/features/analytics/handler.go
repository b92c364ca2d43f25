// internal/app/features/analytics/handler.go
package analytics

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	metricsstore "github.com/dalemusser/mealbridge/internal/app/store/metrics"
	"github.com/dalemusser/mealbridge/internal/app/system/authz"
	"github.com/dalemusser/mealbridge/internal/app/system/httpapi"
)

// Handler serves the donation counters shown on dashboards.
type Handler struct {
	DB                *mongo.Database
	MealsPerDelivery  int64
	ImpactPerDonation int64
	Log               *zap.Logger
}

// NewHandler constructs the analytics handler with the configured
// estimation multipliers.
func NewHandler(db *mongo.Database, mealsPerDelivery, impactPerDonation int64, logger *zap.Logger) *Handler {
	return &Handler{
		DB:                db,
		MealsPerDelivery:  mealsPerDelivery,
		ImpactPerDonation: impactPerDonation,
		Log:               logger,
	}
}

// Dashboard handles GET /api/analytics/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats := metricsstore.FetchDashboardStats(r.Context(), h.DB, h.MealsPerDelivery)
	httpapi.Respond(w, http.StatusOK, stats)
}

// UserStats handles GET /api/analytics/user-stats. Counts reflect the
// calling user's own donations.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	stats := metricsstore.FetchUserStats(r.Context(), h.DB, userID, h.ImpactPerDonation)
	httpapi.Respond(w, http.StatusOK, stats)
}
