package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/mealbridge/internal/app/system/status"
)

// DashboardStats is the set of platform-wide totals served to every
// signed-in user's dashboard.
type DashboardStats struct {
	TotalDonations  int64 `json:"totalDonations"`
	ActiveDonations int64 `json:"activeDonations"`
	TotalMealsSaved int64 `json:"totalMealsSaved"`
}

// UserStats summarizes a single donor's contribution.
type UserStats struct {
	DonationsCount int64 `json:"donationsCount"`
	ImpactScore    int64 `json:"impactScore"`
}

// FetchDashboardStats returns the high-level donation totals.
// Intentionally tolerant: on error it returns 0 for that counter.
// mealsPerDelivery converts delivered donations into estimated meals.
func FetchDashboardStats(ctx context.Context, db *mongo.Database, mealsPerDelivery int64) DashboardStats {
	var out DashboardStats

	donations := db.Collection("donations")

	if n, err := donations.CountDocuments(ctx, bson.M{}); err == nil {
		out.TotalDonations = n
	}

	if n, err := donations.CountDocuments(ctx, bson.M{"status": status.DonationAvailable}); err == nil {
		out.ActiveDonations = n
	}

	if n, err := donations.CountDocuments(ctx, bson.M{"status": status.DonationDelivered}); err == nil {
		out.TotalMealsSaved = n * mealsPerDelivery
	}

	return out
}

// FetchUserStats returns per-donor totals. impactPerDonation converts the
// donation count into an impact score.
func FetchUserStats(ctx context.Context, db *mongo.Database, donorID primitive.ObjectID, impactPerDonation int64) UserStats {
	var out UserStats

	if n, err := db.Collection("donations").CountDocuments(ctx, bson.M{"donor_id": donorID}); err == nil {
		out.DonationsCount = n
		out.ImpactScore = n * impactPerDonation
	}

	return out
}
