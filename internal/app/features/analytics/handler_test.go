package analytics_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/mealbridge/internal/app/features/analytics"
	"github.com/dalemusser/mealbridge/internal/testutil"
)

func TestDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	donor := f.CreateDonor(ctx, "Donor", "donor@example.com")
	ngo := f.CreateNGO(ctx, "NGO", "ngo@example.com")

	f.CreateDonation(ctx, "Open", donor.ID)
	f.CreateClaimedDonation(ctx, "Claimed", donor.ID, ngo.ID)
	f.CreateDeliveredDonation(ctx, "Done", donor.ID, ngo.ID)

	h := analytics.NewHandler(db, 5, 10, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/api/analytics/dashboard", testutil.NGOUser())
	rec := testutil.NewRecorder()

	h.Dashboard(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		TotalDonations  int64 `json:"totalDonations"`
		ActiveDonations int64 `json:"activeDonations"`
		TotalMealsSaved int64 `json:"totalMealsSaved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if got.TotalDonations != 3 {
		t.Errorf("totalDonations: got %d, want 3", got.TotalDonations)
	}
	if got.ActiveDonations != 1 {
		t.Errorf("activeDonations: got %d, want 1", got.ActiveDonations)
	}
	if got.TotalMealsSaved != 5 {
		t.Errorf("totalMealsSaved: got %d, want 5", got.TotalMealsSaved)
	}
}

func TestUserStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	donor := f.CreateDonor(ctx, "Donor", "donor@example.com")
	f.CreateDonation(ctx, "One", donor.ID)
	f.CreateDonation(ctx, "Two", donor.ID)

	h := analytics.NewHandler(db, 5, 10, zap.NewNop())

	user := testutil.ForUser(donor.ID, donor.FullName, donor.Email, donor.Role)
	req := testutil.NewAuthenticatedRequest("GET", "/api/analytics/user-stats", user)
	rec := testutil.NewRecorder()

	h.UserStats(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		DonationsCount int64 `json:"donationsCount"`
		ImpactScore    int64 `json:"impactScore"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if got.DonationsCount != 2 {
		t.Errorf("donationsCount: got %d, want 2", got.DonationsCount)
	}
	if got.ImpactScore != 20 {
		t.Errorf("impactScore: got %d, want 20", got.ImpactScore)
	}
}
