package deliveries

import (
	"testing"

	"github.com/dalemusser/mealbridge/internal/testutil"
)

func TestListOpenDeliveries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	donor := f.CreateDonor(ctx, "Donor", "donor@example.com")
	ngo := f.CreateNGO(ctx, "NGO", "ngo@example.com")
	vol := f.CreateVolunteer(ctx, "Vol", "vol@example.com")

	// Still available: not a delivery opportunity yet.
	f.CreateDonation(ctx, "Available", donor.ID)

	// Claimed with no volunteer: open.
	open := f.CreateClaimedDonation(ctx, "Open", donor.ID, ngo.ID)

	// Claimed but a volunteer already took it: not open.
	taken := f.CreateClaimedDonation(ctx, "Taken", donor.ID, ngo.ID)
	f.CreateAssignment(ctx, taken.ID, vol.ID)

	// Already delivered: not open.
	f.CreateDeliveredDonation(ctx, "Done", donor.ID, ngo.ID)

	got, err := ListOpenDeliveries(ctx, db)
	if err != nil {
		t.Fatalf("ListOpenDeliveries: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d open deliveries, want 1", len(got))
	}
	if got[0].ID != open.ID {
		t.Errorf("got donation %s, want %s", got[0].ID.Hex(), open.ID.Hex())
	}
}

func TestListOpenDeliveriesEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := ListOpenDeliveries(ctx, db)
	if err != nil {
		t.Fatalf("ListOpenDeliveries: %v", err)
	}
	if got == nil {
		t.Error("result must be non-nil even when empty")
	}
	if len(got) != 0 {
		t.Errorf("got %d deliveries, want 0", len(got))
	}
}
