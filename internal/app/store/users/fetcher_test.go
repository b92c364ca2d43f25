package userstore

import (
	"testing"

	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/testutil"
)

func TestFetchSessionUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	active := f.CreateVolunteer(ctx, "Active Volunteer", "active@example.com")
	disabled := f.CreateDisabledUser(ctx, "Disabled User", "disabled@example.com")

	fetcher := NewFetcher(db)

	t.Run("active user", func(t *testing.T) {
		su, err := fetcher.FetchSessionUser(ctx, active.ID.Hex())
		if err != nil {
			t.Fatalf("FetchSessionUser: %v", err)
		}
		if su == nil {
			t.Fatal("expected session user, got nil")
		}
		if su.ID != active.ID.Hex() {
			t.Errorf("ID: got %q, want %q", su.ID, active.ID.Hex())
		}
		if su.Role != status.RoleVolunteer {
			t.Errorf("Role: got %q, want %q", su.Role, status.RoleVolunteer)
		}
		if su.Email != "active@example.com" {
			t.Errorf("Email: got %q", su.Email)
		}
	})

	t.Run("disabled user yields no session", func(t *testing.T) {
		su, err := fetcher.FetchSessionUser(ctx, disabled.ID.Hex())
		if err != nil {
			t.Fatalf("FetchSessionUser: %v", err)
		}
		if su != nil {
			t.Errorf("expected nil session user for disabled account, got %+v", su)
		}
	})

	t.Run("malformed id yields no session", func(t *testing.T) {
		su, err := fetcher.FetchSessionUser(ctx, "not-a-hex-id")
		if err != nil {
			t.Fatalf("FetchSessionUser: %v", err)
		}
		if su != nil {
			t.Errorf("expected nil session user for malformed id, got %+v", su)
		}
	})

	t.Run("unknown id yields no session", func(t *testing.T) {
		su, err := fetcher.FetchSessionUser(ctx, "64b000000000000000000000")
		if err != nil {
			t.Fatalf("FetchSessionUser: %v", err)
		}
		if su != nil {
			t.Errorf("expected nil session user for unknown id, got %+v", su)
		}
	})
}
