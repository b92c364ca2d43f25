package userstore

import (
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/mealbridge/internal/app/system/indexes"
	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/domain/models"
	"github.com/dalemusser/mealbridge/internal/testutil"
)

func TestCreateNormalizesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := New(db)

	created, err := s.Create(ctx, models.User{
		FullName:     "  Alice Donor  ",
		Email:        " Alice@Example.COM ",
		PasswordHash: "hash",
		Role:         "donor",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Email != "alice@example.com" {
		t.Errorf("email not normalized: got %q", created.Email)
	}
	if created.FullName != "Alice Donor" {
		t.Errorf("name not trimmed: got %q", created.FullName)
	}
	if created.Role != status.RoleDonor {
		t.Errorf("role not uppercased: got %q", created.Role)
	}
	if created.Status != status.Active {
		t.Errorf("default status: got %q, want %q", created.Status, status.Active)
	}
	if created.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateRejectsBadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := New(db)

	_, err := s.Create(ctx, models.User{
		FullName:     "Bad Role",
		Email:        "badrole@example.com",
		PasswordHash: "hash",
		Role:         "superuser",
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	s := New(db)

	first := models.User{
		FullName:     "First",
		Email:        "dup@example.com",
		PasswordHash: "hash",
		Role:         status.RoleDonor,
	}
	if _, err := s.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	second := models.User{
		FullName:     "Second",
		Email:        "DUP@example.com",
		PasswordHash: "hash",
		Role:         status.RoleNGO,
	}
	if _, err := s.Create(ctx, second); err != ErrDuplicateEmail {
		t.Errorf("Create second: got %v, want ErrDuplicateEmail", err)
	}
}

func TestGetByEmailCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	u := f.CreateNGO(ctx, "Food Bank", "bank@example.com")

	s := New(db)

	got, err := s.GetByEmail(ctx, "  BANK@Example.com ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("GetByEmail returned wrong user: got %s, want %s", got.ID.Hex(), u.ID.Hex())
	}

	if _, err := s.GetByEmail(ctx, "nobody@example.com"); err != mongo.ErrNoDocuments {
		t.Errorf("GetByEmail missing: got %v, want ErrNoDocuments", err)
	}
}

func TestEmailExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateDonor(ctx, "Donor", "exists@example.com")

	s := New(db)

	ok, err := s.EmailExists(ctx, "Exists@Example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !ok {
		t.Error("expected email to exist")
	}

	ok, err = s.EmailExists(ctx, "missing@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if ok {
		t.Error("expected email to be absent")
	}
}
