package bootstrap

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/domain/models"
	"github.com/dalemusser/mealbridge/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, "Admin@Test.com", "bootstrapPW1", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != status.RoleAdmin {
		t.Errorf("role: got %q, want %q", user.Role, status.RoleAdmin)
	}
	if user.Status != status.Active {
		t.Errorf("status: got %q, want %q", user.Status, status.Active)
	}
	if user.PasswordHash == "" || user.PasswordHash == "bootstrapPW1" {
		t.Error("password must be stored hashed")
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	existing := f.CreateDonor(ctx, "Future Admin", "promote@test.com")

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, "promote@test.com", "unusedPW", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.Role != status.RoleAdmin {
		t.Errorf("role: got %q, want %q", user.Role, status.RoleAdmin)
	}

	// The existing credentials stay untouched.
	if user.PasswordHash != existing.PasswordHash {
		t.Error("promotion must not change the password hash")
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, "admin@test.com", "bootstrapPW1", testLogger()); err != nil {
		t.Fatalf("first ensureAdmin failed: %v", err)
	}
	if err := ensureAdmin(ctx, deps, "admin@test.com", "differentPW2", testLogger()); err != nil {
		t.Fatalf("second ensureAdmin failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": "admin@test.com"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d admin users, want 1", n)
	}
}
