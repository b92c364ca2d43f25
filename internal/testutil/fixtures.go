package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtestha",
		Role:         role,
		Status:       status.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateDonor creates a test user with the DONOR role.
func (f *Fixtures) CreateDonor(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, status.RoleDonor)
}

// CreateNGO creates a test user with the NGO role.
func (f *Fixtures) CreateNGO(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, status.RoleNGO)
}

// CreateVolunteer creates a test user with the VOLUNTEER role.
func (f *Fixtures) CreateVolunteer(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, status.RoleVolunteer)
}

// CreateDisabledUser creates a test user whose account is disabled.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, email, status.RoleDonor)
	_, err := f.db.Collection("users").UpdateByID(ctx, user.ID,
		map[string]any{"$set": map[string]any{"status": status.Disabled}})
	if err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	user.Status = status.Disabled
	return user
}

// CreateDonation creates an available test donation owned by donorID.
func (f *Fixtures) CreateDonation(ctx context.Context, title string, donorID primitive.ObjectID) models.Donation {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Donation{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Description:   "Test donation description",
		Quantity:      "10 items",
		PickupAddress: "123 Test St",
		Status:        status.DonationAvailable,
		DonorID:       donorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := f.db.Collection("donations").InsertOne(ctx, d)
	if err != nil {
		f.t.Fatalf("failed to create test donation: %v", err)
	}

	return d
}

// CreateClaimedDonation creates a donation already claimed by ngoID.
func (f *Fixtures) CreateClaimedDonation(ctx context.Context, title string, donorID, ngoID primitive.ObjectID) models.Donation {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Donation{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Description:    "Test donation description",
		Quantity:       "10 items",
		PickupAddress:  "123 Test St",
		Status:         status.DonationClaimed,
		DonorID:        donorID,
		ClaimedByNgoID: &ngoID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := f.db.Collection("donations").InsertOne(ctx, d)
	if err != nil {
		f.t.Fatalf("failed to create claimed test donation: %v", err)
	}

	return d
}

// CreateDeliveredDonation creates a donation whose delivery is complete.
func (f *Fixtures) CreateDeliveredDonation(ctx context.Context, title string, donorID, ngoID primitive.ObjectID) models.Donation {
	f.t.Helper()

	d := f.CreateClaimedDonation(ctx, title, donorID, ngoID)
	_, err := f.db.Collection("donations").UpdateByID(ctx, d.ID,
		map[string]any{"$set": map[string]any{"status": status.DonationDelivered}})
	if err != nil {
		f.t.Fatalf("failed to mark test donation delivered: %v", err)
	}
	d.Status = status.DonationDelivered
	return d
}

// CreateAssignment creates a pending assignment linking a volunteer to a donation.
func (f *Fixtures) CreateAssignment(ctx context.Context, donationID, volunteerID primitive.ObjectID) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:          primitive.NewObjectID(),
		VolunteerID: volunteerID,
		DonationID:  donationID,
		Status:      status.AssignmentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("assignments").InsertOne(ctx, a)
	if err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}

	return a
}
