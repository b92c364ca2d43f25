package donationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

var (
	// ErrClaimRejected is returned when a claim finds the donation already
	// claimed by someone else, or gone.
	ErrClaimRejected = errors.New("donation is no longer available")

	// ErrNotDeliverable is returned when marking a donation delivered but
	// it is not currently in the CLAIMED state.
	ErrNotDeliverable = errors.New("donation is not in a deliverable state")

	errMissingFields = errors.New("title, quantity, and pickup address are required")
)

// Create inserts a new donation for the given donor. Status always starts
// AVAILABLE with no claiming NGO, regardless of what the caller set.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	if d.Title == "" || d.Quantity == "" || d.PickupAddress == "" {
		return models.Donation{}, errMissingFields
	}

	d.ID = primitive.NewObjectID()
	d.Status = status.DonationAvailable
	d.ClaimedByNgoID = nil

	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

// GetByID returns a single donation by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var d models.Donation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Claim atomically transitions a donation AVAILABLE → CLAIMED for ngoID.
//
// The status predicate lives in the update filter, so the check and the
// write are a single compare-and-swap against the collection: when two
// NGOs race, exactly one update matches and the other caller gets
// ErrClaimRejected. The donation is never observable with status CLAIMED
// and no claiming NGO, or the reverse.
func (s *Store) Claim(ctx context.Context, id, ngoID primitive.ObjectID) (*models.Donation, error) {
	filter := bson.M{"_id": id, "status": status.DonationAvailable}
	update := bson.M{"$set": bson.M{
		"status":            status.DonationClaimed,
		"claimed_by_ngo_id": ngoID,
		"updated_at":        time.Now().UTC(),
	}}

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrClaimRejected
		}
		return nil, err
	}
	return &d, nil
}

// MarkDelivered transitions a donation CLAIMED → DELIVERED. Like Claim,
// the prior status is part of the filter; a donation that was never
// claimed (or is already delivered) is not touched.
func (s *Store) MarkDelivered(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	filter := bson.M{"_id": id, "status": status.DonationClaimed}
	update := bson.M{"$set": bson.M{
		"status":     status.DonationDelivered,
		"updated_at": time.Now().UTC(),
	}}

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotDeliverable
		}
		return nil, err
	}
	return &d, nil
}

// ListByDonor returns the donations created by one donor, newest first.
func (s *Store) ListByDonor(ctx context.Context, donorID primitive.ObjectID) ([]models.Donation, error) {
	return s.list(ctx, bson.M{"donor_id": donorID})
}

// ListAvailable returns donations still open to claims, newest first.
func (s *Store) ListAvailable(ctx context.Context) ([]models.Donation, error) {
	return s.list(ctx, bson.M{"status": status.DonationAvailable})
}

// ListByNgo returns the donations claimed by one NGO (claimed or
// delivered), newest first.
func (s *Store) ListByNgo(ctx context.Context, ngoID primitive.ObjectID) ([]models.Donation, error) {
	return s.list(ctx, bson.M{"claimed_by_ngo_id": ngoID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Donation, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Donation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
