package assignmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

var (
	// ErrDonationAssigned is returned when the donation already has an
	// assignment. Backed by the unique index on donation_id, so two
	// volunteers racing to claim the same delivery cannot both win.
	ErrDonationAssigned = errors.New("this delivery has already been claimed")

	// ErrIllegalTransition is returned for a status that is not the
	// single legal successor of any state (PENDING, or unknown).
	ErrIllegalTransition = errors.New("illegal assignment status transition")

	// ErrStaleTransition is returned when the conditional status update
	// matched no document: the assignment is missing, owned by another
	// volunteer, or not in the expected prior state. Callers that need
	// to distinguish these re-read the assignment.
	ErrStaleTransition = errors.New("assignment not in expected state")
)

// Create inserts a new PENDING assignment binding volunteerID to
// donationID. The insert is the concurrency control: the unique index on
// donation_id makes "at most one assignment per donation" hold even under
// racing claims, without a prior read.
func (s *Store) Create(ctx context.Context, donationID, volunteerID primitive.ObjectID) (models.Assignment, error) {
	now := time.Now().UTC()
	a := models.Assignment{
		ID:          primitive.NewObjectID(),
		VolunteerID: volunteerID,
		DonationID:  donationID,
		Status:      status.AssignmentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Assignment{}, ErrDonationAssigned
		}
		return models.Assignment{}, err
	}
	return a, nil
}

// GetByID returns a single assignment by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Assignment, error) {
	var a models.Assignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByDonation returns the assignment bound to a donation, if any.
func (s *Store) GetByDonation(ctx context.Context, donationID primitive.ObjectID) (*models.Assignment, error) {
	var a models.Assignment
	if err := s.c.FindOne(ctx, bson.M{"donation_id": donationID}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByVolunteer returns a volunteer's assignments, newest first.
func (s *Store) ListByVolunteer(ctx context.Context, volunteerID primitive.ObjectID) ([]models.Assignment, error) {
	cur, err := s.c.Find(ctx, bson.M{"volunteer_id": volunteerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Assignment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignedDonationIDs returns the donation ids that already have an
// assignment. Used to compute the claimed-but-unassigned delivery list.
func (s *Store) AssignedDonationIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	raw, err := s.c.Distinct(ctx, "donation_id", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	return ids, nil
}

// AdvanceStatus moves an assignment to the next lifecycle status for the
// owning volunteer.
//
// The legal predecessor of `to`, the owner, and the _id all sit in the
// update filter, so ownership and the monotone PENDING → IN_PROGRESS →
// COMPLETED order are enforced in the same compare-and-swap: a completed
// assignment can never move again, and a volunteer can never advance
// someone else's delivery, no matter how requests interleave.
func (s *Store) AdvanceStatus(ctx context.Context, id, volunteerID primitive.ObjectID, to string) (*models.Assignment, error) {
	prev, ok := status.AssignmentPredecessor(to)
	if !ok {
		return nil, ErrIllegalTransition
	}

	filter := bson.M{
		"_id":          id,
		"volunteer_id": volunteerID,
		"status":       prev,
	}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}}

	var a models.Assignment
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStaleTransition
		}
		return nil, err
	}
	return &a, nil
}
