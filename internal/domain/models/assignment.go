// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment is a delivery task binding one volunteer to one claimed
// donation. At most one assignment exists per donation; the assignments
// collection carries a unique index on donation_id to enforce this.
//
// Status advances monotonically PENDING → IN_PROGRESS → COMPLETED and is
// mutated only by the assigned volunteer through assignmentstore.
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VolunteerID primitive.ObjectID `bson:"volunteer_id" json:"volunteerId"`
	DonationID  primitive.ObjectID `bson:"donation_id" json:"donationId"`
	Status      string             `bson:"status" json:"status"` // PENDING | IN_PROGRESS | COMPLETED

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
