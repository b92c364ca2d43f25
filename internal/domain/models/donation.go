// internal/domain/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation is a listed quantity of surplus food offered by a donor.
//
// Invariant: ClaimedByNgoID is set if and only if Status is CLAIMED or
// DELIVERED. Status and ClaimedByNgoID are mutated only through the
// conditional updates in donationstore, so the pair is never observed
// half-written.
type Donation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Quantity      string             `bson:"quantity" json:"quantity"` // free text, e.g. "10 items"
	PickupAddress string             `bson:"pickup_address" json:"pickupAddress"`
	Status        string             `bson:"status" json:"status"` // AVAILABLE | CLAIMED | DELIVERED

	DonorID        primitive.ObjectID  `bson:"donor_id" json:"donorId"`
	ClaimedByNgoID *primitive.ObjectID `bson:"claimed_by_ngo_id,omitempty" json:"claimedByNgoId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsClaimed reports whether the donation has been claimed by an NGO and
// not yet delivered.
func (d *Donation) IsClaimed() bool {
	return d.Status == "CLAIMED"
}
