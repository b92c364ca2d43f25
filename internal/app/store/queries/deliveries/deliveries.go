// Package deliveries provides queries over donations and assignments for
// the volunteer workflow.
//
// A donation becomes a delivery opportunity once an NGO has claimed it.
// It stays open until some volunteer creates an assignment for it; the
// unique index on assignments.donation_id guarantees at most one
// assignment ever exists per donation.
package deliveries

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/domain/models"
)

// ListOpenDeliveries returns claimed donations that no volunteer has
// picked up yet, newest first.
//
// The query performs:
//  1. Match donations with status CLAIMED
//  2. Lookup assignments on donation_id
//  3. Keep only donations whose lookup came back empty
func ListOpenDeliveries(ctx context.Context, db *mongo.Database) ([]models.Donation, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status": status.DonationClaimed,
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "assignments",
			"localField":   "_id",
			"foreignField": "donation_id",
			"as":           "assignments",
		}}},
		bson.D{{Key: "$match", Value: bson.M{
			"assignments": bson.M{"$size": 0},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"assignments": 0,
		}}},
		bson.D{{Key: "$sort", Value: bson.M{
			"created_at": -1,
		}}},
	}

	cur, err := db.Collection("donations").Aggregate(ctx, pipe)
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
