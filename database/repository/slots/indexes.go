// FILE: database/repository/slots/indexes.go
package slotsRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the slot collections rely on. The unique
// (artist_id, weekday) index backs the one-template-per-weekday rule.
func (r *MongoSlotRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	uniqueID := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	}
	artistRange := mongo.IndexModel{
		Keys:    bson.D{{Key: "artist_id", Value: 1}, {Key: "start_at", Value: 1}, {Key: "end_at", Value: 1}},
		Options: options.Index().SetName("artist_start_end_idx"),
	}

	plan := map[*mongo.Collection][]mongo.IndexModel{
		r.templates: {
			uniqueID,
			{
				Keys:    bson.D{{Key: "artist_id", Value: 1}, {Key: "weekday", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("artist_weekday_unique"),
			},
		},
		r.overrides: {uniqueID, artistRange},
		r.blocked:   {uniqueID, artistRange},
		r.bookings: {
			{
				Keys:    bson.D{{Key: "artist_id", Value: 1}, {Key: "start_at", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("artist_start_status_idx"),
			},
		},
	}

	for coll, indexModels := range plan {
		if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}
