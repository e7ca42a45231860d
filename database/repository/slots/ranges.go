package slotsRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studiobook/models"
)

// overlapFilter matches records of an artist with start < to && end > from.
func overlapFilter(artistID string, from, to time.Time) bson.M {
	return bson.M{
		"artist_id": artistID,
		"start_at":  bson.M{"$lt": to},
		"end_at":    bson.M{"$gt": from},
	}
}

var byStart = options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}})

func (r *MongoSlotRepository) CreateOverride(ctx context.Context, o *models.OverrideSlot) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.overrides.InsertOne(ctx, o)
	return mapMongoErr("create override", err)
}

func (r *MongoSlotRepository) UpdateOverride(ctx context.Context, o *models.OverrideSlot) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.overrides.ReplaceOne(ctx, bson.M{"id": o.ID}, o)
	if err != nil {
		return mapMongoErr("update override", err)
	}
	if res.MatchedCount == 0 {
		return mapMongoErr("update override", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoSlotRepository) DeleteOverride(ctx context.Context, id string) (*models.OverrideSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o models.OverrideSlot
	if err := r.overrides.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&o); err != nil {
		return nil, mapMongoErr("delete override", err)
	}
	return &o, nil
}

func (r *MongoSlotRepository) GetOverride(ctx context.Context, id string) (*models.OverrideSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o models.OverrideSlot
	if err := r.overrides.FindOne(ctx, bson.M{"id": id}).Decode(&o); err != nil {
		return nil, mapMongoErr("get override", err)
	}
	return &o, nil
}

func (r *MongoSlotRepository) ListOverrides(ctx context.Context, artistID string, from, to time.Time) ([]models.OverrideSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.overrides.Find(ctx, overlapFilter(artistID, from, to), byStart)
	if err != nil {
		return nil, mapMongoErr("list overrides", err)
	}
	defer cursor.Close(ctx)

	var overrides []models.OverrideSlot
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, mapMongoErr("list overrides", err)
	}
	return overrides, nil
}

func (r *MongoSlotRepository) CreateBlocked(ctx context.Context, b *models.BlockedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.blocked.InsertOne(ctx, b)
	return mapMongoErr("create blocked", err)
}

func (r *MongoSlotRepository) UpdateBlocked(ctx context.Context, b *models.BlockedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.blocked.ReplaceOne(ctx, bson.M{"id": b.ID}, b)
	if err != nil {
		return mapMongoErr("update blocked", err)
	}
	if res.MatchedCount == 0 {
		return mapMongoErr("update blocked", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoSlotRepository) DeleteBlocked(ctx context.Context, id string) (*models.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b models.BlockedSlot
	if err := r.blocked.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		return nil, mapMongoErr("delete blocked", err)
	}
	return &b, nil
}

func (r *MongoSlotRepository) GetBlocked(ctx context.Context, id string) (*models.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b models.BlockedSlot
	if err := r.blocked.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		return nil, mapMongoErr("get blocked", err)
	}
	return &b, nil
}

func (r *MongoSlotRepository) ListBlocked(ctx context.Context, artistID string, from, to time.Time) ([]models.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.blocked.Find(ctx, overlapFilter(artistID, from, to), byStart)
	if err != nil {
		return nil, mapMongoErr("list blocked", err)
	}
	defer cursor.Close(ctx)

	var blocked []models.BlockedSlot
	if err := cursor.All(ctx, &blocked); err != nil {
		return nil, mapMongoErr("list blocked", err)
	}
	return blocked, nil
}
