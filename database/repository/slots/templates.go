package slotsRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studiobook/models"
)

func (r *MongoSlotRepository) CreateTemplate(ctx context.Context, t *models.WorkingTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.templates.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateWeekdayTemplate
		}
		return mapMongoErr("create template", err)
	}
	return nil
}

func (r *MongoSlotRepository) UpdateTemplate(ctx context.Context, t *models.WorkingTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.templates.ReplaceOne(ctx, bson.M{"id": t.ID}, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateWeekdayTemplate
		}
		return mapMongoErr("update template", err)
	}
	if res.MatchedCount == 0 {
		return mapMongoErr("update template", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoSlotRepository) DeleteTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var t models.WorkingTemplate
	if err := r.templates.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, mapMongoErr("delete template", err)
	}
	return &t, nil
}

func (r *MongoSlotRepository) GetTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var t models.WorkingTemplate
	if err := r.templates.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, mapMongoErr("get template", err)
	}
	return &t, nil
}

func (r *MongoSlotRepository) FindTemplateByWeekday(ctx context.Context, artistID string, weekday time.Weekday) (*models.WorkingTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var t models.WorkingTemplate
	filter := bson.M{"artist_id": artistID, "weekday": int(weekday)}
	if err := r.templates.FindOne(ctx, filter).Decode(&t); err != nil {
		return nil, mapMongoErr("find template by weekday", err)
	}
	return &t, nil
}

func (r *MongoSlotRepository) ListTemplates(ctx context.Context, artistID string) ([]models.WorkingTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "weekday", Value: 1}})
	cursor, err := r.templates.Find(ctx, bson.M{"artist_id": artistID}, opts)
	if err != nil {
		return nil, mapMongoErr("list templates", err)
	}
	defer cursor.Close(ctx)

	var templates []models.WorkingTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, mapMongoErr("list templates", err)
	}
	return templates, nil
}
