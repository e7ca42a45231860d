// File: database/repository/slots/interface.go
package slotsRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"studiobook/models"
)

// SlotRepository persists templates, overrides and blocked ranges.
// Lookups by id return models.ErrNotFound when nothing matches; the List*
// range queries return records with start < to && end > from.
type SlotRepository interface {
	CreateTemplate(ctx context.Context, t *models.WorkingTemplate) error
	UpdateTemplate(ctx context.Context, t *models.WorkingTemplate) error
	DeleteTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error)
	GetTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error)
	FindTemplateByWeekday(ctx context.Context, artistID string, weekday time.Weekday) (*models.WorkingTemplate, error)
	ListTemplates(ctx context.Context, artistID string) ([]models.WorkingTemplate, error)

	CreateOverride(ctx context.Context, o *models.OverrideSlot) error
	UpdateOverride(ctx context.Context, o *models.OverrideSlot) error
	DeleteOverride(ctx context.Context, id string) (*models.OverrideSlot, error)
	GetOverride(ctx context.Context, id string) (*models.OverrideSlot, error)
	ListOverrides(ctx context.Context, artistID string, from, to time.Time) ([]models.OverrideSlot, error)

	CreateBlocked(ctx context.Context, b *models.BlockedSlot) error
	UpdateBlocked(ctx context.Context, b *models.BlockedSlot) error
	DeleteBlocked(ctx context.Context, id string) (*models.BlockedSlot, error)
	GetBlocked(ctx context.Context, id string) (*models.BlockedSlot, error)
	ListBlocked(ctx context.Context, artistID string, from, to time.Time) ([]models.BlockedSlot, error)
}

// BookingRepository is the read view onto bookings owned by the booking layer.
type BookingRepository interface {
	ListBookings(ctx context.Context, artistID string, from, to time.Time) ([]models.Booking, error)
}

// MaxBookingSpan bounds how far before a range a booking may start and
// still overlap it.
const MaxBookingSpan = 24 * time.Hour

const queryTimeout = 5 * time.Second

// MongoSlotRepository implements SlotRepository and BookingRepository on MongoDB.
type MongoSlotRepository struct {
	templates *mongo.Collection
	overrides *mongo.Collection
	blocked   *mongo.Collection
	bookings  *mongo.Collection
}

// NewMongoSlotRepo constructs the MongoDB implementation of both repositories.
func NewMongoSlotRepo(db *mongo.Database) *MongoSlotRepository {
	return &MongoSlotRepository{
		templates: db.Collection("working_templates"),
		overrides: db.Collection("override_slots"),
		blocked:   db.Collection("blocked_slots"),
		bookings:  db.Collection("bookings"),
	}
}

var (
	_ SlotRepository    = (*MongoSlotRepository)(nil)
	_ BookingRepository = (*MongoSlotRepository)(nil)
)
