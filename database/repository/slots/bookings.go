package slotsRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"studiobook/models"
)

// ListBookings returns non-cancelled bookings of the artist overlapping
// [from, to). Bookings only carry a start and a duration, so the query
// widens the window by MaxBookingSpan and trims the result here.
func (r *MongoSlotRepository) ListBookings(ctx context.Context, artistID string, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"artist_id": artistID,
		"status":    bson.M{"$ne": models.BookingCancelled},
		"start_at":  bson.M{"$gte": from.Add(-MaxBookingSpan), "$lt": to},
	}
	cursor, err := r.bookings.Find(ctx, filter, byStart)
	if err != nil {
		return nil, mapMongoErr("list bookings", err)
	}
	defer cursor.Close(ctx)

	var all []models.Booking
	if err := cursor.All(ctx, &all); err != nil {
		return nil, mapMongoErr("list bookings", err)
	}

	bookings := all[:0]
	for _, b := range all {
		if b.EndAt().After(from) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}
