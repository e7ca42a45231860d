package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Occupies reports whether a booking in this status takes time away from availability.
func (s BookingStatus) Occupies() bool {
	return s == BookingConfirmed || s == BookingCompleted
}

// Booking is the read-only view of a booking record owned by the booking layer.
type Booking struct {
	ID              string        `bson:"id" json:"id"`                               // Unique booking identifier (e.g., UUID)
	ArtistID        string        `bson:"artist_id" json:"artist_id"`                 // Artist who was booked
	UserID          string        `bson:"user_id,omitempty" json:"user_id,omitempty"` // Customer who made the booking
	ServiceID       string        `bson:"service_id" json:"service_id"`               // Service that was booked
	StartAt         time.Time     `bson:"start_at" json:"start_at"`                   // Absolute start instant (UTC)
	DurationMinutes int           `bson:"duration_minutes" json:"duration_minutes"`   // Length of the service
	Status          BookingStatus `bson:"status" json:"status"`                       // pending, confirmed, completed, cancelled
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
}

// EndAt returns the exclusive end instant of the booking.
func (b Booking) EndAt() time.Time {
	return b.StartAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}
