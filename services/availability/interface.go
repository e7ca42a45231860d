package availability

import (
	"context"
	"time"

	"studiobook/models"
)

// AvailabilityService answers read-only questions about an artist's time.
type AvailabilityService interface {
	// GetFinalSlots returns the merged timeline for the week containing weekStart.
	GetFinalSlots(ctx context.Context, artistID, weekStart string) (*models.WeekSlots, error)
	// GetOriginalWorkingSlots returns only the template-derived working hours.
	GetOriginalWorkingSlots(ctx context.Context, artistID, weekStart string) (*models.WeekSlots, error)
	// GetAvailableSlots slices one day into bookable windows of durationMinutes.
	GetAvailableSlots(ctx context.Context, artistID, serviceID, date string, durationMinutes int) ([]models.BookableWindow, error)
}

// SnapshotLoader returns the raw weekly snapshot, cached or not.
type SnapshotLoader interface {
	Load(ctx context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error)
}

// BookingReader lists bookings of any status that intersect [from, to).
type BookingReader interface {
	ListBookings(ctx context.Context, artistID string, from, to time.Time) ([]models.Booking, error)
}
