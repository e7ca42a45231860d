package availability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"studiobook/models"
	"studiobook/services/localtime"
)

var tracer = otel.Tracer("studiobook/services/availability")

// DefaultAvailabilityService merges cached weekly snapshots with live
// bookings. It holds no state of its own.
type DefaultAvailabilityService struct {
	Snapshots SnapshotLoader
	Bookings  BookingReader
	Clock     *localtime.Normalizer
	Logger    *zap.Logger
}

func NewAvailabilityService(snapshots SnapshotLoader, bookings BookingReader, clock *localtime.Normalizer, logger *zap.Logger) *DefaultAvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAvailabilityService{
		Snapshots: snapshots,
		Bookings:  bookings,
		Clock:     clock,
		Logger:    logger,
	}
}

func (s *DefaultAvailabilityService) GetFinalSlots(ctx context.Context, artistID, weekStart string) (res *models.WeekSlots, err error) {
	ctx, span := tracer.Start(ctx, "availability.GetFinalSlots", trace.WithAttributes(
		attribute.String("artist.id", artistID),
		attribute.String("week.start", weekStart),
	))
	defer func() { endSpan(span, err) }()

	timeline, monday, err := s.mergedWeek(ctx, artistID, weekStart)
	if err != nil {
		return nil, err
	}

	return &models.WeekSlots{
		ArtistID:        artistID,
		WeekStart:       monday,
		Timezone:        s.Clock.Location().String(),
		Slots:           nonNil(timeline.Slots),
		PendingBookings: nonNil(timeline.Pending),
	}, nil
}

func (s *DefaultAvailabilityService) GetOriginalWorkingSlots(ctx context.Context, artistID, weekStart string) (res *models.WeekSlots, err error) {
	ctx, span := tracer.Start(ctx, "availability.GetOriginalWorkingSlots", trace.WithAttributes(
		attribute.String("artist.id", artistID),
		attribute.String("week.start", weekStart),
	))
	defer func() { endSpan(span, err) }()

	monday, err := s.mondayOf(weekStart)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshots.Load(ctx, artistID, monday)
	if err != nil {
		return nil, err
	}
	working, err := OriginalWorking(snap, s.Clock)
	if err != nil {
		s.Logger.Error("Failed to expand working templates",
			zap.String("artistID", artistID), zap.String("weekStart", monday), zap.Error(err))
		return nil, err
	}

	return &models.WeekSlots{
		ArtistID:        artistID,
		WeekStart:       monday,
		Timezone:        s.Clock.Location().String(),
		Slots:           nonNil(working),
		PendingBookings: []models.Interval{},
	}, nil
}

func (s *DefaultAvailabilityService) GetAvailableSlots(ctx context.Context, artistID, serviceID, date string, durationMinutes int) (res []models.BookableWindow, err error) {
	ctx, span := tracer.Start(ctx, "availability.GetAvailableSlots", trace.WithAttributes(
		attribute.String("artist.id", artistID),
		attribute.String("service.id", serviceID),
		attribute.String("date", date),
		attribute.Int("duration.minutes", durationMinutes),
	))
	defer func() { endSpan(span, err) }()

	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", models.ErrInvalidArgument, durationMinutes)
	}
	if durationMinutes > localtime.MinutesPerDay {
		return nil, fmt.Errorf("%w: duration exceeds one day, got %d", models.ErrInvalidArgument, durationMinutes)
	}
	if _, err := s.Clock.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}

	timeline, _, err := s.mergedWeek(ctx, artistID, date)
	if err != nil {
		return nil, err
	}
	windows, err := SliceDay(timeline.Slots, date, serviceID, durationMinutes, s.Clock)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("windows", len(windows)))
	if windows == nil {
		windows = []models.BookableWindow{}
	}
	return windows, nil
}

// mergedWeek loads the snapshot and live bookings for the week containing
// anyDate and merges them.
func (s *DefaultAvailabilityService) mergedWeek(ctx context.Context, artistID, anyDate string) (*Timeline, string, error) {
	monday, err := s.mondayOf(anyDate)
	if err != nil {
		return nil, "", err
	}

	snap, err := s.Snapshots.Load(ctx, artistID, monday)
	if err != nil {
		return nil, "", err
	}

	from, to, err := s.Clock.WeekBounds(monday)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}
	bookings, err := s.Bookings.ListBookings(ctx, artistID, from, to)
	if err != nil {
		s.Logger.Error("Failed to list bookings",
			zap.String("artistID", artistID), zap.String("weekStart", monday), zap.Error(err))
		return nil, "", err
	}

	timeline, err := MergeWeek(snap, bookings, s.Clock)
	if err != nil {
		s.Logger.Error("Failed to merge weekly slots",
			zap.String("artistID", artistID), zap.String("weekStart", monday), zap.Error(err))
		return nil, "", err
	}
	return timeline, monday, nil
}

func (s *DefaultAvailabilityService) mondayOf(date string) (string, error) {
	monday, err := s.Clock.WeekStartOf(date)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}
	return monday, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func nonNil(ivs []models.Interval) []models.Interval {
	if ivs == nil {
		return []models.Interval{}
	}
	return ivs
}
