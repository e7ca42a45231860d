package availability

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studiobook/models"
	"studiobook/services/localtime"
)

type mockSnapshotLoader struct {
	mock.Mock
}

func (m *mockSnapshotLoader) Load(ctx context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error) {
	args := m.Called(ctx, artistID, weekStart)
	snap, _ := args.Get(0).(*models.WeeklySnapshot)
	return snap, args.Error(1)
}

type mockBookingReader struct {
	mock.Mock
}

func (m *mockBookingReader) ListBookings(ctx context.Context, artistID string, from, to time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, artistID, from, to)
	bookings, _ := args.Get(0).([]models.Booking)
	return bookings, args.Error(1)
}

func newTestService(t *testing.T) (*DefaultAvailabilityService, *mockSnapshotLoader, *mockBookingReader) {
	t.Helper()
	loader := &mockSnapshotLoader{}
	bookings := &mockBookingReader{}
	t.Cleanup(func() {
		loader.AssertExpectations(t)
		bookings.AssertExpectations(t)
	})
	return NewAvailabilityService(loader, bookings, utc, nil), loader, bookings
}

func TestGetFinalSlots_NormalizesToMonday(t *testing.T) {
	svc, loader, bookings := newTestService(t)
	snap := snapshotOf(week,
		workingRaw("working:mon", time.Monday, "09:00", "17:00"),
		rangeRaw("override:1", models.KindOverride, at(t, week, "10:00"), at(t, week, "12:00")),
		rangeRaw("blocked:1", models.KindBlocked, at(t, week, "10:30"), at(t, week, "11:00")),
	)
	pending := models.Booking{ID: "p1", StartAt: at(t, "2024-06-05", "09:00"), DurationMinutes: 60, Status: models.BookingPending}

	loader.On("Load", mock.Anything, "artist-1", week).Return(snap, nil).Once()
	bookings.On("ListBookings", mock.Anything, "artist-1", at(t, week, "00:00"), at(t, "2024-06-10", "00:00")).
		Return([]models.Booking{pending}, nil).Once()

	res, err := svc.GetFinalSlots(context.Background(), "artist-1", "2024-06-06")
	require.NoError(t, err)
	assert.Equal(t, week, res.WeekStart)
	assert.Equal(t, "UTC", res.Timezone)
	assert.Equal(t, []simple{
		{week, 600, 630, models.KindDerivedOverride},
		{week, 630, 660, models.KindBlocked},
		{week, 660, 720, models.KindDerivedOverride},
	}, simplify(res.Slots))
	assert.Equal(t, []simple{{"2024-06-05", 540, 600, models.KindBooking}}, simplify(res.PendingBookings))
}

func TestGetFinalSlots_InvalidWeek(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetFinalSlots(context.Background(), "artist-1", "June 3rd")
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))
}

func TestGetFinalSlots_RepositoryTimeoutFailsFast(t *testing.T) {
	svc, loader, _ := newTestService(t)
	loader.On("Load", mock.Anything, "artist-1", week).
		Return(nil, fmt.Errorf("fetch week: %w", models.ErrRepositoryTimeout)).Once()

	_, err := svc.GetFinalSlots(context.Background(), "artist-1", week)
	assert.True(t, errors.Is(err, models.ErrRepositoryTimeout))
}

func TestGetOriginalWorkingSlots_SkipsBookings(t *testing.T) {
	svc, loader, _ := newTestService(t)
	snap := snapshotOf(week,
		workingRaw("working:mon", time.Monday, "09:00", "17:00"),
		workingRaw("working:fri", time.Friday, "12:00", "20:00"),
		rangeRaw("blocked:1", models.KindBlocked, at(t, week, "10:30"), at(t, week, "11:00")),
	)
	loader.On("Load", mock.Anything, "artist-1", week).Return(snap, nil).Once()

	res, err := svc.GetOriginalWorkingSlots(context.Background(), "artist-1", "2024-06-09")
	require.NoError(t, err)
	assert.Equal(t, []simple{
		{week, 540, 1020, models.KindWorking},
		{"2024-06-07", 720, 1200, models.KindWorking},
	}, simplify(res.Slots))
	assert.Empty(t, res.PendingBookings)
}

func TestGetAvailableSlots(t *testing.T) {
	svc, loader, bookings := newTestService(t)
	snap := snapshotOf(week, workingRaw("working:mon", time.Monday, "09:00", "12:00"))
	confirmed := models.Booking{ID: "b1", StartAt: at(t, week, "10:00"), DurationMinutes: 30, Status: models.BookingConfirmed}

	loader.On("Load", mock.Anything, "artist-1", week).Return(snap, nil).Once()
	bookings.On("ListBookings", mock.Anything, "artist-1", mock.Anything, mock.Anything).
		Return([]models.Booking{confirmed}, nil).Once()

	windows, err := svc.GetAvailableSlots(context.Background(), "artist-1", "svc-9", week, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, starts(windows))
	assert.Equal(t, "svc-9", windows[0].ServiceID)
}

func TestGetAvailableSlots_EmptyDayReturnsEmptyList(t *testing.T) {
	svc, loader, bookings := newTestService(t)
	loader.On("Load", mock.Anything, "artist-1", week).Return(snapshotOf(week), nil).Once()
	bookings.On("ListBookings", mock.Anything, "artist-1", mock.Anything, mock.Anything).Return(nil, nil).Once()

	windows, err := svc.GetAvailableSlots(context.Background(), "artist-1", "svc-9", "2024-06-08", 30)
	require.NoError(t, err)
	assert.NotNil(t, windows)
	assert.Empty(t, windows)
}

func TestGetAvailableSlots_ValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetAvailableSlots(context.Background(), "artist-1", "svc-9", week, 0)
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))

	_, err = svc.GetAvailableSlots(context.Background(), "artist-1", "svc-9", "2024-13-01", 30)
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))

	_, err = svc.GetAvailableSlots(context.Background(), "artist-1", "svc-9", week, localtime.MinutesPerDay+1)
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))

	_, err = svc.GetAvailableSlots(context.Background(), "artist-1", "svc-9", week, math.MaxInt)
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))
}

func TestGetAvailableSlots_MalformedSnapshot(t *testing.T) {
	svc, loader, bookings := newTestService(t)
	snap := snapshotOf(week, workingRaw("working:bad", time.Monday, "17:00", "09:00"))
	loader.On("Load", mock.Anything, "artist-1", week).Return(snap, nil).Once()
	bookings.On("ListBookings", mock.Anything, "artist-1", mock.Anything, mock.Anything).Return(nil, nil).Once()

	_, err := svc.GetAvailableSlots(context.Background(), "artist-1", "svc-9", week, 30)
	assert.True(t, errors.Is(err, models.ErrMalformedInterval))
}
