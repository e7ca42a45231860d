// Package schedule validates and applies changes to an artist's working
// templates, overrides and blocked ranges, and keeps the snapshot cache
// consistent with them.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	slotsRepo "studiobook/database/repository/slots"
	"studiobook/models"
	"studiobook/services/localtime"
)

// DefaultRepositoryTimeout applies when no timeout is configured.
const DefaultRepositoryTimeout = 3 * time.Second

// Repository validates records before handing them to the store and bounds
// every store call with a timeout.
type Repository struct {
	slots    slotsRepo.SlotRepository
	bookings slotsRepo.BookingRepository
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewRepository(slots slotsRepo.SlotRepository, bookings slotsRepo.BookingRepository, timeout time.Duration, logger *zap.Logger) *Repository {
	if timeout <= 0 {
		timeout = DefaultRepositoryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		slots:    slots,
		bookings: bookings,
		timeout:  timeout,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// call runs fn under the repository timeout. A deadline hit on that timeout
// is reported as models.ErrRepositoryTimeout.
func (r *Repository) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrRepositoryTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.logger.Warn("Repository call timed out", zap.String("op", op), zap.Duration("timeout", r.timeout))
		return fmt.Errorf("%s: %w", op, models.ErrRepositoryTimeout)
	}
	return err
}

func validateTemplate(id string, req models.WorkingTemplateRequest) (time.Weekday, error) {
	if req.Weekday == nil || *req.Weekday < 0 || *req.Weekday > 6 {
		return 0, fmt.Errorf("%w: weekday must be between 0 (Sunday) and 6 (Saturday)", models.ErrInvalidArgument)
	}
	start, err := localtime.ParseClock(req.StartTime)
	if err != nil {
		return 0, models.NewMalformedIntervalError(id, err.Error())
	}
	end, err := localtime.ParseClock(req.EndTime)
	if err != nil {
		return 0, models.NewMalformedIntervalError(id, err.Error())
	}
	if end <= start {
		return 0, models.NewMalformedIntervalError(id, fmt.Sprintf("end %s is not after start %s", req.EndTime, req.StartTime))
	}
	return time.Weekday(*req.Weekday), nil
}

func validateRange(id string, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return models.NewMalformedIntervalError(id, "start and end are required")
	}
	if !end.After(start) {
		return models.NewMalformedIntervalError(id, "end is not after start")
	}
	return nil
}

// Working templates.

func (r *Repository) AddWorkingTemplate(ctx context.Context, artistID string, req models.WorkingTemplateRequest) (*models.WorkingTemplate, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is required", models.ErrInvalidArgument)
	}
	weekday, err := validateTemplate("", req)
	if err != nil {
		return nil, err
	}

	now := r.now()
	t := &models.WorkingTemplate{
		ID:        uuid.New().String(),
		ArtistID:  artistID,
		Weekday:   weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = r.call(ctx, "add working template", func(ctx context.Context) error {
		if err := r.ensureWeekdayFree(ctx, artistID, weekday, ""); err != nil {
			return err
		}
		return r.slots.CreateTemplate(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateWorkingTemplate replaces the template's fields and returns the new
// and previous versions.
func (r *Repository) UpdateWorkingTemplate(ctx context.Context, id string, req models.WorkingTemplateRequest) (*models.WorkingTemplate, *models.WorkingTemplate, error) {
	weekday, err := validateTemplate(id, req)
	if err != nil {
		return nil, nil, err
	}

	var prev, next *models.WorkingTemplate
	err = r.call(ctx, "update working template", func(ctx context.Context) error {
		existing, err := r.slots.GetTemplate(ctx, id)
		if err != nil {
			return err
		}
		if existing.Weekday != weekday {
			if err := r.ensureWeekdayFree(ctx, existing.ArtistID, weekday, id); err != nil {
				return err
			}
		}
		updated := *existing
		updated.Weekday = weekday
		updated.StartTime = req.StartTime
		updated.EndTime = req.EndTime
		updated.Note = req.Note
		updated.UpdatedAt = r.now()
		if err := r.slots.UpdateTemplate(ctx, &updated); err != nil {
			return err
		}
		prev, next = existing, &updated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return next, prev, nil
}

func (r *Repository) DeleteWorkingTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error) {
	var deleted *models.WorkingTemplate
	err := r.call(ctx, "delete working template", func(ctx context.Context) (err error) {
		deleted, err = r.slots.DeleteTemplate(ctx, id)
		return err
	})
	return deleted, err
}

func (r *Repository) GetWorkingTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error) {
	var t *models.WorkingTemplate
	err := r.call(ctx, "get working template", func(ctx context.Context) (err error) {
		t, err = r.slots.GetTemplate(ctx, id)
		return err
	})
	return t, err
}

func (r *Repository) ensureWeekdayFree(ctx context.Context, artistID string, weekday time.Weekday, selfID string) error {
	existing, err := r.slots.FindTemplateByWeekday(ctx, artistID, weekday)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return models.ErrDuplicateWeekdayTemplate
	}
	return nil
}

// Overrides.

func (r *Repository) AddOverride(ctx context.Context, artistID string, req models.OverrideRequest) (*models.OverrideSlot, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is required", models.ErrInvalidArgument)
	}
	if err := validateRange("", req.StartAt, req.EndAt); err != nil {
		return nil, err
	}

	now := r.now()
	o := &models.OverrideSlot{
		ID:        uuid.New().String(),
		ArtistID:  artistID,
		StartAt:   req.StartAt.UTC(),
		EndAt:     req.EndAt.UTC(),
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.call(ctx, "add override", func(ctx context.Context) error {
		if err := r.ensureNoOverrideOverlap(ctx, o); err != nil {
			return err
		}
		return r.slots.CreateOverride(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOverride moves or renotes an override and returns the new and
// previous versions.
func (r *Repository) UpdateOverride(ctx context.Context, id string, req models.OverrideRequest) (*models.OverrideSlot, *models.OverrideSlot, error) {
	if err := validateRange(id, req.StartAt, req.EndAt); err != nil {
		return nil, nil, err
	}

	var prev, next *models.OverrideSlot
	err := r.call(ctx, "update override", func(ctx context.Context) error {
		existing, err := r.slots.GetOverride(ctx, id)
		if err != nil {
			return err
		}
		updated := *existing
		updated.StartAt = req.StartAt.UTC()
		updated.EndAt = req.EndAt.UTC()
		updated.Note = req.Note
		updated.UpdatedAt = r.now()
		if err := r.ensureNoOverrideOverlap(ctx, &updated); err != nil {
			return err
		}
		if err := r.slots.UpdateOverride(ctx, &updated); err != nil {
			return err
		}
		prev, next = existing, &updated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return next, prev, nil
}

func (r *Repository) DeleteOverride(ctx context.Context, id string) (*models.OverrideSlot, error) {
	var deleted *models.OverrideSlot
	err := r.call(ctx, "delete override", func(ctx context.Context) (err error) {
		deleted, err = r.slots.DeleteOverride(ctx, id)
		return err
	})
	return deleted, err
}

func (r *Repository) ensureNoOverrideOverlap(ctx context.Context, o *models.OverrideSlot) error {
	existing, err := r.slots.ListOverrides(ctx, o.ArtistID, o.StartAt, o.EndAt)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID != o.ID && e.StartAt.Before(o.EndAt) && e.EndAt.After(o.StartAt) {
			return models.ErrOverlappingOverride
		}
	}
	return nil
}

// Blocked ranges.

func (r *Repository) AddBlocked(ctx context.Context, artistID string, req models.BlockedRequest) (*models.BlockedSlot, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is required", models.ErrInvalidArgument)
	}
	if err := validateRange("", req.StartAt, req.EndAt); err != nil {
		return nil, err
	}

	now := r.now()
	b := &models.BlockedSlot{
		ID:        uuid.New().String(),
		ArtistID:  artistID,
		StartAt:   req.StartAt.UTC(),
		EndAt:     req.EndAt.UTC(),
		Reason:    req.Reason,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.call(ctx, "add blocked", func(ctx context.Context) error {
		if err := r.ensureNoBlockedOverlap(ctx, b); err != nil {
			return err
		}
		return r.slots.CreateBlocked(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Repository) UpdateBlocked(ctx context.Context, id string, req models.BlockedRequest) (*models.BlockedSlot, *models.BlockedSlot, error) {
	if err := validateRange(id, req.StartAt, req.EndAt); err != nil {
		return nil, nil, err
	}

	var prev, next *models.BlockedSlot
	err := r.call(ctx, "update blocked", func(ctx context.Context) error {
		existing, err := r.slots.GetBlocked(ctx, id)
		if err != nil {
			return err
		}
		updated := *existing
		updated.StartAt = req.StartAt.UTC()
		updated.EndAt = req.EndAt.UTC()
		updated.Reason = req.Reason
		updated.UpdatedAt = r.now()
		if err := r.ensureNoBlockedOverlap(ctx, &updated); err != nil {
			return err
		}
		if err := r.slots.UpdateBlocked(ctx, &updated); err != nil {
			return err
		}
		prev, next = existing, &updated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return next, prev, nil
}

func (r *Repository) DeleteBlocked(ctx context.Context, id string) (*models.BlockedSlot, error) {
	var deleted *models.BlockedSlot
	err := r.call(ctx, "delete blocked", func(ctx context.Context) (err error) {
		deleted, err = r.slots.DeleteBlocked(ctx, id)
		return err
	})
	return deleted, err
}

func (r *Repository) ensureNoBlockedOverlap(ctx context.Context, b *models.BlockedSlot) error {
	existing, err := r.slots.ListBlocked(ctx, b.ArtistID, b.StartAt, b.EndAt)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID != b.ID && e.StartAt.Before(b.EndAt) && e.EndAt.After(b.StartAt) {
			return models.ErrOverlappingBlocked
		}
	}
	return nil
}

// Reads used by the snapshot loader and the availability engine.

// FetchWeek returns every template of the artist and the overrides and blocked
// ranges intersecting [from, to).
func (r *Repository) FetchWeek(ctx context.Context, artistID string, from, to time.Time) (*models.WeekRecords, error) {
	records := &models.WeekRecords{}
	err := r.call(ctx, "fetch week", func(ctx context.Context) (err error) {
		if records.Templates, err = r.slots.ListTemplates(ctx, artistID); err != nil {
			return err
		}
		if records.Overrides, err = r.slots.ListOverrides(ctx, artistID, from, to); err != nil {
			return err
		}
		records.Blocks, err = r.slots.ListBlocked(ctx, artistID, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListBookings returns the artist's non-cancelled bookings overlapping [from, to).
func (r *Repository) ListBookings(ctx context.Context, artistID string, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.call(ctx, "list bookings", func(ctx context.Context) (err error) {
		bookings, err = r.bookings.ListBookings(ctx, artistID, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
