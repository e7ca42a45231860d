package slotsqlRepo

import (
	"time"

	"gorm.io/datatypes"

	"studiobook/models"
	"studiobook/services/localtime"
)

type templateRow struct {
	ID        string          `gorm:"primaryKey;size:64"`
	ArtistID  string          `gorm:"size:64;not null;uniqueIndex:idx_templates_artist_weekday"`
	Weekday   int             `gorm:"not null;uniqueIndex:idx_templates_artist_weekday"`
	StartTime *datatypes.Time // NULL when the stored record is incomplete
	EndTime   *datatypes.Time
	Note      string `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (templateRow) TableName() string { return "working_templates" }

type overrideRow struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ArtistID  string    `gorm:"size:64;not null;index:idx_overrides_artist_range,priority:1"`
	StartAt   time.Time `gorm:"not null;index:idx_overrides_artist_range,priority:2"`
	EndAt     time.Time `gorm:"not null;index:idx_overrides_artist_range,priority:3"`
	Note      string    `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (overrideRow) TableName() string { return "override_slots" }

type blockedRow struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ArtistID  string    `gorm:"size:64;not null;index:idx_blocked_artist_range,priority:1"`
	StartAt   time.Time `gorm:"not null;index:idx_blocked_artist_range,priority:2"`
	EndAt     time.Time `gorm:"not null;index:idx_blocked_artist_range,priority:3"`
	Reason    string    `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (blockedRow) TableName() string { return "blocked_slots" }

type bookingRow struct {
	ID              string    `gorm:"primaryKey;size:64"`
	ArtistID        string    `gorm:"size:64;not null;index:idx_bookings_artist_start,priority:1"`
	UserID          string    `gorm:"size:64"`
	ServiceID       string    `gorm:"size:64;not null"`
	StartAt         time.Time `gorm:"not null;index:idx_bookings_artist_start,priority:2"`
	DurationMinutes int       `gorm:"not null"`
	Status          string    `gorm:"size:16;not null;index"`
	CreatedAt       time.Time
}

func (bookingRow) TableName() string { return "bookings" }

func clockToTime(clock string) (*datatypes.Time, error) {
	if clock == "" {
		return nil, nil
	}
	minutes, err := localtime.ParseClock(clock)
	if err != nil {
		return nil, err
	}
	t := datatypes.NewTime(minutes/60, minutes%60, 0, 0)
	return &t, nil
}

func timeToClock(t *datatypes.Time) string {
	if t == nil {
		return ""
	}
	return localtime.FormatClock(int(time.Duration(*t) / time.Minute))
}

func toTemplateRow(t *models.WorkingTemplate) (templateRow, error) {
	start, err := clockToTime(t.StartTime)
	if err != nil {
		return templateRow{}, models.NewMalformedIntervalError(t.ID, err.Error())
	}
	end, err := clockToTime(t.EndTime)
	if err != nil {
		return templateRow{}, models.NewMalformedIntervalError(t.ID, err.Error())
	}
	return templateRow{
		ID:        t.ID,
		ArtistID:  t.ArtistID,
		Weekday:   int(t.Weekday),
		StartTime: start,
		EndTime:   end,
		Note:      t.Note,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}, nil
}

func (r templateRow) toModel() models.WorkingTemplate {
	return models.WorkingTemplate{
		ID:        r.ID,
		ArtistID:  r.ArtistID,
		Weekday:   time.Weekday(r.Weekday),
		StartTime: timeToClock(r.StartTime),
		EndTime:   timeToClock(r.EndTime),
		Note:      r.Note,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func toOverrideRow(o *models.OverrideSlot) overrideRow {
	return overrideRow{
		ID:        o.ID,
		ArtistID:  o.ArtistID,
		StartAt:   o.StartAt.UTC(),
		EndAt:     o.EndAt.UTC(),
		Note:      o.Note,
		CreatedAt: o.CreatedAt.UTC(),
		UpdatedAt: o.UpdatedAt.UTC(),
	}
}

func (r overrideRow) toModel() models.OverrideSlot {
	return models.OverrideSlot{
		ID:        r.ID,
		ArtistID:  r.ArtistID,
		StartAt:   r.StartAt.UTC(),
		EndAt:     r.EndAt.UTC(),
		Note:      r.Note,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func toBlockedRow(b *models.BlockedSlot) blockedRow {
	return blockedRow{
		ID:        b.ID,
		ArtistID:  b.ArtistID,
		StartAt:   b.StartAt.UTC(),
		EndAt:     b.EndAt.UTC(),
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
	}
}

func (r blockedRow) toModel() models.BlockedSlot {
	return models.BlockedSlot{
		ID:        r.ID,
		ArtistID:  r.ArtistID,
		StartAt:   r.StartAt.UTC(),
		EndAt:     r.EndAt.UTC(),
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (r bookingRow) toModel() models.Booking {
	return models.Booking{
		ID:              r.ID,
		ArtistID:        r.ArtistID,
		UserID:          r.UserID,
		ServiceID:       r.ServiceID,
		StartAt:         r.StartAt.UTC(),
		DurationMinutes: r.DurationMinutes,
		Status:          models.BookingStatus(r.Status),
		CreatedAt:       r.CreatedAt.UTC(),
	}
}
