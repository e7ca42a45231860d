// Package slotsqlRepo stores slots in a relational database through GORM.
package slotsqlRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	slotsRepo "studiobook/database/repository/slots"
	"studiobook/models"
)

// GormSlotRepository implements the slot and booking repositories on
// Postgres or SQLite. The *gorm.DB must be opened with TranslateError so
// unique violations surface as gorm.ErrDuplicatedKey.
type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

var (
	_ slotsRepo.SlotRepository    = (*GormSlotRepository)(nil)
	_ slotsRepo.BookingRepository = (*GormSlotRepository)(nil)
)

// AutoMigrate creates or updates the slot tables and their indexes.
func (r *GormSlotRepository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&templateRow{}, &overrideRow{}, &blockedRow{}, &bookingRow{}); err != nil {
		return fmt.Errorf("auto migrate slots: %w", err)
	}
	return nil
}

func mapGormErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, models.ErrRepositoryTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// updateRow overwrites every column of row except created_at.
func (r *GormSlotRepository) updateRow(ctx context.Context, row interface{}) error {
	res := r.db.WithContext(ctx).Model(row).Select("*").Omit("created_at").Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// deleteRow loads the row with id into dest and removes it.
func (r *GormSlotRepository) deleteRow(ctx context.Context, id string, dest interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(dest).Error; err != nil {
			return err
		}
		return tx.Delete(dest).Error
	})
}

// Working templates.

func (r *GormSlotRepository) CreateTemplate(ctx context.Context, t *models.WorkingTemplate) error {
	row, err := toTemplateRow(t)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateWeekdayTemplate
		}
		return mapGormErr("create template", err)
	}
	return nil
}

func (r *GormSlotRepository) UpdateTemplate(ctx context.Context, t *models.WorkingTemplate) error {
	row, err := toTemplateRow(t)
	if err != nil {
		return err
	}
	if err := r.updateRow(ctx, &row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateWeekdayTemplate
		}
		return mapGormErr("update template", err)
	}
	return nil
}

func (r *GormSlotRepository) DeleteTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error) {
	var row templateRow
	if err := r.deleteRow(ctx, id, &row); err != nil {
		return nil, mapGormErr("delete template", err)
	}
	t := row.toModel()
	return &t, nil
}

func (r *GormSlotRepository) GetTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error) {
	var row templateRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, mapGormErr("get template", err)
	}
	t := row.toModel()
	return &t, nil
}

func (r *GormSlotRepository) FindTemplateByWeekday(ctx context.Context, artistID string, weekday time.Weekday) (*models.WorkingTemplate, error) {
	var row templateRow
	err := r.db.WithContext(ctx).
		Where("artist_id = ? AND weekday = ?", artistID, int(weekday)).
		First(&row).Error
	if err != nil {
		return nil, mapGormErr("find template by weekday", err)
	}
	t := row.toModel()
	return &t, nil
}

func (r *GormSlotRepository) ListTemplates(ctx context.Context, artistID string) ([]models.WorkingTemplate, error) {
	var rows []templateRow
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("weekday ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapGormErr("list templates", err)
	}
	templates := make([]models.WorkingTemplate, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, row.toModel())
	}
	return templates, nil
}

// Overrides.

func (r *GormSlotRepository) CreateOverride(ctx context.Context, o *models.OverrideSlot) error {
	row := toOverrideRow(o)
	return mapGormErr("create override", r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormSlotRepository) UpdateOverride(ctx context.Context, o *models.OverrideSlot) error {
	row := toOverrideRow(o)
	return mapGormErr("update override", r.updateRow(ctx, &row))
}

func (r *GormSlotRepository) DeleteOverride(ctx context.Context, id string) (*models.OverrideSlot, error) {
	var row overrideRow
	if err := r.deleteRow(ctx, id, &row); err != nil {
		return nil, mapGormErr("delete override", err)
	}
	o := row.toModel()
	return &o, nil
}

func (r *GormSlotRepository) GetOverride(ctx context.Context, id string) (*models.OverrideSlot, error) {
	var row overrideRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, mapGormErr("get override", err)
	}
	o := row.toModel()
	return &o, nil
}

func (r *GormSlotRepository) ListOverrides(ctx context.Context, artistID string, from, to time.Time) ([]models.OverrideSlot, error) {
	var rows []overrideRow
	err := r.db.WithContext(ctx).
		Where("artist_id = ? AND start_at < ? AND end_at > ?", artistID, to.UTC(), from.UTC()).
		Order("start_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapGormErr("list overrides", err)
	}
	overrides := make([]models.OverrideSlot, 0, len(rows))
	for _, row := range rows {
		overrides = append(overrides, row.toModel())
	}
	return overrides, nil
}

// Blocked ranges.

func (r *GormSlotRepository) CreateBlocked(ctx context.Context, b *models.BlockedSlot) error {
	row := toBlockedRow(b)
	return mapGormErr("create blocked", r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormSlotRepository) UpdateBlocked(ctx context.Context, b *models.BlockedSlot) error {
	row := toBlockedRow(b)
	return mapGormErr("update blocked", r.updateRow(ctx, &row))
}

func (r *GormSlotRepository) DeleteBlocked(ctx context.Context, id string) (*models.BlockedSlot, error) {
	var row blockedRow
	if err := r.deleteRow(ctx, id, &row); err != nil {
		return nil, mapGormErr("delete blocked", err)
	}
	b := row.toModel()
	return &b, nil
}

func (r *GormSlotRepository) GetBlocked(ctx context.Context, id string) (*models.BlockedSlot, error) {
	var row blockedRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, mapGormErr("get blocked", err)
	}
	b := row.toModel()
	return &b, nil
}

func (r *GormSlotRepository) ListBlocked(ctx context.Context, artistID string, from, to time.Time) ([]models.BlockedSlot, error) {
	var rows []blockedRow
	err := r.db.WithContext(ctx).
		Where("artist_id = ? AND start_at < ? AND end_at > ?", artistID, to.UTC(), from.UTC()).
		Order("start_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapGormErr("list blocked", err)
	}
	blocked := make([]models.BlockedSlot, 0, len(rows))
	for _, row := range rows {
		blocked = append(blocked, row.toModel())
	}
	return blocked, nil
}

// Bookings.

func (r *GormSlotRepository) ListBookings(ctx context.Context, artistID string, from, to time.Time) ([]models.Booking, error) {
	var rows []bookingRow
	err := r.db.WithContext(ctx).
		Where("artist_id = ? AND status <> ? AND start_at >= ? AND start_at < ?",
			artistID, string(models.BookingCancelled), from.Add(-slotsRepo.MaxBookingSpan).UTC(), to.UTC()).
		Order("start_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapGormErr("list bookings", err)
	}
	bookings := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		b := row.toModel()
		if b.EndAt().After(from) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}
