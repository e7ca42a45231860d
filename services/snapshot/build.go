package snapshot

import (
	"time"

	"github.com/google/uuid"

	"studiobook/models"
)

// syntheticID tags a raw record with its kind so ids from different
// collections never collide inside one snapshot.
func syntheticID(kind models.IntervalKind, sourceID string) string {
	if sourceID == "" {
		sourceID = uuid.New().String()
	}
	return string(kind) + ":" + sourceID
}

// BuildSnapshot converts repository records into a weekly snapshot.
func BuildSnapshot(artistID, weekStart string, records *models.WeekRecords, builtAt time.Time) *models.WeeklySnapshot {
	snap := &models.WeeklySnapshot{
		ArtistID:     artistID,
		WeekStart:    weekStart,
		RawIntervals: make(map[string]models.RawSlot),
		BuiltAt:      builtAt.UTC(),
	}
	if records == nil {
		return snap
	}

	for _, t := range records.Templates {
		id := syntheticID(models.KindWorking, t.ID)
		snap.RawIntervals[id] = models.RawSlot{
			ID:        id,
			SourceID:  t.ID,
			Kind:      models.KindWorking,
			Weekday:   t.Weekday,
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
			Note:      t.Note,
		}
	}
	for _, o := range records.Overrides {
		id := syntheticID(models.KindOverride, o.ID)
		snap.RawIntervals[id] = rangeSlot(id, o.ID, models.KindOverride, o.StartAt, o.EndAt, o.Note)
	}
	for _, b := range records.Blocks {
		id := syntheticID(models.KindBlocked, b.ID)
		snap.RawIntervals[id] = rangeSlot(id, b.ID, models.KindBlocked, b.StartAt, b.EndAt, b.Reason)
	}
	return snap
}

func rangeSlot(id, sourceID string, kind models.IntervalKind, start, end time.Time, note string) models.RawSlot {
	slot := models.RawSlot{ID: id, SourceID: sourceID, Kind: kind, Note: note}
	if !start.IsZero() {
		s := start.UTC()
		slot.StartAt = &s
	}
	if !end.IsZero() {
		e := end.UTC()
		slot.EndAt = &e
	}
	return slot
}
