package availability

import (
	"sort"

	"studiobook/models"
	"studiobook/services/interval"
	"studiobook/services/localtime"
)

var kindOrder = map[models.IntervalKind]int{
	models.KindWorking:         0,
	models.KindOverride:        1,
	models.KindDerivedWorking:  2,
	models.KindDerivedOverride: 3,
	models.KindBlocked:         4,
	models.KindBooking:         5,
}

// Timeline is the merged view of one week.
type Timeline struct {
	Slots   []models.Interval
	Pending []models.Interval
}

// MergeWeek resolves templates, overrides, blocks and bookings into a single
// list of tagged intervals for the snapshot's week.
//
// Per day: any override replaces all working hours, every block is carved out
// of the remaining occupiable time and then reported as BLOCKED, and confirmed
// or completed bookings are appended as BOOKING without being subtracted.
// Pending bookings are returned separately.
func MergeWeek(snap *models.WeeklySnapshot, bookings []models.Booking, tz *localtime.Normalizer) (*Timeline, error) {
	plan, err := expandSnapshot(snap, tz)
	if err != nil {
		return nil, err
	}

	var slots []models.Interval
	for _, date := range plan.dates {
		day := plan.days[date]

		occupiable := day.working
		if len(day.overrides) > 0 {
			occupiable = day.overrides
		}
		for _, block := range day.blocks {
			occupiable = carve(occupiable, span(block))
		}

		slots = append(slots, occupiable...)
		slots = append(slots, day.blocks...)
	}

	timeline := &Timeline{Slots: slots}
	for _, iv := range bookingIntervals(bookings, plan, tz) {
		if iv.Note == string(models.BookingPending) {
			timeline.Pending = append(timeline.Pending, iv)
			continue
		}
		timeline.Slots = append(timeline.Slots, iv)
	}

	sortTimeline(timeline.Slots)
	sortTimeline(timeline.Pending)
	return timeline, nil
}

// OriginalWorking expands only the weekly templates of the snapshot.
func OriginalWorking(snap *models.WeeklySnapshot, tz *localtime.Normalizer) ([]models.Interval, error) {
	if _, err := newWeekPlan(snap.WeekStart, tz); err != nil {
		return nil, err
	}
	var out []models.Interval
	for _, id := range sortedIDs(snap.RawIntervals) {
		raw := snap.RawIntervals[id]
		if raw.Kind != models.KindWorking {
			continue
		}
		iv, ok, err := expandTemplate(raw, snap.WeekStart, tz)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, iv)
		}
	}
	sortTimeline(out)
	return out, nil
}

// carve subtracts cut from every interval. Pieces of a split are re-tagged
// with the derived kind of their parent.
func carve(ivs []models.Interval, cut interval.Span) []models.Interval {
	out := make([]models.Interval, 0, len(ivs)+1)
	for _, iv := range ivs {
		pieces, split := interval.Subtract(span(iv), cut)
		for _, p := range pieces {
			next := iv
			next.Start, next.End = p.Start, p.End
			if split {
				next.Kind = iv.Kind.Derived()
			}
			out = append(out, next)
		}
	}
	return out
}

// bookingIntervals turns confirmed, completed and pending bookings into
// per-day BOOKING intervals within the week. The booking status is kept in
// Note so callers can separate pending ones.
func bookingIntervals(bookings []models.Booking, plan *weekPlan, tz *localtime.Normalizer) []models.Interval {
	var out []models.Interval
	for _, b := range bookings {
		if !b.Status.Occupies() && b.Status != models.BookingPending {
			continue
		}
		for _, p := range tz.SplitByDay(b.StartAt, b.EndAt()) {
			if _, inWeek := plan.days[p.Date]; !inWeek {
				continue
			}
			out = append(out, models.Interval{
				ID:       "booking:" + b.ID,
				SourceID: b.ID,
				Date:     p.Date,
				Start:    p.Start,
				End:      p.End,
				Kind:     models.KindBooking,
				Note:     string(b.Status),
			})
		}
	}
	return out
}

func span(iv models.Interval) interval.Span {
	return interval.Span{Start: iv.Start, End: iv.End}
}

func sortTimeline(ivs []models.Interval) {
	sort.SliceStable(ivs, func(i, j int) bool {
		a, b := ivs[i], ivs[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return kindOrder[a.Kind] < kindOrder[b.Kind]
	})
}
