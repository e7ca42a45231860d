package availability

import (
	"fmt"
	"sort"
	"time"

	"studiobook/models"
	"studiobook/services/localtime"
)

// dayPlan collects the raw intervals that land on one local date.
type dayPlan struct {
	working   []models.Interval
	overrides []models.Interval
	blocks    []models.Interval
}

type weekPlan struct {
	dates []string
	days  map[string]*dayPlan
}

func newWeekPlan(weekStart string, tz *localtime.Normalizer) (*weekPlan, error) {
	dates, err := tz.WeekDates(weekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}
	plan := &weekPlan{dates: dates, days: make(map[string]*dayPlan, len(dates))}
	for _, d := range dates {
		plan.days[d] = &dayPlan{}
	}
	return plan, nil
}

// expandSnapshot places every raw record of the snapshot onto the days of its week.
func expandSnapshot(snap *models.WeeklySnapshot, tz *localtime.Normalizer) (*weekPlan, error) {
	plan, err := newWeekPlan(snap.WeekStart, tz)
	if err != nil {
		return nil, err
	}

	for _, id := range sortedIDs(snap.RawIntervals) {
		raw := snap.RawIntervals[id]
		switch raw.Kind {
		case models.KindWorking:
			iv, ok, err := expandTemplate(raw, snap.WeekStart, tz)
			if err != nil {
				return nil, err
			}
			if ok {
				day := plan.days[iv.Date]
				day.working = append(day.working, iv)
			}
		case models.KindOverride, models.KindBlocked:
			pieces, err := expandRange(raw, tz)
			if err != nil {
				return nil, err
			}
			for _, iv := range pieces {
				day, inWeek := plan.days[iv.Date]
				if !inWeek {
					continue
				}
				if raw.Kind == models.KindOverride {
					day.overrides = append(day.overrides, iv)
				} else {
					day.blocks = append(day.blocks, iv)
				}
			}
		default:
			return nil, models.NewMalformedIntervalError(id, fmt.Sprintf("unknown kind %q", raw.Kind))
		}
	}

	for _, day := range plan.days {
		sortByStart(day.working)
		sortByStart(day.overrides)
		sortByStart(day.blocks)
	}
	return plan, nil
}

// expandTemplate maps a weekly template onto its date within the week. A
// template whose start equals its end yields nothing.
func expandTemplate(raw models.RawSlot, weekStart string, tz *localtime.Normalizer) (models.Interval, bool, error) {
	if raw.StartTime == "" || raw.EndTime == "" {
		return models.Interval{}, false, models.NewMalformedIntervalError(raw.ID, "missing start or end time")
	}
	if raw.Weekday < time.Sunday || raw.Weekday > time.Saturday {
		return models.Interval{}, false, models.NewMalformedIntervalError(raw.ID, fmt.Sprintf("weekday %d out of range", raw.Weekday))
	}
	start, err := localtime.ParseClock(raw.StartTime)
	if err != nil {
		return models.Interval{}, false, models.NewMalformedIntervalError(raw.ID, err.Error())
	}
	end, err := localtime.ParseClock(raw.EndTime)
	if err != nil {
		return models.Interval{}, false, models.NewMalformedIntervalError(raw.ID, err.Error())
	}
	if end < start {
		return models.Interval{}, false, models.NewMalformedIntervalError(raw.ID, "end is before start")
	}
	if end == start {
		return models.Interval{}, false, nil
	}

	date, err := tz.DateOfWeekday(weekStart, raw.Weekday)
	if err != nil {
		return models.Interval{}, false, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}
	return models.Interval{
		ID:       raw.ID,
		SourceID: raw.SourceID,
		Date:     date,
		Start:    start,
		End:      end,
		Kind:     models.KindWorking,
		Note:     raw.Note,
	}, true, nil
}

// expandRange converts an absolute override or block into per-day local pieces.
func expandRange(raw models.RawSlot, tz *localtime.Normalizer) ([]models.Interval, error) {
	if raw.StartAt == nil || raw.EndAt == nil || raw.StartAt.IsZero() || raw.EndAt.IsZero() {
		return nil, models.NewMalformedIntervalError(raw.ID, "missing start or end instant")
	}
	if raw.EndAt.Before(*raw.StartAt) {
		return nil, models.NewMalformedIntervalError(raw.ID, "end is before start")
	}

	pieces := tz.SplitByDay(*raw.StartAt, *raw.EndAt)
	out := make([]models.Interval, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, models.Interval{
			ID:       raw.ID,
			SourceID: raw.SourceID,
			Date:     p.Date,
			Start:    p.Start,
			End:      p.End,
			Kind:     raw.Kind,
			Note:     raw.Note,
		})
	}
	return out, nil
}

func sortedIDs(m map[string]models.RawSlot) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortByStart(ivs []models.Interval) {
	sort.SliceStable(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		return ivs[i].End < ivs[j].End
	})
}
