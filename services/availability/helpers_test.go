package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studiobook/models"
	"studiobook/services/localtime"
)

var utc = localtime.New(time.UTC)

func at(t *testing.T, date, clock string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.UTC)
	require.NoError(t, err)
	return ts
}

func workingRaw(id string, wd time.Weekday, start, end string) models.RawSlot {
	return models.RawSlot{ID: id, SourceID: id, Kind: models.KindWorking, Weekday: wd, StartTime: start, EndTime: end}
}

func rangeRaw(id string, kind models.IntervalKind, start, end time.Time) models.RawSlot {
	return models.RawSlot{ID: id, SourceID: id, Kind: kind, StartAt: &start, EndAt: &end}
}

func snapshotOf(weekStart string, raws ...models.RawSlot) *models.WeeklySnapshot {
	snap := &models.WeeklySnapshot{
		ArtistID:     "artist-1",
		WeekStart:    weekStart,
		RawIntervals: make(map[string]models.RawSlot, len(raws)),
	}
	for _, r := range raws {
		snap.RawIntervals[r.ID] = r
	}
	return snap
}

type simple struct {
	Date  string
	Start int
	End   int
	Kind  models.IntervalKind
}

func simplify(ivs []models.Interval) []simple {
	out := make([]simple, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, simple{iv.Date, iv.Start, iv.End, iv.Kind})
	}
	return out
}

func onDate(ivs []models.Interval, date string) []models.Interval {
	var out []models.Interval
	for _, iv := range ivs {
		if iv.Date == date {
			out = append(out, iv)
		}
	}
	return out
}
