package localtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAbsoluteAndBack(t *testing.T) {
	loc, err := LoadLocation("+05:30")
	require.NoError(t, err)
	n := New(loc)

	abs, err := n.ToAbsolute("2024-06-03", 9*60)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 3, 30, 0, 0, time.UTC), abs)

	date, minutes := n.ToLocal(abs)
	assert.Equal(t, "2024-06-03", date)
	assert.Equal(t, 540, minutes)
}

func TestToAbsoluteEndOfDay(t *testing.T) {
	n := New(time.UTC)
	abs, err := n.ToAbsolute("2024-06-03", MinutesPerDay)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), abs)
}

func TestWeekStart(t *testing.T) {
	n := New(time.UTC)
	cases := map[string]string{
		"2024-06-03": "2024-06-03", // Monday
		"2024-06-05": "2024-06-03",
		"2024-06-09": "2024-06-03", // Sunday
		"2024-06-10": "2024-06-10",
	}
	for in, want := range cases {
		got, err := n.WeekStartOf(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := n.WeekStartOf("03/06/2024")
	assert.Error(t, err)
}

func TestWeekStartUsesBusinessTimezone(t *testing.T) {
	loc, err := LoadLocation("+09:00")
	require.NoError(t, err)
	n := New(loc)

	// Sunday 20:00 UTC is already Monday morning in UTC+9.
	ws := n.WeekStart(time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-06-10", ws.Format(DateLayout))
}

func TestWeekDatesAndWeekday(t *testing.T) {
	n := New(time.UTC)
	dates, err := n.WeekDates("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06",
		"2024-06-07", "2024-06-08", "2024-06-09",
	}, dates)

	sunday, err := n.DateOfWeekday("2024-06-03", time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-09", sunday)

	monday, err := n.DateOfWeekday("2024-06-03", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", monday)
}

func TestSplitByDay(t *testing.T) {
	n := New(time.UTC)

	pieces := n.SplitByDay(
		time.Date(2024, 6, 3, 22, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 4, 2, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, []DayPiece{
		{Date: "2024-06-03", Start: 22 * 60, End: MinutesPerDay},
		{Date: "2024-06-04", Start: 0, End: 120},
	}, pieces)

	pieces = n.SplitByDay(
		time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, []DayPiece{{Date: "2024-06-03", Start: 600, End: MinutesPerDay}}, pieces)

	same := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	assert.Empty(t, n.SplitByDay(same, same))
	assert.Empty(t, n.SplitByDay(same, same.Add(-time.Hour)))
}

func TestParseClock(t *testing.T) {
	for in, want := range map[string]int{"00:00": 0, "09:30": 570, "24:00": 1440, "7:05": 425} {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "9", "25:00", "24:30", "10:60", "ab:cd", "-1:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "09:05", FormatClock(545))
}

func TestLoadLocation(t *testing.T) {
	for _, name := range []string{"+05:30", "-0300", "UTC+02:00", "GMT-5"} {
		loc, err := LoadLocation(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, loc.String())
	}

	loc, err := LoadLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadLocation("+99:00")
	assert.Error(t, err)
	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}
