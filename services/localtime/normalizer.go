// Package localtime converts between absolute instants and the wall-clock
// representation used by the availability engine: a local calendar date plus
// minutes from local midnight in the business timezone.
package localtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	MinutesPerDay = 24 * 60
	DaysPerWeek   = 7
)

// Normalizer is bound to one business timezone.
type Normalizer struct {
	loc *time.Location
}

// New returns a Normalizer for loc. A nil location means UTC.
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ParseDate parses a "2006-01-02" date as local midnight.
func (n *Normalizer) ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d, nil
}

// ToAbsolute converts a local date and minutes from midnight to a UTC instant.
// Minutes may be 1440, which resolves to midnight of the following day.
func (n *Normalizer) ToAbsolute(date string, minutes int) (time.Time, error) {
	d, err := n.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, minutes, 0, 0, n.loc).UTC(), nil
}

// ToLocal converts an instant to its local date and minutes from midnight.
// Seconds are truncated.
func (n *Normalizer) ToLocal(t time.Time) (string, int) {
	lt := t.In(n.loc)
	return lt.Format(DateLayout), lt.Hour()*60 + lt.Minute()
}

// WeekStart returns local midnight of the Monday of the week containing t.
func (n *Normalizer) WeekStart(t time.Time) time.Time {
	lt := t.In(n.loc)
	midnight := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, n.loc)
	offset := (int(lt.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

// WeekStartOf returns the Monday of the week containing date.
func (n *Normalizer) WeekStartOf(date string) (string, error) {
	d, err := n.ParseDate(date)
	if err != nil {
		return "", err
	}
	return n.WeekStart(d).Format(DateLayout), nil
}

// WeekBounds returns the absolute half-open range [Monday 00:00, next Monday 00:00).
func (n *Normalizer) WeekBounds(weekStart string) (time.Time, time.Time, error) {
	d, err := n.ParseDate(weekStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return d.UTC(), d.AddDate(0, 0, DaysPerWeek).UTC(), nil
}

// WeekDates lists the seven local dates of the week, Monday first.
func (n *Normalizer) WeekDates(weekStart string) ([]string, error) {
	d, err := n.ParseDate(weekStart)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		dates = append(dates, d.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates, nil
}

// DateOfWeekday returns the date within the week starting at weekStart that
// falls on wd.
func (n *Normalizer) DateOfWeekday(weekStart string, wd time.Weekday) (string, error) {
	d, err := n.ParseDate(weekStart)
	if err != nil {
		return "", err
	}
	offset := (int(wd) + 6) % 7
	return d.AddDate(0, 0, offset).Format(DateLayout), nil
}

// DayPiece is the part of an absolute range that falls on one local day.
type DayPiece struct {
	Date  string
	Start int
	End   int
}

// SplitByDay cuts the half-open range [start, end) at local midnights.
// An empty or reversed range yields no pieces.
func (n *Normalizer) SplitByDay(start, end time.Time) []DayPiece {
	var pieces []DayPiece
	for cur := start; cur.Before(end); {
		date, from := n.ToLocal(cur)
		lt := cur.In(n.loc)
		nextMidnight := time.Date(lt.Year(), lt.Month(), lt.Day()+1, 0, 0, 0, 0, n.loc)

		to := MinutesPerDay
		stop := nextMidnight
		if end.Before(nextMidnight) {
			stop = end
			_, to = n.ToLocal(end)
		}
		if to > from {
			pieces = append(pieces, DayPiece{Date: date, Start: from, End: to})
		}
		cur = stop
	}
	return pieces
}

// ParseClock parses a "HH:MM" wall-clock time into minutes from midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// LoadLocation resolves an IANA zone name or a fixed offset such as "+05:30",
// "-03:00", "UTC+02:00" or "GMT-5". An empty name is UTC.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	offset := name
	for _, prefix := range []string{"UTC", "GMT"} {
		if strings.HasPrefix(offset, prefix) && len(offset) > len(prefix) {
			offset = offset[len(prefix):]
		}
	}
	if strings.HasPrefix(offset, "+") || strings.HasPrefix(offset, "-") {
		secs, err := parseOffset(offset)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
		}
		return time.FixedZone(name, secs), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func parseOffset(s string) (int, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	body := s[1:]
	hh, mm, hasMinutes := strings.Cut(body, ":")
	if !hasMinutes && len(body) == 4 {
		hh, mm = body[:2], body[2:]
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, err
	}
	m := 0
	if mm != "" {
		if m, err = strconv.Atoi(mm); err != nil {
			return 0, err
		}
	}
	if h > 14 || m > 59 {
		return 0, fmt.Errorf("offset out of range")
	}
	return sign * (h*3600 + m*60), nil
}
