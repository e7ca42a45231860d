package availability

import (
	"fmt"

	"studiobook/models"
	"studiobook/services/interval"
	"studiobook/services/localtime"
)

// SliceDay cuts the occupiable time of one date into consecutive windows of
// durationMinutes. Bookings on that date are subtracted first and any
// remainder shorter than the duration is dropped.
func SliceDay(slots []models.Interval, date, serviceID string, durationMinutes int, tz *localtime.Normalizer) ([]models.BookableWindow, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", models.ErrInvalidArgument, durationMinutes)
	}

	var free, booked []models.Interval
	for _, iv := range slots {
		if iv.Date != date {
			continue
		}
		switch {
		case iv.Kind.Occupiable():
			free = append(free, iv)
		case iv.Kind == models.KindBooking:
			booked = append(booked, iv)
		}
	}

	for _, b := range booked {
		free = carve(free, span(b))
	}
	sortByStart(free)

	var windows []models.BookableWindow
	for _, iv := range free {
		if iv.Start >= iv.End {
			continue
		}
		for _, step := range interval.Steps(span(iv), durationMinutes) {
			startAt, err := tz.ToAbsolute(date, step.Start)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
			}
			endAt, err := tz.ToAbsolute(date, step.End)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
			}
			windows = append(windows, models.BookableWindow{
				Date:      date,
				Start:     step.Start,
				End:       step.End,
				StartAt:   startAt,
				EndAt:     endAt,
				Label:     fmt.Sprintf("%s - %s", localtime.FormatClock(step.Start), localtime.FormatClock(step.End)),
				ServiceID: serviceID,
			})
		}
	}
	return windows, nil
}
