package models

import "time"

// BookableWindow is a reservable block of time sized to one service.
type BookableWindow struct {
	Date      string    `json:"date"`  // Local calendar date
	Start     int       `json:"start"` // Minutes from midnight
	End       int       `json:"end"`   // Minutes from midnight
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Label     string    `json:"label"` // e.g., "09:00 - 09:30"
	ServiceID string    `json:"serviceId"`
}
