package models

import "time"

// RawSlot is one pre-merge record held in a weekly snapshot. Kind selects
// which fields are meaningful: WORKING uses Weekday/StartTime/EndTime,
// OVERRIDE and BLOCKED use StartAt/EndAt.
type RawSlot struct {
	ID        string       `json:"id"`
	SourceID  string       `json:"sourceId,omitempty"`
	Kind      IntervalKind `json:"kind"`
	Weekday   time.Weekday `json:"weekday"`
	StartTime string       `json:"startTime,omitempty"`
	EndTime   string       `json:"endTime,omitempty"`
	StartAt   *time.Time   `json:"startAt,omitempty"`
	EndAt     *time.Time   `json:"endAt,omitempty"`
	Note      string       `json:"note,omitempty"`
}

// WeeklySnapshot is the cached raw data of one artist for one week.
type WeeklySnapshot struct {
	ArtistID     string             `json:"artistId"`
	WeekStart    string             `json:"weekStart"` // Monday, "2006-01-02" in the business timezone
	RawIntervals map[string]RawSlot `json:"rawIntervals"`
	BuiltAt      time.Time          `json:"builtAt"`
}

// WeekRecords is what the repository returns for one artist-week.
type WeekRecords struct {
	Templates []WorkingTemplate
	Overrides []OverrideSlot
	Blocks    []BlockedSlot
}
