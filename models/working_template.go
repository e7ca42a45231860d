package models

import "time"

// WorkingTemplate is an artist's recurring working hours for one weekday.
type WorkingTemplate struct {
	ID        string       `bson:"id" json:"id"`
	ArtistID  string       `bson:"artist_id" json:"artist_id"`
	Weekday   time.Weekday `bson:"weekday" json:"weekday"`       // 0 = Sunday ... 6 = Saturday
	StartTime string       `bson:"start_time" json:"start_time"` // Wall clock "HH:MM" in the business timezone
	EndTime   string       `bson:"end_time" json:"end_time"`     // Wall clock "HH:MM", "24:00" allowed
	Note      string       `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
}
