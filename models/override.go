package models

import "time"

// OverrideSlot replaces the working template for the calendar day(s) it falls on.
type OverrideSlot struct {
	ID        string    `bson:"id" json:"id"`
	ArtistID  string    `bson:"artist_id" json:"artist_id"`
	StartAt   time.Time `bson:"start_at" json:"start_at"` // Absolute instant (UTC)
	EndAt     time.Time `bson:"end_at" json:"end_at"`     // Absolute instant (UTC), exclusive
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
