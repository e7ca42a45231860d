package models

import "time"

// BlockedSlot is a time range during which the artist cannot be booked.
type BlockedSlot struct {
	ID        string    `bson:"id" json:"id"`                             // Unique identifier for the block
	ArtistID  string    `bson:"artist_id" json:"artist_id"`               // Artist whose time is blocked
	StartAt   time.Time `bson:"start_at" json:"start_at"`                 // Absolute instant (UTC)
	EndAt     time.Time `bson:"end_at" json:"end_at"`                     // Absolute instant (UTC), exclusive
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"` // e.g. "holiday", "equipment maintenance"
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
