package models

// SnapshotWarmupPayload asks a worker to rebuild cached weeks for an artist.
type SnapshotWarmupPayload struct {
	ArtistID   string   `json:"artistId"`
	WeekStarts []string `json:"weekStarts"` // Mondays, "2006-01-02"
	Reason     string   `json:"reason"`     // e.g. "template_updated"
}
