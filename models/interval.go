package models

// IntervalKind tags every interval on the merged timeline.
type IntervalKind string

const (
	KindWorking         IntervalKind = "WORKING"
	KindOverride        IntervalKind = "OVERRIDE"
	KindBlocked         IntervalKind = "BLOCKED"
	KindDerivedWorking  IntervalKind = "DERIVED_WORKING"
	KindDerivedOverride IntervalKind = "DERIVED_OVERRIDE"
	KindBooking         IntervalKind = "BOOKING"
)

// Occupiable reports whether time of this kind can be offered to customers.
func (k IntervalKind) Occupiable() bool {
	switch k {
	case KindWorking, KindOverride, KindDerivedWorking, KindDerivedOverride:
		return true
	}
	return false
}

// Derived returns the kind given to the pieces of an interval split by a block.
func (k IntervalKind) Derived() IntervalKind {
	switch k {
	case KindWorking:
		return KindDerivedWorking
	case KindOverride:
		return KindDerivedOverride
	}
	return k
}

// Interval is one entry on an artist's merged daily timeline.
type Interval struct {
	ID       string       `json:"id"`                 // Synthetic id of the record the interval came from
	SourceID string       `json:"sourceId,omitempty"` // Id of the stored record, when there is one
	Date     string       `json:"date"`               // Local calendar date "2006-01-02"
	Start    int          `json:"start"`              // Minutes from local midnight
	End      int          `json:"end"`                // Minutes from local midnight, exclusive, at most 1440
	Kind     IntervalKind `json:"kind"`
	Note     string       `json:"note,omitempty"`
}

// WeekSlots is the merged timeline of one artist for one week.
type WeekSlots struct {
	ArtistID        string     `json:"artistId"`
	WeekStart       string     `json:"weekStart"`
	Timezone        string     `json:"timezone"`
	Slots           []Interval `json:"slots"`
	PendingBookings []Interval `json:"pendingBookings"`
}
