package domain

import (
	"time"

	"github.com/suldsma/PROGIII-API/pkg/types"
)

// TimeRange is a half-open interval [Start, End) within one day
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// IsValid returns true if both bounds parse and Start < End
func (r TimeRange) IsValid() bool {
	return r.Start.Validate() == nil && r.End.Validate() == nil && r.Start.IsBefore(r.End)
}

// Overlaps reports whether two ranges intersect.
// [a,b) and [c,d) overlap iff a < d && c < b, so touching ranges do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.IsBefore(other.End) && other.Start.IsBefore(r.End)
}

// TimeSlot represents a reusable time window ("turno") that any hall can be booked for
type TimeSlot struct {
	ID        int64
	Ordinal   int
	StartTime types.TimeString
	EndTime   types.TimeString
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the slot as a time range
func (s *TimeSlot) Range() TimeRange {
	return TimeRange{Start: s.StartTime, End: s.EndTime}
}

// TimeSlotFilter фильтр для списка временных слотов
type TimeSlotFilter struct {
	IncludeInactive bool
}
