package model

import "time"

// DateLayout is the wire and storage format for check-in/check-out dates.
const DateLayout = "2006-01-02"

// Stay is the half-open date interval [CheckIn, CheckOut).  The guest
// sleeps the nights starting on CheckIn up to, but not including,
// CheckOut, so a stay ending on a day may be followed by one starting on
// the same day.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStay truncates both ends to their UTC calendar date.
func NewStay(checkIn, checkOut time.Time) Stay {
	return Stay{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
}

// Overlaps reports whether the two stays share at least one night.
func (s Stay) Overlaps(o Stay) bool {
	return s.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(s.CheckOut)
}

// Nights returns the number of nights in the stay, or 0 for an empty or
// inverted range.
func (s Stay) Nights() int {
	if !s.CheckIn.Before(s.CheckOut) {
		return 0
	}
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// Day returns t's calendar date as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into UTC midnight.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
