package clock

import "time"

// Clock yields calendar dates in a fixed location.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

// New returns a Clock reading now in loc. A nil now uses time.Now and a nil
// loc uses UTC.
func New(now func() time.Time, loc *time.Location) Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return Clock{now: now, loc: loc}
}

// Now returns the current instant.
func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Today returns the current calendar date as midnight UTC.
func (c Clock) Today() time.Time {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return Date(c.Now().In(loc))
}

// Date drops the clock time of t, keeping its calendar day as midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}
