package domain

import (
	"fmt"
	"time"
)

// ClockTime is a local wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime reads a 24-hour "HH:MM" value.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, NewValidationErrorWithValue("notificationTime", "must be HH:MM (24-hour)", s)
	}

	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats the time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Next returns the first instant strictly after now that falls on this time
// of day in now's location.
func (c ClockTime) Next(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, c.Hour, c.Minute, 0, 0, now.Location())
	}

	return next
}
