package entity

import "time"

// EventTime is either a precise instant or an all-day date marker, never both.
type EventTime struct {
	DateTime *time.Time // set for timed events
	Date     string     // YYYY-MM-DD, set for all-day events
}

// AllDay reports whether the time is a date-only all-day marker.
func (t EventTime) AllDay() bool {
	return t.Date != ""
}

// CalendarEvent is one event as returned by the calendar provider.
// Instances are immutable once fetched; the cache replaces them wholesale on refresh.
type CalendarEvent struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       EventTime
	End         EventTime
}
