package service

import (
	"time"

	"calreminder/internal/domain/constant"
)

// reminderLocation is the fixed timezone reminders and digests are anchored to.
var reminderLocation = constant.ReminderLocation()

// nextFireTime computes the next instant at or after now whose wall clock in
// loc reads hour:minute. Crossing a DST transition, the local wall-clock time
// is honored rather than a fixed interval.
func nextFireTime(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}
