package constant

import "time"

// ReminderTimezone is the IANA zone every reminder wall-clock computation is
// anchored to: cron evaluation, next-fire calculation, and digest rendering
// all derive from it so they can never disagree.
const ReminderTimezone = "America/New_York"

var reminderLocation = mustLoadLocation(ReminderTimezone)

// ReminderLocation returns the loaded reminder timezone.
func ReminderLocation() *time.Location {
	return reminderLocation
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("failed to load timezone " + name + ": " + err.Error())
	}
	return loc
}
