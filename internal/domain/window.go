package domain

import "time"

// WindowStart returns the start of the day daysAgo days before now, in now's location.
// A day falling on a weekend is moved back to the preceding Friday.
// daysAgo must not be negative; callers validate it.
func WindowStart(daysAgo int, now time.Time) time.Time {
	day := now.AddDate(0, 0, -daysAgo)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())

	switch start.Weekday() {
	case time.Saturday:
		start = start.AddDate(0, 0, -1)
	case time.Sunday:
		start = start.AddDate(0, 0, -2)
	}
	return start
}
