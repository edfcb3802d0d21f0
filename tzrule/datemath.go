package tzrule

import "github.com/ngrash/go-tztime/internal/unixtime"

// dayOfWeek returns the day of the week for a given date,
// where 0=Sunday, 1=Monday, ..., 6=Saturday.
func dayOfWeek(year int64, month, day int) int {
	return (unixtime.Weekday(year, month, day) + 1) % 7
}

// lastWeekdayOfMonth finds the last instance of a given weekday in a specific month and year.
func lastWeekdayOfMonth(year int64, month, weekday int) int {
	lastDay := unixtime.DaysIn(year, month)
	lastDayWeekday := dayOfWeek(year, month, lastDay)

	// Calculate how many days to subtract from the last day to get the last instance of the given weekday.
	offset := (lastDayWeekday - weekday + 7) % 7
	return lastDay - offset
}

// firstWeekdayOfMonth finds the first instance of a given weekday in a specific month and year.
func firstWeekdayOfMonth(year int64, month, weekday int) int {
	diff := weekday - dayOfWeek(year, month, 1)
	if diff < 0 {
		diff += 7 // Ensure a positive difference
	}
	return 1 + diff
}
