// Package unixtime converts between Unix seconds and proleptic Gregorian calendar
// dates. It ignores leap seconds but respects leap years.
//
// The arithmetic is based on the Go standard library's time package but works on
// int64 years and does not depend on time.Location or on time.Time's year range.
package unixtime

// FromDateTime converts a given date and time to a Unix timestamp, i.e. the number of
// seconds since 1970-01-01 00:00:00 UTC.
//
// Fields outside their usual range roll over linearly, the way C mktime does:
// month 13 is January of the next year, day 0 is the last day of the previous month
// and second 60 is the first second of the next minute.
// The result is correct whenever it fits in an int64 and year is not earlier than
// absoluteZeroYear.
func FromDateTime(year int64, month, day, hour, minute, second int) int64 {
	m := month - 1
	year += int64(floorDiv(m, 12))
	m = floorMod(m, 12)

	d := daysSinceEpoch(year) + uint64(daysBefore[m])
	if m >= 2 && IsLeapYear(year) {
		d++ // +leap year
	}
	// Negative offsets wrap around; the sum is correct modulo 2^64.
	d += uint64(int64(day) - 1)
	abs := d*secondsPerDay +
		uint64(int64(hour)*secondsPerHour) +
		uint64(int64(minute)*secondsPerMinute) +
		uint64(int64(second))
	return int64(abs) + (absoluteToInternal + internalToUnix)
}

// DateTime is the calendar decomposition of a Unix timestamp.
type DateTime struct {
	Year    int64
	Month   int // 1..12
	Day     int // 1..31
	Hour    int
	Minute  int
	Second  int
	Weekday int // Monday = 0
	YearDay int // 1..366
}

// ToDateTime is the inverse of FromDateTime for in-range fields.
func ToDateTime(unix int64) DateTime {
	abs := uint64(unix) + unixToAbsolute
	days := abs / secondsPerDay
	secs := int(abs % secondsPerDay)

	var dt DateTime
	dt.Hour = secs / secondsPerHour
	dt.Minute = secs % secondsPerHour / secondsPerMinute
	dt.Second = secs % secondsPerMinute
	// Day zero of the absolute epoch is a Monday.
	dt.Weekday = int(days % 7)

	var year uint64
	d := days

	// Account for 400 year cycles.
	n := d / daysPer400Years
	year = 400 * n
	d -= daysPer400Years * n

	// Cut off 100-year cycles.
	// The last cycle has one extra leap year, so on the last day
	// of that year, day / daysPer100Years will be 4 instead of 3.
	// Cut it back down to 3 by subtracting n>>2.
	n = d / daysPer100Years
	n -= n >> 2
	year += 100 * n
	d -= daysPer100Years * n

	// Cut off 4-year cycles.
	n = d / daysPer4Years
	year += 4 * n
	d -= daysPer4Years * n

	// Cut off years within a 4-year cycle.
	// The last year is a leap year, so on the last day of that year,
	// day / 365 will be 4 instead of 3. Cut it back down to 3
	// by subtracting n>>2.
	n = d / 365
	n -= n >> 2
	year += n
	d -= 365 * n

	dt.Year = int64(year) + absoluteZeroYear
	dt.YearDay = int(d) + 1
	dt.Month, dt.Day = monthDay(dt.Year, int(d))
	return dt
}

// monthDay splits a zero-based day of the year into month and day of month.
func monthDay(year int64, yday int) (month, day int) {
	day = yday
	if IsLeapYear(year) {
		switch {
		case day > 31+29-1:
			// After leap day; pretend it wasn't there.
			day--
		case day == 31+29-1:
			return 2, 29
		}
	}

	month = day / 31
	end := int(daysBefore[month+1])
	var begin int
	if day >= end {
		month++
		begin = end
	} else {
		begin = int(daysBefore[month])
	}
	return month + 1, day - begin + 1
}

// Weekday returns the day of the week of the given date, Monday = 0.
func Weekday(year int64, month, day int) int {
	return ToDateTime(FromDateTime(year, month, day, 0, 0, 0)).Weekday
}

// YearDay returns the 1-based day of the year of the given date.
func YearDay(year int64, month, day int) int {
	yd := int(daysBefore[month-1]) + day
	if month > 2 && IsLeapYear(year) {
		yd++
	}
	return yd
}

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the given month of year.
func DaysIn(year int64, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return int(daysBefore[month] - daysBefore[month-1])
}

// The constants were copied from time.go in the Go standard library's time package.
const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	daysPer400Years  = 365*400 + 97
	daysPer100Years  = 365*100 + 24
	daysPer4Years    = 365*4 + 1

	absoluteZeroYear         = -292277022399
	internalYear             = 1
	absoluteToInternal int64 = (absoluteZeroYear - internalYear) * 365.2425 * secondsPerDay
	unixToInternal     int64 = (1969*365 + 1969/4 - 1969/100 + 1969/400) * secondsPerDay
	internalToUnix     int64 = -unixToInternal

	unixToAbsolute = uint64(-(absoluteToInternal + internalToUnix))
)

// daysBefore[m] counts the number of days in a non-leap year
// before month m begins. There is an entry for m=12, counting
// the number of days before January of next year (365).
var daysBefore = [...]int32{
	0,
	31,
	31 + 28,
	31 + 28 + 31,
	31 + 28 + 31 + 30,
	31 + 28 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30,
	31 + 28 + 31 + 30 + 31 + 30 + 31 + 31 + 30 + 31 + 30 + 31,
}

// daysSinceEpoch takes a year and returns the number of days from
// the absolute epoch to the start of that year.
// This is basically (year - zeroYear) * 365, but accounting for leap days.
func daysSinceEpoch(year int64) uint64 {
	y := uint64(year - absoluteZeroYear)

	// Add in days from 400-year cycles.
	n := y / 400
	y -= 400 * n
	d := daysPer400Years * n

	// Add in 100-year cycles.
	n = y / 100
	y -= 100 * n
	d += daysPer100Years * n

	// Add in 4-year cycles.
	n = y / 4
	y -= 4 * n
	d += daysPer4Years * n

	// Add in non-leap years.
	n = y
	d += 365 * n

	return d
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
