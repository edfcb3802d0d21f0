package tm

import "fmt"

const (
	defaultYearBits = 32
	minYearBits     = 16
	maxYearBits     = 38
)

// Limits configures the year bounds and the two-digit-year policy.
// The zero value models a 32-bit signed year and accepts two-digit years.
type Limits struct {
	// YearBits is the width of the signed integer that holds a year.
	// Zero means 32. Values outside [16, 38] are rejected by Check.
	YearBits int
	// Reject2DigitYears disables mapping of years 0..99 onto 1969..2068.
	Reject2DigitYears bool
}

// Check reports whether the limits are usable.
func (l Limits) Check() error {
	if l.YearBits == 0 {
		return nil
	}
	if l.YearBits < minYearBits || l.YearBits > maxYearBits {
		return fmt.Errorf("%w: year bits %d not in [%d, %d]", ErrValue, l.YearBits, minYearBits, maxYearBits)
	}
	return nil
}

func (l Limits) bits() int {
	if l.YearBits == 0 {
		return defaultYearBits
	}
	return l.YearBits
}

// MaxYear is the largest representable year, 2^(bits-1) - 1.
func (l Limits) MaxYear() int64 {
	return 1<<(l.bits()-1) - 1
}

// MinYear is the smallest year a conversion may produce, -2^(bits-1).
func (l Limits) MinYear() int64 {
	return -(1 << (l.bits() - 1))
}

// ExpandYear applies the two-digit-year policy: 69..99 map onto 1969..1999 and
// 0..68 onto 2000..2068. Other years are returned unchanged.
func (l Limits) ExpandYear(y int64) int64 {
	if l.Reject2DigitYears {
		return y
	}
	switch {
	case 69 <= y && y <= 99:
		return y + 1900
	case 0 <= y && y <= 68:
		return y + 2000
	}
	return y
}

// Normalize validates b and returns its canonical form.
//
// Zero is accepted for every field: month, day and year day default to 1 and a
// zero year is a two-digit year (2000) unless two-digit years are rejected.
// The first invalid field is reported as a *FieldError.
func Normalize(b BrokenDown, l Limits) (BrokenDown, error) {
	if err := l.Check(); err != nil {
		return BrokenDown{}, err
	}

	y := l.ExpandYear(b.Year)
	if y < BaseYear || y > l.MaxYear() {
		return BrokenDown{}, &FieldError{Field: "year", Value: b.Year, Min: BaseYear, Max: l.MaxYear()}
	}
	b.Year = y

	checks := []struct {
		name     string
		v        *int
		min, max int
	}{
		{"month", &b.Month, 0, 12},
		{"day", &b.Day, 0, 31},
		{"hour", &b.Hour, 0, 23},
		{"minute", &b.Minute, 0, 59},
		{"second", &b.Second, 0, 61}, // two leap seconds
	}
	for _, c := range checks {
		if *c.v < c.min || *c.v > c.max {
			return BrokenDown{}, &FieldError{Field: c.name, Value: int64(*c.v), Min: int64(c.min), Max: int64(c.max)}
		}
	}

	wd, err := foldWeekday(b.Weekday)
	if err != nil {
		return BrokenDown{}, err
	}
	b.Weekday = wd

	if b.YearDay < 0 || b.YearDay > 366 {
		return BrokenDown{}, &FieldError{Field: "year day", Value: int64(b.YearDay), Min: 0, Max: 366}
	}

	if b.Month == 0 {
		b.Month = 1
	}
	if b.Day == 0 {
		b.Day = 1
	}
	if b.YearDay == 0 {
		b.YearDay = 1
	}
	switch {
	case b.IsDST < 0:
		b.IsDST = -1
	case b.IsDST > 0:
		b.IsDST = 1
	}
	return b, nil
}

// foldWeekday has no upper bound: the value is incremented and then reduced
// modulo 7, which is why -1 is accepted and equals 6 while -2 is rejected.
// This keeps the historical increment-before-modulo behaviour; do not simplify it.
// The reduction happens before the increment so that no value overflows.
func foldWeekday(w int) (int, error) {
	if w < -1 {
		return 0, &FieldError{Field: "weekday", Value: int64(w), Min: -1, Max: 6}
	}
	sunday := (w%7 + 1) % 7 // Sunday = 0
	return (sunday + 6) % 7, nil
}

// SundayWeekday converts a Monday = 0 weekday into the Sunday = 0 numbering used by
// the %w and %U directives.
func SundayWeekday(w int) int {
	return (w + 1) % 7
}
