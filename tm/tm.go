// Package tm defines the broken-down time representation shared by the converter,
// the format engine and the parse engine, together with the validation rules that
// every consumer applies before using one.
package tm

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this module wraps exactly one of them so
// callers can classify failures with errors.Is.
var (
	// ErrRange means a field or a resulting year is outside its representable bounds.
	// Non-finite instants are range errors too.
	ErrRange = errors.New("out of range")
	// ErrValue means malformed input: an unknown directive, unparsable text or an
	// invalid timezone rule.
	ErrValue = errors.New("invalid value")
	// ErrType means the input has the wrong shape, e.g. a tuple with the wrong arity.
	ErrType = errors.New("invalid type")
)

// BaseYear is the smallest year accepted by Normalize.
const BaseYear = 1900

// NumFields is the number of fields of a BrokenDown in tuple form.
const NumFields = 9

// BrokenDown is the calendar and clock decomposition of an instant.
//
// Month, Day and YearDay are 1-based when produced by a conversion. Zero is accepted
// by Normalize as "unset" and maps to 1. Weekday counts from Monday = 0.
// IsDST is -1 (unknown), 0 (standard time) or 1 (daylight saving time).
type BrokenDown struct {
	Year    int64
	Month   int
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday int
	YearDay int
	IsDST   int
}

// Tuple returns the fields in their canonical order.
func (b BrokenDown) Tuple() [NumFields]int64 {
	return [NumFields]int64{
		b.Year, int64(b.Month), int64(b.Day),
		int64(b.Hour), int64(b.Minute), int64(b.Second),
		int64(b.Weekday), int64(b.YearDay), int64(b.IsDST),
	}
}

// FromTuple builds a BrokenDown from its nine fields in canonical order
// (year, month, day, hour, minute, second, weekday, year day, isdst).
// It fails with ErrType if the slice does not contain exactly nine fields and with
// ErrRange if a field other than the year does not fit an int.
func FromTuple(fields []int64) (BrokenDown, error) {
	if len(fields) != NumFields {
		return BrokenDown{}, fmt.Errorf("%w: broken-down time requires %d fields, got %d", ErrType, NumFields, len(fields))
	}
	small := make([]int, 0, NumFields-1)
	for i, f := range fields[1:] {
		if int64(int32(f)) != f {
			return BrokenDown{}, &FieldError{Field: fieldNames[i+1], Value: f, Min: -1 << 31, Max: 1<<31 - 1}
		}
		small = append(small, int(f))
	}
	return BrokenDown{
		Year:    fields[0],
		Month:   small[0],
		Day:     small[1],
		Hour:    small[2],
		Minute:  small[3],
		Second:  small[4],
		Weekday: small[5],
		YearDay: small[6],
		IsDST:   small[7],
	}, nil
}

var fieldNames = [NumFields]string{"year", "month", "day", "hour", "minute", "second", "weekday", "year day", "isdst"}

// FieldError reports a field outside its accepted range.
type FieldError struct {
	Field string
	Value int64
	Min   int64
	Max   int64
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s out of range: %d not in [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// Unwrap returns ErrRange.
func (e *FieldError) Unwrap() error {
	return ErrRange
}
