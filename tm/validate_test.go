package tm

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// base is the reference tuple (1900, 1, 1, 0, 0, 0, 0, 1, -1).
func base() BrokenDown {
	return BrokenDown{Year: 1900, Month: 1, Day: 1, Weekday: 0, YearDay: 1, IsDST: -1}
}

func TestNormalize_Bounds(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*BrokenDown)
		field string // empty when the value is accepted
	}{
		{"month 0", func(b *BrokenDown) { b.Month = 0 }, ""},
		{"month 12", func(b *BrokenDown) { b.Month = 12 }, ""},
		{"month -1", func(b *BrokenDown) { b.Month = -1 }, "month"},
		{"month 13", func(b *BrokenDown) { b.Month = 13 }, "month"},
		{"day 0", func(b *BrokenDown) { b.Day = 0 }, ""},
		{"day 31", func(b *BrokenDown) { b.Day = 31 }, ""},
		{"day -1", func(b *BrokenDown) { b.Day = -1 }, "day"},
		{"day 32", func(b *BrokenDown) { b.Day = 32 }, "day"},
		{"hour 23", func(b *BrokenDown) { b.Hour = 23 }, ""},
		{"hour -1", func(b *BrokenDown) { b.Hour = -1 }, "hour"},
		{"hour 24", func(b *BrokenDown) { b.Hour = 24 }, "hour"},
		{"minute 59", func(b *BrokenDown) { b.Minute = 59 }, ""},
		{"minute -1", func(b *BrokenDown) { b.Minute = -1 }, "minute"},
		{"minute 60", func(b *BrokenDown) { b.Minute = 60 }, "minute"},
		{"second 60", func(b *BrokenDown) { b.Second = 60 }, ""},
		{"second 61", func(b *BrokenDown) { b.Second = 61 }, ""},
		{"second -1", func(b *BrokenDown) { b.Second = -1 }, "second"},
		{"second 62", func(b *BrokenDown) { b.Second = 62 }, "second"},
		{"weekday 6", func(b *BrokenDown) { b.Weekday = 6 }, ""},
		{"weekday 100", func(b *BrokenDown) { b.Weekday = 100 }, ""},
		{"weekday -1", func(b *BrokenDown) { b.Weekday = -1 }, ""},
		{"weekday max int", func(b *BrokenDown) { b.Weekday = math.MaxInt }, ""},
		{"weekday -2", func(b *BrokenDown) { b.Weekday = -2 }, "weekday"},
		{"weekday -8", func(b *BrokenDown) { b.Weekday = -8 }, "weekday"},
		{"year day 0", func(b *BrokenDown) { b.YearDay = 0 }, ""},
		{"year day 366", func(b *BrokenDown) { b.YearDay = 366 }, ""},
		{"year day -1", func(b *BrokenDown) { b.YearDay = -1 }, "year day"},
		{"year day 367", func(b *BrokenDown) { b.YearDay = 367 }, "year day"},
		{"year 1899", func(b *BrokenDown) { b.Year = 1899 }, "year"},
		{"year -1", func(b *BrokenDown) { b.Year = -1 }, "year"},
		{"year 100", func(b *BrokenDown) { b.Year = 100 }, "year"},
		{"year max", func(b *BrokenDown) { b.Year = 1<<31 - 1 }, ""},
		{"year max+1", func(b *BrokenDown) { b.Year = 1 << 31 }, "year"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := base()
			c.edit(&in)
			_, err := Normalize(in, Limits{})
			if c.field == "" {
				if err != nil {
					t.Fatalf("Normalize(%+v) failed: %v", in, err)
				}
				return
			}
			if !errors.Is(err, ErrRange) {
				t.Fatalf("Normalize(%+v) = %v, want ErrRange", in, err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != c.field {
				t.Errorf("Normalize(%+v) error %v does not name field %q", in, err, c.field)
			}
		})
	}
}

func TestNormalize_WeekdayFold(t *testing.T) {
	minus := base()
	minus.Weekday = -1
	six := base()
	six.Weekday = 6

	got, err := Normalize(minus, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	want, err := Normalize(six, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("weekday -1 and 6 differ (-want +got):\n%s", diff)
	}

	seven := base()
	seven.Weekday = 7
	got, err = Normalize(seven, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Weekday != 0 {
		t.Errorf("weekday 7 normalized to %d, want 0", got.Weekday)
	}

	// A multiple of 7 folds like weekday 0.
	huge := base()
	huge.Weekday = math.MaxInt - math.MaxInt%7
	got, err = Normalize(huge, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Weekday != base().Weekday {
		t.Errorf("weekday %d normalized to %d, want %d", huge.Weekday, got.Weekday, base().Weekday)
	}
}

func TestNormalize_AllZero(t *testing.T) {
	got, err := Normalize(BrokenDown{}, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	want := BrokenDown{Year: 2000, Month: 1, Day: 1, Weekday: 0, YearDay: 1, IsDST: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize(zero) mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_TwoDigitYears(t *testing.T) {
	cases := []struct {
		in     int64
		reject bool
		want   int64
		ok     bool
	}{
		{0, false, 2000, true},
		{68, false, 2068, true},
		{69, false, 1969, true},
		{99, false, 1999, true},
		{99, true, 0, false},
		{0, true, 0, false},
		{1900, true, 1900, true},
	}
	for _, c := range cases {
		in := base()
		in.Year = c.in
		got, err := Normalize(in, Limits{Reject2DigitYears: c.reject})
		if c.ok != (err == nil) {
			t.Errorf("Normalize(year=%d, reject=%v) error = %v, want ok=%v", c.in, c.reject, err, c.ok)
			continue
		}
		if c.ok && got.Year != c.want {
			t.Errorf("Normalize(year=%d) year = %d, want %d", c.in, got.Year, c.want)
		}
	}
}

func TestLimits(t *testing.T) {
	if got := (Limits{}).MaxYear(); got != 1<<31-1 {
		t.Errorf("MaxYear() = %d", got)
	}
	if got := (Limits{YearBits: 16}).MaxYear(); got != 32767 {
		t.Errorf("MaxYear(16) = %d", got)
	}
	if got := (Limits{YearBits: 16}).MinYear(); got != -32768 {
		t.Errorf("MinYear(16) = %d", got)
	}
	if err := (Limits{YearBits: 64}).Check(); !errors.Is(err, ErrValue) {
		t.Errorf("Check(64) = %v, want ErrValue", err)
	}
}

func TestFromTuple(t *testing.T) {
	for _, n := range []int{0, 1, 8, 10} {
		if _, err := FromTuple(make([]int64, n)); !errors.Is(err, ErrType) {
			t.Errorf("FromTuple(%d fields) = %v, want ErrType", n, err)
		}
	}

	got, err := FromTuple([]int64{2002, 12, 25, 1, 2, 3, 2, 359, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := BrokenDown{Year: 2002, Month: 12, Day: 25, Hour: 1, Minute: 2, Second: 3, Weekday: 2, YearDay: 359, IsDST: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromTuple mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([9]int64{2002, 12, 25, 1, 2, 3, 2, 359, 0}, got.Tuple()); diff != "" {
		t.Errorf("Tuple mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromTuple([]int64{2002, 1 << 40, 1, 0, 0, 0, 0, 1, -1}); !errors.Is(err, ErrRange) {
		t.Errorf("FromTuple(huge month) = %v, want ErrRange", err)
	}
}
