// Package caltime converts between seconds since the Unix epoch and broken-down
// calendar times in UTC and in the local zone, and provides the asctime, ctime,
// strftime and strptime conveniences on top of that.
package caltime

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ngrash/go-tztime/clock"
	"github.com/ngrash/go-tztime/internal/unixtime"
	"github.com/ngrash/go-tztime/names"
	"github.com/ngrash/go-tztime/strftime"
	"github.com/ngrash/go-tztime/strptime"
	"github.com/ngrash/go-tztime/tm"
	"github.com/ngrash/go-tztime/tzstate"
)

// Converter is the calendar converter. The zero value converts in UTC, reads the
// system clock and uses English names.
type Converter struct {
	// Zone is the local timezone; nil means UTC.
	Zone *tzstate.Zone
	// Clock is the source of the current time; nil means the system clock.
	Clock clock.Clock
	// Names is used by Strftime and Strptime; nil means names.English.
	Names  *names.Table
	Limits tm.Limits
	// StrictDirectives makes Strftime reject unknown directives.
	StrictDirectives bool
}

func (c *Converter) state() (*tzstate.State, error) {
	if c.Zone == nil {
		return tzstate.UTC, nil
	}
	return c.Zone.State()
}

// Tzset re-reads the zone rule. It is a no-op without a Zone.
func (c *Converter) Tzset() error {
	if c.Zone == nil {
		return nil
	}
	return c.Zone.Tzset()
}

// State returns the current timezone state.
func (c *Converter) State() (*tzstate.State, error) {
	return c.state()
}

// unix floors secs to whole seconds and checks that the instant falls into a
// representable year.
func (c *Converter) unix(secs float64) (int64, error) {
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("%w: invalid timestamp %v", tm.ErrRange, secs)
	}
	if err := c.Limits.Check(); err != nil {
		return 0, err
	}
	f := math.Floor(secs)
	lo, hi := c.window()
	if f < float64(lo) || f >= float64(hi) {
		return 0, fmt.Errorf("%w: timestamp %v out of range for %d-bit years", tm.ErrRange, secs, c.yearBits())
	}
	return int64(f), nil
}

// window returns the half-open range of representable Unix times.
func (c *Converter) window() (lo, hi int64) {
	lo = unixtime.FromDateTime(c.Limits.MinYear(), 1, 1, 0, 0, 0)
	hi = unixtime.FromDateTime(c.Limits.MaxYear()+1, 1, 1, 0, 0, 0)
	return lo, hi
}

func (c *Converter) checkInstant(unix int64) error {
	if lo, hi := c.window(); unix < lo || unix >= hi {
		return fmt.Errorf("%w: time %d out of range for %d-bit years", tm.ErrRange, unix, c.yearBits())
	}
	return nil
}

func (c *Converter) yearBits() int {
	if c.Limits.YearBits == 0 {
		return 32
	}
	return c.Limits.YearBits
}

func (c *Converter) breakDown(unix int64, offset int, isDST bool) (tm.BrokenDown, error) {
	dt := unixtime.ToDateTime(unix + int64(offset))
	if dt.Year < c.Limits.MinYear() || dt.Year > c.Limits.MaxYear() {
		return tm.BrokenDown{}, fmt.Errorf("%w: year %d out of range", tm.ErrRange, dt.Year)
	}
	b := tm.BrokenDown{
		Year:    dt.Year,
		Month:   dt.Month,
		Day:     dt.Day,
		Hour:    dt.Hour,
		Minute:  dt.Minute,
		Second:  dt.Second,
		Weekday: dt.Weekday,
		YearDay: dt.YearDay,
	}
	if isDST {
		b.IsDST = 1
	}
	return b, nil
}

// Gmtime converts seconds since the epoch to a broken-down time in UTC.
// Fractions of a second are discarded towards negative infinity.
func (c *Converter) Gmtime(secs float64) (tm.BrokenDown, error) {
	unix, err := c.unix(secs)
	if err != nil {
		return tm.BrokenDown{}, err
	}
	return c.breakDown(unix, 0, false)
}

// Localtime converts seconds since the epoch to a broken-down time in the local
// zone. It reads the zone state once.
func (c *Converter) Localtime(secs float64) (tm.BrokenDown, error) {
	unix, err := c.unix(secs)
	if err != nil {
		return tm.BrokenDown{}, err
	}
	s, err := c.state()
	if err != nil {
		return tm.BrokenDown{}, err
	}
	z := s.Lookup(unix)
	return c.breakDown(unix, z.Offset, z.IsDST)
}

func (c *Converter) wallClock(b tm.BrokenDown) (int64, error) {
	if err := c.Limits.Check(); err != nil {
		return 0, err
	}
	if b.Year < c.Limits.MinYear() || b.Year > c.Limits.MaxYear() {
		return 0, &tm.FieldError{Field: "year", Value: b.Year, Min: c.Limits.MinYear(), Max: c.Limits.MaxYear()}
	}
	// int32 fields keep the rolled-over sum within int64 seconds.
	for _, f := range []struct {
		name string
		v    int
	}{
		{"month", b.Month},
		{"day", b.Day},
		{"hour", b.Hour},
		{"minute", b.Minute},
		{"second", b.Second},
	} {
		if int(int32(f.v)) != f.v {
			return 0, &tm.FieldError{Field: f.name, Value: int64(f.v), Min: math.MinInt32, Max: math.MaxInt32}
		}
	}
	return unixtime.FromDateTime(b.Year, b.Month, b.Day, b.Hour, b.Minute, b.Second), nil
}

// Timegm is the inverse of Gmtime. Weekday and YearDay are ignored and the
// other fields roll over linearly when out of range.
func (c *Converter) Timegm(b tm.BrokenDown) (float64, error) {
	wall, err := c.wallClock(b)
	if err != nil {
		return 0, err
	}
	if err := c.checkInstant(wall); err != nil {
		return 0, err
	}
	return float64(wall), nil
}

// Mktime is the inverse of Localtime. IsDST selects the offset: 0 is standard
// time, 1 is daylight saving time and -1 picks the interpretation that is in
// effect at the resulting instant. Wall-clock times that occur twice or not at
// all resolve to standard time.
func (c *Converter) Mktime(b tm.BrokenDown) (float64, error) {
	wall, err := c.wallClock(b)
	if err != nil {
		return 0, err
	}
	s, err := c.state()
	if err != nil {
		return 0, err
	}
	std := wall - int64(s.Offset(false))
	dst := wall - int64(s.Offset(true))
	var unix int64
	switch {
	case b.IsDST == 0 || s.Daylight == 0:
		unix = std
	case b.IsDST > 0:
		unix = dst
	case !s.Lookup(std).IsDST:
		unix = std
	case s.Lookup(dst).IsDST:
		unix = dst
	default:
		unix = std
	}
	if err := c.checkInstant(unix); err != nil {
		return 0, err
	}
	return float64(unix), nil
}

// Now returns the current time in seconds since the epoch.
func (c *Converter) Now() float64 {
	return clock.Seconds(c.Clock)
}

// GmtimeNow is Gmtime(Now()).
func (c *Converter) GmtimeNow() (tm.BrokenDown, error) {
	return c.Gmtime(c.Now())
}

// LocaltimeNow is Localtime(Now()).
func (c *Converter) LocaltimeNow() (tm.BrokenDown, error) {
	return c.Localtime(c.Now())
}

// CtimeNow is Ctime(Now()).
func (c *Converter) CtimeNow() (string, error) {
	return c.Ctime(c.Now())
}

// Sleep suspends the caller for secs seconds on the converter's clock.
func (c *Converter) Sleep(ctx context.Context, secs float64) error {
	switch {
	case math.IsNaN(secs) || secs < 0:
		return fmt.Errorf("%w: sleep length %v must be non-negative", tm.ErrValue, secs)
	case secs*1e9 >= math.MaxInt64:
		return fmt.Errorf("%w: sleep length %v too large", tm.ErrRange, secs)
	}
	clk := c.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	return clk.Sleep(ctx, time.Duration(secs*1e9))
}

// Asctime renders b as "Thu Jan  1 00:00:00 1970" with English names.
// b is validated as for Strftime.
func (c *Converter) Asctime(b tm.BrokenDown) (string, error) {
	nb, err := tm.Normalize(b, c.Limits)
	if err != nil {
		return "", err
	}
	return asctime(nb), nil
}

// asctime renders fields that are already in range.
func asctime(b tm.BrokenDown) string {
	return fmt.Sprintf("%s %s %2d %02d:%02d:%02d %d",
		names.English.ShortWeekdays[b.Weekday],
		names.English.ShortMonths[b.Month-1],
		b.Day, b.Hour, b.Minute, b.Second, b.Year,
	)
}

// Ctime is Asctime(Localtime(secs)), except that years before 1900 are
// rendered as they are instead of being rejected.
func (c *Converter) Ctime(secs float64) (string, error) {
	b, err := c.Localtime(secs)
	if err != nil {
		return "", err
	}
	return asctime(b), nil
}

// Strftime formats b with the converter's names and current zone names.
func (c *Converter) Strftime(layout string, b tm.BrokenDown) (string, error) {
	s, err := c.state()
	if err != nil {
		return "", err
	}
	f := strftime.Formatter{Names: c.Names, State: s, Strict: c.StrictDirectives, Limits: c.Limits}
	return f.Format(layout, b)
}

// Strptime parses text with the converter's names and current zone names.
func (c *Converter) Strptime(text, layout string) (tm.BrokenDown, error) {
	s, err := c.state()
	if err != nil {
		return tm.BrokenDown{}, err
	}
	p := strptime.Parser{Names: c.Names, State: s, Limits: c.Limits}
	return p.Parse(text, layout)
}
