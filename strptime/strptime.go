// Package strptime parses text into broken-down times according to a layout of
// the directives understood by package strftime.
package strptime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ngrash/go-tztime/internal/unixtime"
	"github.com/ngrash/go-tztime/names"
	"github.com/ngrash/go-tztime/tm"
	"github.com/ngrash/go-tztime/tzstate"
)

const maxDepth = 4

// DefaultYear is the year of a result whose layout has no year directive.
const DefaultYear = tm.BaseYear

// Parser parses broken-down times. The zero value uses English names and
// recognizes only UTC and GMT for %Z.
type Parser struct {
	Names *names.Table
	// State supplies the zone names accepted by %Z.
	State  *tzstate.State
	Limits tm.Limits
}

// fields collects what the directives found before the date is resolved.
type fields struct {
	year      int64
	haveYear  bool
	month     int
	day       int
	hour      int
	haveHour  bool
	hour12    int
	have12    bool
	pm        bool
	meridian  bool
	minute    int
	second    int
	weekday   int
	haveWDay  bool
	julian    int
	haveJDay  bool
	week      int
	haveWeek  bool
	weekByMon bool
	isDST     int
}

// Parse parses text according to layout. Fields the layout does not mention
// default to 1900-01-01 00:00:00 with an unknown DST flag. Weekday and YearDay
// are derived from the date unless the layout sets them. All of text must be
// consumed.
func (p Parser) Parse(text, layout string) (tm.BrokenDown, error) {
	tab := names.OrEnglish(p.Names)
	flat, err := expand(layout, tab, 0)
	if err != nil {
		return tm.BrokenDown{}, err
	}

	f := fields{year: DefaultYear, month: 1, day: 1, isDST: -1}
	s := text
	for i := 0; i < len(flat); i++ {
		c := flat[i]
		switch {
		case isSpace(c):
			for i+1 < len(flat) && isSpace(flat[i+1]) {
				i++
			}
			n := countSpace(s)
			if n == 0 {
				return tm.BrokenDown{}, mismatch(text, layout, "whitespace", s)
			}
			s = s[n:]
			continue
		case c != '%':
			if len(s) == 0 || lower(s[0]) != lower(c) {
				return tm.BrokenDown{}, mismatch(text, layout, strconv.QuoteRune(rune(c)), s)
			}
			s = s[1:]
			continue
		}

		if i+1 == len(flat) {
			return tm.BrokenDown{}, fmt.Errorf("%w: stray %% in layout %q", tm.ErrValue, layout)
		}
		i++
		d := flat[i]
		var ok bool
		s, ok = p.directive(d, s, &f, tab, nextIsNumeric(flat[i+1:]))
		if !ok {
			if !known(d) {
				return tm.BrokenDown{}, fmt.Errorf("%w: bad directive %%%c in layout %q", tm.ErrValue, d, layout)
			}
			return tm.BrokenDown{}, mismatch(text, layout, "%"+string(d), s)
		}
	}
	if len(s) > 0 {
		return tm.BrokenDown{}, fmt.Errorf("%w: unconverted data remains: %q", tm.ErrValue, s)
	}
	return f.resolve(text)
}

func mismatch(text, layout, want, rest string) error {
	return fmt.Errorf("%w: time data %q does not match layout %q: expected %s at %q", tm.ErrValue, text, layout, want, rest)
}

// directive consumes the text for directive d from s and records the value in f.
func (p Parser) directive(d byte, s string, f *fields, tab *names.Table, numericFollows bool) (string, bool) {
	var (
		v  int
		ok bool
	)
	switch d {
	case 'd', 'e':
		f.day, s, ok = number(s, 1, 2, 1, 31)
	case 'H':
		f.hour, s, ok = number(s, 1, 2, 0, 23)
		f.haveHour = true
	case 'I':
		f.hour12, s, ok = number(s, 1, 2, 1, 12)
		f.have12 = true
	case 'j':
		f.julian, s, ok = number(s, 1, 3, 1, 366)
		f.haveJDay = true
	case 'm':
		f.month, s, ok = number(s, 1, 2, 1, 12)
	case 'M':
		f.minute, s, ok = number(s, 1, 2, 0, 59)
	case 'S':
		f.second, s, ok = number(s, 1, 2, 0, 61)
	case 'U', 'W':
		f.week, s, ok = number(s, 1, 2, 0, 53)
		f.haveWeek = true
		f.weekByMon = d == 'W'
	case 'w':
		v, s, ok = number(s, 1, 1, 0, 6)
		f.weekday = (v + 6) % 7 // Sunday = 0 to Monday = 0
		f.haveWDay = true
	case 'y':
		v, s, ok = number(s, 2, 2, 0, 99)
		if v < 69 {
			f.year = 2000 + int64(v)
		} else {
			f.year = 1900 + int64(v)
		}
		f.haveYear = true
	case 'Y':
		width := 4
		if !numericFollows {
			width = len(strconv.FormatInt(p.Limits.MaxYear(), 10))
		}
		var y int64
		y, s, ok = number64(s, 4, width, 0, p.Limits.MaxYear())
		f.year = y
		f.haveYear = true
	case 'a', 'A':
		var n int
		f.weekday, n, ok = names.Match(s, tab.Weekdays[:], tab.ShortWeekdays[:])
		s = s[n:]
		f.haveWDay = true
	case 'b', 'B', 'h':
		var n int
		v, n, ok = names.Match(s, tab.Months[:], tab.ShortMonths[:])
		f.month = v + 1
		s = s[n:]
	case 'p':
		var n int
		v, n, ok = names.Match(s, []string{tab.AM, tab.PM})
		f.pm = v == 1
		f.meridian = true
		s = s[n:]
	case 'Z':
		s, ok = p.zone(s, f), true
	case 'n', 't':
		s, ok = s[countSpace(s):], true
	case '%':
		if len(s) > 0 && s[0] == '%' {
			s, ok = s[1:], true
		}
	}
	return s, ok
}

// zone matches a zone name. An empty match leaves the DST flag unknown.
func (p Parser) zone(s string, f *fields) string {
	candidates := []string{"UTC", "GMT"}
	if p.State != nil {
		candidates = append(candidates, p.State.Names[0], p.State.Names[1])
	}
	i, n, ok := names.Match(s, candidates)
	if !ok {
		return s
	}
	name := candidates[i]
	switch {
	case p.State != nil && strings.EqualFold(name, p.State.Names[0]):
		if p.State.Names[0] == p.State.Names[1] && p.State.Daylight == 1 {
			f.isDST = -1
		} else {
			f.isDST = 0
		}
	case p.State != nil && strings.EqualFold(name, p.State.Names[1]):
		f.isDST = 1
	default:
		f.isDST = 0
	}
	return s[n:]
}

func known(d byte) bool {
	return strings.IndexByte("aAbBdehHIjmMpSUwWyYZnt%", d) >= 0
}

// nextIsNumeric reports whether the layout continues with a numeric directive,
// which bounds %Y to four digits.
func nextIsNumeric(rest string) bool {
	return len(rest) >= 2 && rest[0] == '%' && strings.IndexByte("deHIjmMSUWwyY", rest[1]) >= 0
}

// expand replaces the composite directives with their layouts.
func expand(layout string, tab *names.Table, depth int) (string, error) {
	if depth > maxDepth {
		return "", fmt.Errorf("%w: recursive template %q", tm.ErrValue, layout)
	}
	if !strings.Contains(layout, "%") {
		return layout, nil
	}
	var sb strings.Builder
	for i := 0; i < len(layout); i++ {
		if layout[i] != '%' || i+1 == len(layout) {
			sb.WriteByte(layout[i])
			continue
		}
		i++
		var sub string
		switch layout[i] {
		case 'c':
			sub = tab.DateTime
		case 'x':
			sub = tab.Date
		case 'X':
			sub = tab.Time
		case 'D':
			sub = "%m/%d/%y"
		case 'F':
			sub = "%Y-%m-%d"
		case 'T':
			sub = "%H:%M:%S"
		case 'R':
			sub = "%H:%M"
		default:
			sb.WriteByte('%')
			sb.WriteByte(layout[i])
			continue
		}
		e, err := expand(sub, tab, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(e)
	}
	return sb.String(), nil
}

// number reads a decimal of minW to maxW digits, optionally preceded by one
// space. Without backtracking, a value above max gives up trailing digits.
func number(s string, minW, maxW, min, max int) (int, string, bool) {
	v, rest, ok := number64(s, minW, maxW, int64(min), int64(max))
	return int(v), rest, ok
}

func number64(s string, minW, maxW int, min, max int64) (int64, string, bool) {
	if len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	n := 0
	for n < len(s) && n < maxW && '0' <= s[n] && s[n] <= '9' {
		n++
	}
	for ; n >= minW && n > 0; n-- {
		v, err := strconv.ParseInt(s[:n], 10, 64)
		if err != nil || v > max {
			continue
		}
		if v < min {
			return 0, s, false
		}
		return v, s[n:], true
	}
	return 0, s, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}

func countSpace(s string) int {
	n := 0
	for n < len(s) && isSpace(s[n]) {
		n++
	}
	return n
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// resolve turns the parsed fields into a broken-down time.
func (f *fields) resolve(text string) (tm.BrokenDown, error) {
	b := tm.BrokenDown{
		Year:   f.year,
		Month:  f.month,
		Day:    f.day,
		Hour:   f.hour,
		Minute: f.minute,
		Second: f.second,
		IsDST:  f.isDST,
	}
	switch {
	case f.have12:
		b.Hour = f.hour12 % 12
		if f.pm {
			b.Hour += 12
		}
	case f.meridian && !f.haveHour && f.pm:
		b.Hour = 12
	}

	// February 29 without a year is resolved in a leap year.
	leapFix := !f.haveYear && f.month == 2 && f.day == 29
	if leapFix {
		b.Year = 1904
	}

	julian, haveJulian := f.julian, f.haveJDay
	if !haveJulian && f.haveWeek {
		if f.haveWDay {
			julian = julianFromWeek(b.Year, f.week, f.weekday, f.weekByMon)
			haveJulian = true
		} else {
			synthesizeWeek(&b, f.week, f.weekByMon)
			if leapFix {
				b.Year = DefaultYear
			}
			return b, nil
		}
	}

	if haveJulian {
		if julian <= 0 {
			b.Year--
			julian += daysInYear(b.Year)
		}
		dt := unixtime.ToDateTime(unixtime.FromDateTime(b.Year, 1, julian, 0, 0, 0))
		b.Year, b.Month, b.Day = dt.Year, dt.Month, dt.Day
		b.YearDay = dt.YearDay
		if f.haveJDay {
			b.YearDay = f.julian
		}
	} else {
		if b.Day > unixtime.DaysIn(b.Year, b.Month) {
			return tm.BrokenDown{}, fmt.Errorf("%w: %q is not a valid date: day %d of %04d-%02d", tm.ErrValue, text, b.Day, b.Year, b.Month)
		}
		b.YearDay = unixtime.YearDay(b.Year, b.Month, b.Day)
	}

	if f.haveWDay {
		b.Weekday = f.weekday
	} else {
		b.Weekday = unixtime.Weekday(b.Year, b.Month, b.Day)
	}
	if leapFix {
		b.Year = DefaultYear
	}
	return b, nil
}

func daysInYear(year int64) int {
	if unixtime.IsLeapYear(year) {
		return 366
	}
	return 365
}

// julianFromWeek returns the 1-based day of the year for a week number and a
// Monday = 0 weekday. The result may fall outside the year.
func julianFromWeek(year int64, week, weekday int, mondayFirst bool) int {
	first := unixtime.Weekday(year, 1, 1)
	if !mondayFirst {
		first = (first + 1) % 7
		weekday = (weekday + 1) % 7
	}
	week0 := (7 - first) % 7
	if week == 0 {
		return 1 + weekday - first
	}
	return 1 + week0 + 7*(week-1) + weekday
}

// synthesizeWeek picks a weekday and year day that %U or %W format back to week
// without touching the date fields.
func synthesizeWeek(b *tm.BrokenDown, week int, mondayFirst bool) {
	switch {
	case week == 0 && mondayFirst:
		b.Weekday, b.YearDay = 6, 1 // Sunday
	case week == 0:
		b.Weekday, b.YearDay = 5, 1 // Saturday
	case mondayFirst:
		b.Weekday, b.YearDay = 0, 7*week-6
	default:
		b.Weekday, b.YearDay = 6, 7*week-6
	}
}
