// Package tzrule parses POSIX TZ rule strings such as "EST+05EDT,M4.1.0,M10.5.0" and
// evaluates the daylight saving schedule they describe.
//
// The format is specified in Section 8.3 of the "Base Definitions" volume of POSIX and
// extended by RFC 8536 Section 3.3.1, which allows transition times in [-167, 167] hours.
package tzrule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ngrash/go-tztime/internal/unixtime"
	"github.com/ngrash/go-tztime/tm"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Zone is a local time type: a designation and its offset east of UTC.
type Zone struct {
	Name   string
	Offset int // seconds east of UTC
	IsDST  bool
}

// Rule is a parsed TZ string. Rules without a daylight part have HasDST == false and
// their Dst, Start and End fields are zero.
type Rule struct {
	Std    Zone
	Dst    Zone
	HasDST bool
	// Start is the transition into daylight saving time, in local standard time.
	Start Transition
	// End is the transition back to standard time, in local daylight saving time.
	End Transition
}

// UTC is the rule used when nothing better is available.
var UTC = Rule{Std: Zone{Name: "UTC"}}

// TransitionKind is the form of a transition date in a TZ string.
type TransitionKind int

const (
	// Julian is the Jn form: day n in [1, 365], February 29 is never counted.
	Julian TransitionKind = iota
	// DayOfYear is the n form: zero-based day n in [0, 365], counting February 29.
	DayOfYear
	// MonthWeekDay is the Mm.w.d form: day d (0 = Sunday) of week w (5 = last) of month m.
	MonthWeekDay
)

func (k TransitionKind) String() string {
	switch k {
	case Julian:
		return "Julian"
	case DayOfYear:
		return "DayOfYear"
	case MonthWeekDay:
		return "MonthWeekDay"
	default:
		return fmt.Sprintf("<undefined transition kind (%d)>", int(k))
	}
}

// Transition is the date and local time of a daylight saving transition.
type Transition struct {
	Kind  TransitionKind
	Day   int
	Week  int
	Month int
	Time  int // seconds after local midnight, may be negative
}

// ParseError is returned by Parse. It wraps tm.ErrValue.
type ParseError struct {
	Rule string
	err  error
}

// Error returns a string representation of the parse error, implementing the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("tz rule %q: %v", e.Rule, e.err)
}

// Unwrap returns tm.ErrValue and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{tm.ErrValue, e.err}
}

func parseError(rule string, format string, args ...any) error {
	return &ParseError{Rule: rule, err: fmt.Errorf(format, args...)}
}

// defaultRules is used when the daylight part has no explicit schedule, the
// United States rules since 2007.
const defaultRules = ",M3.2.0,M11.1.0"

// Parse parses a TZ string.
//
// POSIX says:
//
//	std offset dst [offset [,start[/time],end[/time]]]
//
//	The offset specifies the time value you must add to the
//	local time to arrive at Coordinated Universal Time. [...] If
//	no offset follows dst, summer time is assumed to be one hour
//	ahead of standard time.
func Parse(s string) (Rule, error) {
	var (
		r    Rule
		rest = s
		ok   bool
		off  int
	)
	r.Std.Name, rest, ok = parseName(rest)
	if !ok {
		return Rule{}, parseError(s, "invalid standard name")
	}
	off, rest, ok = parseOffset(rest, 24)
	if !ok {
		return Rule{}, parseError(s, "invalid standard offset")
	}
	r.Std.Offset = -off

	if len(rest) == 0 {
		return r, nil
	}
	if rest[0] == ',' {
		return Rule{}, parseError(s, "schedule without daylight name")
	}

	r.HasDST = true
	r.Dst.IsDST = true
	r.Dst.Name, rest, ok = parseName(rest)
	if !ok {
		return Rule{}, parseError(s, "invalid daylight name")
	}
	if len(rest) == 0 || rest[0] == ',' {
		r.Dst.Offset = r.Std.Offset + secondsPerHour
	} else {
		off, rest, ok = parseOffset(rest, 24)
		if !ok {
			return Rule{}, parseError(s, "invalid daylight offset")
		}
		r.Dst.Offset = -off
	}

	if len(rest) == 0 {
		rest = defaultRules
	}
	if rest[0] != ',' {
		return Rule{}, parseError(s, "unexpected %q after daylight part", rest)
	}
	r.Start, rest, ok = parseTransition(rest[1:])
	if !ok || len(rest) == 0 || rest[0] != ',' {
		return Rule{}, parseError(s, "invalid start rule")
	}
	r.End, rest, ok = parseTransition(rest[1:])
	if !ok {
		return Rule{}, parseError(s, "invalid end rule")
	}
	if len(rest) > 0 {
		return Rule{}, parseError(s, "unexpected trailing %q", rest)
	}
	return r, nil
}

// parseName returns the zone designation at the start of s, the remainder of s,
// and reports whether parsing is OK.
//
// POSIX says:
//
//	In the unquoted form, all characters in these fields shall be
//	alphabetic characters. In the quoted form, the first character
//	shall be the <less-than-sign> ( '<' ) character and the last
//	character shall be the <greater-than-sign> ( '>' ) character.
//	[...] The std and dst fields in this case shall not include the
//	quoting characters.
func parseName(s string) (string, string, bool) {
	if len(s) == 0 {
		return "", "", false
	}
	if s[0] == '<' {
		end := strings.IndexByte(s, '>')
		if end < 4 { // at least three characters between the quotes
			return "", "", false
		}
		return s[1:end], s[end+1:], true
	}
	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i < 3 {
		return "", "", false
	}
	return s[:i], s[i:], true
}

func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// parseOffset parses [+|-]hh[:mm[:ss]] and returns the value in seconds, the
// remainder of s, and reports whether parsing is OK.
func parseOffset(s string, maxHours int) (int, string, bool) {
	if len(s) == 0 {
		return 0, "", false
	}
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		s = s[1:]
		neg = true
	}

	hours, s, ok := parseNum(s, 0, maxHours)
	if !ok {
		return 0, "", false
	}
	off := hours * secondsPerHour
	if len(s) > 0 && s[0] == ':' {
		var mins int
		mins, s, ok = parseNum(s[1:], 0, 59)
		if !ok {
			return 0, "", false
		}
		off += mins * secondsPerMinute
		if len(s) > 0 && s[0] == ':' {
			var secs int
			secs, s, ok = parseNum(s[1:], 0, 59)
			if !ok {
				return 0, "", false
			}
			off += secs
		}
	}
	if neg {
		off = -off
	}
	return off, s, true
}

// parseTransition parses a start or end rule.
//
// POSIX says:
//
//	Jn  The Julian day n (1 <= n <= 365). Leap days shall not be
//	    counted.
//	n   The zero-based Julian day (0 <= n <= 365). Leap days shall
//	    be counted, and it is possible to refer to February 29.
//	Mm.n.d
//	    The d'th day (0 <= d <= 6) of week n of month m of the year
//	    (1 <= n <= 5, 1 <= m <= 12, where week 5 means "the last d
//	    day in month m" which may occur in the fourth or fifth
//	    week).
//
//	The time has the same format as offset except that no leading
//	sign shall be allowed. The default, if time is not given, shall
//	be 02:00:00.
func parseTransition(s string) (Transition, string, bool) {
	var (
		t  Transition
		ok bool
	)
	if len(s) == 0 {
		return Transition{}, "", false
	}
	switch s[0] {
	case 'J':
		t.Kind = Julian
		t.Day, s, ok = parseNum(s[1:], 1, 365)
		if !ok {
			return Transition{}, "", false
		}
	case 'M':
		t.Kind = MonthWeekDay
		t.Month, s, ok = parseNum(s[1:], 1, 12)
		if !ok || len(s) == 0 || s[0] != '.' {
			return Transition{}, "", false
		}
		t.Week, s, ok = parseNum(s[1:], 1, 5)
		if !ok || len(s) == 0 || s[0] != '.' {
			return Transition{}, "", false
		}
		t.Day, s, ok = parseNum(s[1:], 0, 6)
		if !ok {
			return Transition{}, "", false
		}
	default:
		t.Kind = DayOfYear
		t.Day, s, ok = parseNum(s, 0, 365)
		if !ok {
			return Transition{}, "", false
		}
	}

	if len(s) == 0 || s[0] != '/' {
		t.Time = 2 * secondsPerHour
		return t, s, true
	}
	// RFC 8536 permits signed times up to 167 hours.
	t.Time, s, ok = parseOffset(s[1:], 24*7-1)
	if !ok {
		return Transition{}, "", false
	}
	return t, s, true
}

// parseNum parses a decimal number in [min, max] at the start of s.
func parseNum(s string, min, max int) (int, string, bool) {
	i := 0
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	if i == 0 || i > 3 {
		return 0, "", false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n < min || n > max {
		return 0, "", false
	}
	return n, s[i:], true
}

// String renders the rule in TZ string form.
func (r Rule) String() string {
	var b strings.Builder
	writeName(&b, r.Std.Name)
	writeOffset(&b, -r.Std.Offset)
	if !r.HasDST {
		return b.String()
	}
	writeName(&b, r.Dst.Name)
	if r.Dst.Offset != r.Std.Offset+secondsPerHour {
		writeOffset(&b, -r.Dst.Offset)
	}
	for _, t := range []Transition{r.Start, r.End} {
		b.WriteByte(',')
		switch t.Kind {
		case Julian:
			fmt.Fprintf(&b, "J%d", t.Day)
		case DayOfYear:
			fmt.Fprintf(&b, "%d", t.Day)
		case MonthWeekDay:
			fmt.Fprintf(&b, "M%d.%d.%d", t.Month, t.Week, t.Day)
		}
		if t.Time != 2*secondsPerHour {
			b.WriteByte('/')
			writeOffset(&b, t.Time)
		}
	}
	return b.String()
}

func writeName(b *strings.Builder, name string) {
	for i := 0; i < len(name); i++ {
		if !isAlpha(name[i]) {
			b.WriteString("<" + name + ">")
			return
		}
	}
	b.WriteString(name)
}

func writeOffset(b *strings.Builder, off int) {
	if off < 0 {
		b.WriteByte('-')
		off = -off
	}
	h, m, s := off/secondsPerHour, off%secondsPerHour/secondsPerMinute, off%secondsPerMinute
	b.WriteString(strconv.Itoa(h))
	if m != 0 || s != 0 {
		fmt.Fprintf(b, ":%02d", m)
	}
	if s != 0 {
		fmt.Fprintf(b, ":%02d", s)
	}
}

// Lookup returns the local time type in effect at the given Unix time.
func (r Rule) Lookup(unix int64) Zone {
	if !r.HasDST {
		return r.Std
	}
	start, end := r.Transitions(unixtime.ToDateTime(unix + int64(r.Std.Offset)).Year)
	if start < end {
		if start <= unix && unix < end {
			return r.Dst
		}
		return r.Std
	}
	// Southern hemisphere: daylight saving time spans the new year.
	if unix < end || start <= unix {
		return r.Dst
	}
	return r.Std
}

// Transitions returns the Unix times at which daylight saving time starts and ends
// in the given year. For southern-hemisphere rules start is after end.
func (r Rule) Transitions(year int64) (start, end int64) {
	yearStart := unixtime.FromDateTime(year, 1, 1, 0, 0, 0)
	start = yearStart + r.Start.offsetInYear(year) - int64(r.Std.Offset)
	end = yearStart + r.End.offsetInYear(year) - int64(r.Dst.Offset)
	return start, end
}

// offsetInYear returns the number of seconds since local midnight of January 1st at
// which the transition takes effect.
func (t Transition) offsetInYear(year int64) int64 {
	var day int // zero-based day of the year
	switch t.Kind {
	case Julian:
		day = t.Day - 1
		if unixtime.IsLeapYear(year) && t.Day >= 60 {
			day++
		}
	case DayOfYear:
		day = t.Day
	case MonthWeekDay:
		var dom int
		if t.Week == 5 {
			dom = lastWeekdayOfMonth(year, t.Month, t.Day)
		} else {
			dom = firstWeekdayOfMonth(year, t.Month, t.Day) + 7*(t.Week-1)
		}
		day = unixtime.YearDay(year, t.Month, dom) - 1
	}
	return int64(day)*secondsPerDay + int64(t.Time)
}
