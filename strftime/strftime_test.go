package strftime

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tztime/names"
	"github.com/ngrash/go-tztime/tm"
	"github.com/ngrash/go-tztime/tzrule"
	"github.com/ngrash/go-tztime/tzstate"
)

// xmas is 2002-12-25 13:04:05, a Wednesday.
var xmas = tm.BrokenDown{Year: 2002, Month: 12, Day: 25, Hour: 13, Minute: 4, Second: 5, Weekday: 2, YearDay: 359}

func eastern(t *testing.T) *tzstate.State {
	t.Helper()
	r, err := tzrule.Parse("EST+05EDT,M4.1.0,M10.5.0")
	if err != nil {
		t.Fatal(err)
	}
	return tzstate.FromRule("EST+05EDT,M4.1.0,M10.5.0", r)
}

func TestFormat_Directives(t *testing.T) {
	f := Formatter{State: eastern(t)}
	cases := map[string]string{
		"%a": "Wed",
		"%A": "Wednesday",
		"%b": "Dec",
		"%h": "Dec",
		"%B": "December",
		"%c": "Wed Dec 25 13:04:05 2002",
		"%d": "25",
		"%e": "25",
		"%H": "13",
		"%I": "01",
		"%j": "359",
		"%m": "12",
		"%M": "04",
		"%p": "PM",
		"%S": "05",
		"%U": "51",
		"%w": "3",
		"%W": "51",
		"%x": "12/25/02",
		"%X": "13:04:05",
		"%y": "02",
		"%Y": "2002",
		"%Z": "EST",
		"%%": "%",
		"%D": "12/25/02",
		"%F": "2002-12-25",
		"%T": "13:04:05",
		"%R": "13:04",
		"%n": "\n",
		"%t": "\t",

		"at %H:%M on %A":  "at 13:04 on Wednesday",
		"":                "",
		"100%% literal":   "100% literal",
		"ünïcödé %Y":     "ünïcödé 2002",
	}
	for layout, want := range cases {
		got, err := f.Format(layout, xmas)
		if err != nil {
			t.Errorf("Format(%q) error: %v", layout, err)
			continue
		}
		if got != want {
			t.Errorf("Format(%q) = %q, want %q", layout, got, want)
		}
	}
}

func TestFormat_AllZero(t *testing.T) {
	got, err := Formatter{}.Format("%Y %m %d %H %M %S %w %j", tm.BrokenDown{})
	if err != nil {
		t.Fatal(err)
	}
	if want := "2000 01 01 00 00 00 1 001"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormat_Padding(t *testing.T) {
	b := tm.BrokenDown{Year: 1900, Month: 1, Day: 5, Hour: 0, Minute: 0, Second: 0, Weekday: 4, YearDay: 5}
	got, err := Formatter{}.Format("%c|%I %p|%e|%y", b)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Fri Jan  5 00:00:00 1900|12 AM| 5|00"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormat_WeekNumbers(t *testing.T) {
	cases := []struct {
		b    tm.BrokenDown
		want string
	}{
		{tm.BrokenDown{Year: 2002, Month: 1, Day: 1, Weekday: 1, YearDay: 1}, "00 00"},
		{tm.BrokenDown{Year: 2006, Month: 1, Day: 1, Weekday: 6, YearDay: 1}, "01 00"},
		{tm.BrokenDown{Year: 2001, Month: 1, Day: 1, Weekday: 0, YearDay: 1}, "00 01"},
		{tm.BrokenDown{Year: 2000, Month: 12, Day: 31, Weekday: 6, YearDay: 366}, "53 52"},
	}
	for _, c := range cases {
		got, err := Formatter{}.Format("%U %W", c.b)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("Format(%+v) = %q, want %q", c.b, got, c.want)
		}
	}
}

func TestFormat_Zone(t *testing.T) {
	s := eastern(t)
	for isdst, want := range map[int]string{-1: "", 0: "EST", 1: "EDT", 7: "EDT"} {
		b := xmas
		b.IsDST = isdst
		got, err := Formatter{State: s}.Format("%Z", b)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("isdst %d: Format(%%Z) = %q, want %q", isdst, got, want)
		}
	}
	if got, _ := (Formatter{}).Format("%Z", xmas); got != "" {
		t.Errorf("Format(%%Z) without state = %q", got)
	}
}

func TestFormat_UnknownDirective(t *testing.T) {
	for _, layout := range []string{"%f", "%Q and %H", "trailing %"} {
		if _, err := (Formatter{Strict: true}).Format(layout, xmas); !errors.Is(err, tm.ErrValue) {
			t.Errorf("strict Format(%q) error = %v, want ErrValue", layout, err)
		}
	}
	cases := map[string]string{
		"%f":         "%f",
		"%Q and %H":  "%Q and 13",
		"trailing %": "trailing %",
	}
	for layout, want := range cases {
		got, err := Formatter{}.Format(layout, xmas)
		if err != nil || got != want {
			t.Errorf("Format(%q) = %q, %v, want %q", layout, got, err, want)
		}
	}
}

func TestFormat_InvalidFields(t *testing.T) {
	cases := []struct {
		name  string
		b     tm.BrokenDown
		field string
	}{
		{"month 13", tm.BrokenDown{Year: 2000, Month: 13}, "month"},
		{"month -1", tm.BrokenDown{Year: 2000, Month: -1}, "month"},
		{"day 32", tm.BrokenDown{Year: 2000, Day: 32}, "day"},
		{"hour 24", tm.BrokenDown{Year: 2000, Hour: 24}, "hour"},
		{"minute 60", tm.BrokenDown{Year: 2000, Minute: 60}, "minute"},
		{"second 62", tm.BrokenDown{Year: 2000, Second: 62}, "second"},
		{"weekday -2", tm.BrokenDown{Year: 2000, Weekday: -2}, "weekday"},
		{"year day 367", tm.BrokenDown{Year: 2000, YearDay: 367}, "year day"},
		{"year 1899", tm.BrokenDown{Year: 1899}, "year"},
	}
	for _, c := range cases {
		got, err := Formatter{}.Format("%Y", c.b)
		var fe *tm.FieldError
		if !errors.As(err, &fe) || fe.Field != c.field {
			t.Errorf("%s: Format() = %q, %v, want %s FieldError", c.name, got, err, c.field)
		}
		if got != "" {
			t.Errorf("%s: Format() produced output %q on error", c.name, got)
		}
	}
}

func TestFormat_Names(t *testing.T) {
	tab := names.English
	tab.Weekdays[2] = "Mittwoch"
	tab.ShortMonths[11] = "Dez"
	tab.DateTime = "%A, %d. %b %Y"
	got, err := Formatter{Names: &tab}.Format("%c", xmas)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Mittwoch, 25. Dez 2002"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	loop := names.English
	loop.DateTime = "%c"
	if _, err := (Formatter{Names: &loop}).Format("%c", xmas); !errors.Is(err, tm.ErrValue) {
		t.Errorf("recursive template error = %v, want ErrValue", err)
	}
}

func TestFormat_Weekday(t *testing.T) {
	// -1 folds onto Sunday, 7 onto Monday.
	for wd, want := range map[int]string{-1: "Sun 0", 6: "Sun 0", 7: "Mon 1", 0: "Mon 1"} {
		b := xmas
		b.Weekday = wd
		got, err := Formatter{}.Format("%a %w", b)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("weekday %d mismatch (-want +got):\n%s", wd, diff)
		}
	}
}
