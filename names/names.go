// Package names holds the weekday, month and meridian names and the composite
// date/time templates used when formatting and parsing broken-down times.
package names

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ngrash/go-tztime/tm"
)

// Table is a set of names for one locale. Weekdays start with Monday.
type Table struct {
	Weekdays      [7]string
	ShortWeekdays [7]string
	Months        [12]string
	ShortMonths   [12]string
	AM, PM        string

	// DateTime, Date and Time are the layouts of %c, %x and %X.
	DateTime string
	Date     string
	Time     string
}

// English is the C locale.
var English = Table{
	Weekdays:      [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	ShortWeekdays: [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
	Months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	ShortMonths: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	AM:          "AM",
	PM:          "PM",
	DateTime:    "%a %b %e %H:%M:%S %Y",
	Date:        "%m/%d/%y",
	Time:        "%H:%M:%S",
}

// OrEnglish returns t, or English if t is nil.
func OrEnglish(t *Table) *Table {
	if t == nil {
		return &English
	}
	return t
}

// Validate reports every empty or ambiguous name in t.
func (t *Table) Validate() error {
	var errs []error
	check := func(kind string, list []string) {
		for i, n := range list {
			if strings.TrimSpace(n) == "" {
				errs = append(errs, fmt.Errorf("%w: empty %s name at index %d", tm.ErrValue, kind, i))
			}
		}
		lower := lo.Map(list, func(n string, _ int) string { return strings.ToLower(n) })
		for _, d := range lo.FindDuplicates(lower) {
			errs = append(errs, fmt.Errorf("%w: duplicate %s name %q", tm.ErrValue, kind, d))
		}
	}
	check("weekday", t.Weekdays[:])
	check("short weekday", t.ShortWeekdays[:])
	check("month", t.Months[:])
	check("short month", t.ShortMonths[:])
	check("meridian", []string{t.AM, t.PM})
	if t.DateTime == "" || t.Date == "" || t.Time == "" {
		errs = append(errs, fmt.Errorf("%w: empty date/time template", tm.ErrValue))
	}
	return errors.Join(errs...)
}

// Match finds the longest name at the start of s, ignoring case. It returns the
// index of the name within its list and the number of bytes matched.
func Match(s string, lists ...[]string) (index, n int, ok bool) {
	for _, list := range lists {
		for i, name := range list {
			if len(name) <= n || len(name) > len(s) {
				continue
			}
			if strings.EqualFold(s[:len(name)], name) {
				index, n, ok = i, len(name), true
			}
		}
	}
	return index, n, ok
}
