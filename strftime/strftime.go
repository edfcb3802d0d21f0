// Package strftime formats broken-down times according to a layout of
// C strftime directives.
//
// Supported directives:
//
//	%a %A  abbreviated and full weekday name
//	%b %B  abbreviated and full month name (%h is %b)
//	%c     date and time, the DateTime template of the name table
//	%d %e  day of the month, zero and space padded
//	%H %I  hour on the 24 and 12 hour clock
//	%j     day of the year
//	%m %M  month and minute
//	%p     AM or PM
//	%S     second
//	%U %W  week of the year, first Sunday and first Monday as its first day
//	%w     weekday, Sunday = 0
//	%x %X  date and time templates of the name table
//	%y %Y  year without and with century
//	%Z     zone name, empty if unknown
//	%D %F  %m/%d/%y and %Y-%m-%d
//	%T %R  %H:%M:%S and %H:%M
//	%n %t  newline and tab
//	%%     a literal percent sign
package strftime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ngrash/go-tztime/names"
	"github.com/ngrash/go-tztime/tm"
	"github.com/ngrash/go-tztime/tzstate"
)

// maxDepth bounds the expansion of templates that refer to other templates.
const maxDepth = 4

// Formatter formats broken-down times. The zero value uses English names and
// formats %Z as the empty string.
type Formatter struct {
	Names *names.Table
	// State supplies the zone names for %Z.
	State *tzstate.State
	// Strict rejects unknown directives and a trailing '%'. Otherwise they are
	// copied to the output unchanged.
	Strict bool
	Limits tm.Limits
}

// Format validates b with tm.Normalize and renders it according to layout.
// Nothing is returned on error.
func (f Formatter) Format(layout string, b tm.BrokenDown) (string, error) {
	nb, err := tm.Normalize(b, f.Limits)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(layout) * 2)
	if err := f.format(&sb, layout, nb, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (f Formatter) format(sb *strings.Builder, layout string, b tm.BrokenDown, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: recursive template %q", tm.ErrValue, layout)
	}
	tab := names.OrEnglish(f.Names)
	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		if i+1 == len(layout) {
			if f.Strict {
				return fmt.Errorf("%w: trailing '%%' in layout %q", tm.ErrValue, layout)
			}
			sb.WriteByte('%')
			break
		}
		i++
		var err error
		switch d := layout[i]; d {
		case 'a':
			sb.WriteString(tab.ShortWeekdays[b.Weekday])
		case 'A':
			sb.WriteString(tab.Weekdays[b.Weekday])
		case 'b', 'h':
			sb.WriteString(tab.ShortMonths[b.Month-1])
		case 'B':
			sb.WriteString(tab.Months[b.Month-1])
		case 'c':
			err = f.format(sb, tab.DateTime, b, depth+1)
		case 'x':
			err = f.format(sb, tab.Date, b, depth+1)
		case 'X':
			err = f.format(sb, tab.Time, b, depth+1)
		case 'D':
			err = f.format(sb, "%m/%d/%y", b, depth+1)
		case 'F':
			err = f.format(sb, "%Y-%m-%d", b, depth+1)
		case 'T':
			err = f.format(sb, "%H:%M:%S", b, depth+1)
		case 'R':
			err = f.format(sb, "%H:%M", b, depth+1)
		case 'd':
			pad2(sb, b.Day, '0')
		case 'e':
			pad2(sb, b.Day, ' ')
		case 'H':
			pad2(sb, b.Hour, '0')
		case 'I':
			h := b.Hour % 12
			if h == 0 {
				h = 12
			}
			pad2(sb, h, '0')
		case 'j':
			fmt.Fprintf(sb, "%03d", b.YearDay)
		case 'm':
			pad2(sb, b.Month, '0')
		case 'M':
			pad2(sb, b.Minute, '0')
		case 'p':
			if b.Hour < 12 {
				sb.WriteString(tab.AM)
			} else {
				sb.WriteString(tab.PM)
			}
		case 'S':
			pad2(sb, b.Second, '0')
		case 'U':
			pad2(sb, (b.YearDay-1+7-tm.SundayWeekday(b.Weekday))/7, '0')
		case 'W':
			pad2(sb, (b.YearDay-1+7-b.Weekday)/7, '0')
		case 'w':
			sb.WriteString(strconv.Itoa(tm.SundayWeekday(b.Weekday)))
		case 'y':
			pad2(sb, int(b.Year%100), '0')
		case 'Y':
			sb.WriteString(strconv.FormatInt(b.Year, 10))
		case 'Z':
			if f.State != nil && b.IsDST >= 0 {
				sb.WriteString(f.State.Names[b.IsDST])
			}
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '%':
			sb.WriteByte('%')
		default:
			if f.Strict {
				return fmt.Errorf("%w: unknown directive %%%c in layout %q", tm.ErrValue, d, layout)
			}
			sb.WriteByte('%')
			sb.WriteByte(d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func pad2(sb *strings.Builder, n int, pad byte) {
	if n < 10 {
		sb.WriteByte(pad)
	}
	sb.WriteString(strconv.Itoa(n))
}
