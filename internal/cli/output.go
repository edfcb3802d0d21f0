package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ngrash/go-tztime/tzif"
)

var (
	fieldLabel   = color.New(color.FgCyan).SprintFunc()
	sectionTitle = color.New(color.Bold).SprintFunc()
)

// writer prints labeled fields and keeps the first write error.
type writer struct {
	w   io.Writer
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{w: w}
}

func (o *writer) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

// Field prints "label: value".
func (o *writer) Field(label, value string) {
	o.printf("%s %s\n", fieldLabel(label+":"), value)
}

// Header prints the counts of a TZif header under a title.
func (o *writer) Header(title string, h tzif.Header) {
	o.printf("%s\n", sectionTitle(title))
	for _, f := range []struct {
		name string
		n    uint32
	}{
		{"isutcnt", h.Isutcnt},
		{"isstdcnt", h.Isstdcnt},
		{"leapcnt", h.Leapcnt},
		{"timecnt", h.Timecnt},
		{"typecnt", h.Typecnt},
		{"charcnt", h.Charcnt},
	} {
		o.printf("  %s = %d\n", f.name, f.n)
	}
}
