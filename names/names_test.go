package names

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tztime/tm"
)

func TestEnglish_Validate(t *testing.T) {
	if err := English.Validate(); err != nil {
		t.Fatal(err)
	}
	if OrEnglish(nil) != &English {
		t.Error("OrEnglish(nil) is not English")
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	tab := English
	tab.Weekdays[2] = ""
	tab.ShortMonths[4] = "JAN"
	tab.Time = ""
	err := tab.Validate()
	if !errors.Is(err, tm.ErrValue) {
		t.Fatalf("Validate() = %v, want ErrValue", err)
	}
	for _, want := range []string{"empty weekday name at index 2", `duplicate short month name "jan"`, "empty date/time template"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, missing %q", err, want)
		}
	}
}

func TestMatch(t *testing.T) {
	cases := []struct {
		in        string
		wantIndex int
		wantN     int
		wantOK    bool
	}{
		{"Wednesday, 25", 2, 9, true},
		{"wed 25", 2, 3, true},
		{"MONDAY", 0, 6, true},
		{"Mo", 0, 0, false},
		{"", 0, 0, false},
		{"Sundae", 6, 3, true},
	}
	for _, c := range cases {
		index, n, ok := Match(c.in, English.Weekdays[:], English.ShortWeekdays[:])
		if index != c.wantIndex || n != c.wantN || ok != c.wantOK {
			t.Errorf("Match(%q) = %d, %d, %v, want %d, %d, %v", c.in, index, n, ok, c.wantIndex, c.wantN, c.wantOK)
		}
	}
}

const germanTOML = `
weekdays = ["Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"]
short_weekdays = ["Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"]
months = ["Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"]
date_time = "%a %d %b %Y %H:%M:%S"
date = "%d.%m.%Y"
`

const germanYAML = `
weekdays: [Montag, Dienstag, Mittwoch, Donnerstag, Freitag, Samstag, Sonntag]
short_weekdays: [Mo, Di, Mi, Do, Fr, Sa, So]
months: [Januar, Februar, März, April, Mai, Juni, Juli, August, September, Oktober, November, Dezember]
date_time: "%a %d %b %Y %H:%M:%S"
date: "%d.%m.%Y"
`

func TestLoad(t *testing.T) {
	want := English
	want.Weekdays = [7]string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"}
	want.ShortWeekdays = [7]string{"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"}
	want.Months = [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
	want.DateTime = "%a %d %b %Y %H:%M:%S"
	want.Date = "%d.%m.%Y"

	dir := t.TempDir()
	for name, content := range map[string]string{
		"de.toml": germanTOML,
		"de.yaml": germanYAML,
		"de.yml":  germanYAML,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(&want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	cases := map[string]string{
		"extension":   write("de.json", "{}"),
		"toml syntax": write("bad.toml", "weekdays = ["),
		"yaml syntax": write("bad.yaml", "weekdays: [a, b"),
		"arity":       write("short.toml", `months = ["Jan"]`),
		"empty name":  write("empty.yaml", "am: ' '"),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(path); !errors.Is(err, tm.ErrValue) {
				t.Errorf("Load(%s) error = %v, want ErrValue", path, err)
			}
		})
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	if _, err := Decode(strings.NewReader(""), FormatAuto); !errors.Is(err, tm.ErrValue) {
		t.Errorf("Decode(FormatAuto) error = %v", err)
	}
}
