package names

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/ngrash/go-tztime/tm"
)

// Format is the encoding of a name table file.
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota
	// FormatYAML represents YAML format
	FormatYAML
	// FormatAuto detects the format from the file extension
	FormatAuto
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// FormatOf returns the format for a file name based on its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("%w: unsupported file extension %q", tm.ErrValue, filepath.Ext(path))
	}
}

// file is the on-disk schema. Missing keys fall back to English.
type file struct {
	Weekdays      []string `toml:"weekdays" yaml:"weekdays"`
	ShortWeekdays []string `toml:"short_weekdays" yaml:"short_weekdays"`
	Months        []string `toml:"months" yaml:"months"`
	ShortMonths   []string `toml:"short_months" yaml:"short_months"`
	AM            string   `toml:"am" yaml:"am"`
	PM            string   `toml:"pm" yaml:"pm"`
	DateTime      string   `toml:"date_time" yaml:"date_time"`
	Date          string   `toml:"date" yaml:"date"`
	Time          string   `toml:"time" yaml:"time"`
}

// Decode reads a name table in the given format and validates it.
func Decode(r io.Reader, format Format) (*Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var f file
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &f); err != nil {
			return nil, fmt.Errorf("%w: failed to parse TOML: %w", tm.ErrValue, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &f); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML: %w", tm.ErrValue, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %v", tm.ErrValue, format)
	}

	t := English
	if err := fill("weekdays", t.Weekdays[:], f.Weekdays); err != nil {
		return nil, err
	}
	if err := fill("short_weekdays", t.ShortWeekdays[:], f.ShortWeekdays); err != nil {
		return nil, err
	}
	if err := fill("months", t.Months[:], f.Months); err != nil {
		return nil, err
	}
	if err := fill("short_months", t.ShortMonths[:], f.ShortMonths); err != nil {
		return nil, err
	}
	t.AM = lo.CoalesceOrEmpty(f.AM, t.AM)
	t.PM = lo.CoalesceOrEmpty(f.PM, t.PM)
	t.DateTime = lo.CoalesceOrEmpty(f.DateTime, t.DateTime)
	t.Date = lo.CoalesceOrEmpty(f.Date, t.Date)
	t.Time = lo.CoalesceOrEmpty(f.Time, t.Time)

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func fill(key string, dst, src []string) error {
	switch len(src) {
	case 0:
		return nil
	case len(dst):
		copy(dst, src)
		return nil
	default:
		return fmt.Errorf("%w: %s has %d entries, want %d", tm.ErrValue, key, len(src), len(dst))
	}
}

// Load reads a name table from a .toml, .yaml or .yml file.
func Load(path string) (*Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read names file %s: %w", path, err)
	}
	t, err := Decode(bytes.NewReader(content), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
