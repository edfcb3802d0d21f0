package caltime

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ngrash/go-tztime/names"
	"github.com/ngrash/go-tztime/tm"
	"github.com/ngrash/go-tztime/tzstate"
)

// Config describes a Converter in a TOML or YAML file.
type Config struct {
	// TZ is the rule or zone name. Empty means the TZ environment variable.
	TZ string `toml:"tz" yaml:"tz"`
	// ZoneinfoDir is where zone names are looked up.
	ZoneinfoDir string `toml:"zoneinfo_dir" yaml:"zoneinfo_dir"`
	// Localtime is the TZif file used when no rule is configured.
	Localtime string `toml:"localtime" yaml:"localtime"`
	// NamesFile is a names table, see names.Load.
	NamesFile         string `toml:"names_file" yaml:"names_file"`
	YearBits          int    `toml:"year_bits" yaml:"year_bits"`
	Reject2DigitYears bool   `toml:"reject_2digit_years" yaml:"reject_2digit_years"`
	StrictDirectives  bool   `toml:"strict_directives" yaml:"strict_directives"`
	// StrictRules makes an unusable TZ an error instead of a fallback to UTC.
	StrictRules bool `toml:"strict_rules" yaml:"strict_rules"`
}

// LoadConfig reads a configuration file. The format is chosen by extension.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	format, err := names.FormatOf(path)
	if err != nil {
		return cfg, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	switch format {
	case names.FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(content)).Decode(&cfg)
		if err != nil {
			return cfg, fmt.Errorf("%w: failed to parse TOML file %s: %w", tm.ErrValue, path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("%w: %s: unknown keys %v", tm.ErrValue, path, undecoded)
		}
	case names.FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("%w: failed to parse YAML file %s: %w", tm.ErrValue, path, err)
		}
	}
	return cfg, nil
}

// New builds a Converter from cfg and resolves its zone.
func New(cfg Config, logger tzstate.Logger) (*Converter, error) {
	c := &Converter{
		Limits:           tm.Limits{YearBits: cfg.YearBits, Reject2DigitYears: cfg.Reject2DigitYears},
		StrictDirectives: cfg.StrictDirectives,
	}
	if err := c.Limits.Check(); err != nil {
		return nil, err
	}
	if cfg.NamesFile != "" {
		t, err := names.Load(cfg.NamesFile)
		if err != nil {
			return nil, err
		}
		c.Names = t
	}

	src := tzstate.EnvSource("TZ")
	if cfg.TZ != "" {
		src = tzstate.StaticSource(cfg.TZ)
	}
	c.Zone = tzstate.NewZone(tzstate.Options{
		Source:      src,
		ZoneinfoDir: cfg.ZoneinfoDir,
		Localtime:   cfg.Localtime,
		Strict:      cfg.StrictRules,
		Logger:      logger,
	})
	if err := c.Zone.Tzset(); err != nil {
		return nil, err
	}
	return c, nil
}
