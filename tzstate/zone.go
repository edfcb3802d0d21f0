package tzstate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ngrash/go-tztime/tm"
	"github.com/ngrash/go-tztime/tzif"
	"github.com/ngrash/go-tztime/tzrule"
)

const (
	DefaultZoneinfoDir = "/usr/share/zoneinfo"
	DefaultLocaltime   = "/etc/localtime"
)

// Logger is the logging interface used by Zone. *slog.Logger implements it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(_ string, _ ...any) {}
func (noopLogger) Warn(_ string, _ ...any)  {}

// Options configures a Zone. The zero value reads the TZ environment variable.
type Options struct {
	// Source supplies the rule; nil means EnvSource("TZ").
	Source RuleSource
	// ZoneinfoDir is searched for TZif files when the rule is a zone name.
	ZoneinfoDir string
	// Localtime is the TZif file used when Source has no rule.
	Localtime string
	// Strict makes an unusable rule an error instead of a fallback to UTC.
	Strict bool
	Logger Logger
}

// Zone owns the timezone state. Readers take a snapshot with State; Tzset
// replaces the snapshot. All methods are safe for concurrent use.
type Zone struct {
	opts Options
	log  Logger

	mu    sync.Mutex // serializes resolution
	state atomic.Pointer[State]
}

// NewZone returns an uninitialized zone. The rule is resolved on first use.
func NewZone(opts Options) *Zone {
	if opts.Source == nil {
		opts.Source = EnvSource("TZ")
	}
	if opts.ZoneinfoDir == "" {
		opts.ZoneinfoDir = DefaultZoneinfoDir
	}
	if opts.Localtime == "" {
		opts.Localtime = DefaultLocaltime
	}
	z := &Zone{opts: opts, log: opts.Logger}
	if z.log == nil {
		z.log = noopLogger{}
	}
	return z
}

// Fixed returns an initialized zone that always has state s.
func Fixed(s *State) *Zone {
	z := NewZone(Options{Source: StaticSource(s.TZ)})
	z.state.Store(s)
	return z
}

// State returns the current snapshot, resolving the rule if Tzset was never called.
func (z *Zone) State() (*State, error) {
	if s := z.state.Load(); s != nil {
		return s, nil
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	if s := z.state.Load(); s != nil {
		return s, nil
	}
	s, err := z.resolve()
	if err != nil {
		return nil, err
	}
	z.state.Store(s)
	return s, nil
}

// Tzset re-reads the rule source and publishes the resulting state. On error
// the previous state is kept.
func (z *Zone) Tzset() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	s, err := z.resolve()
	if err != nil {
		return err
	}
	z.state.Store(s)
	return nil
}

func (z *Zone) resolve() (*State, error) {
	rule, ok, err := z.opts.Source.Rule()
	var s *State
	switch {
	case err != nil:
		s, err = z.fallback(rule, fmt.Errorf("read rule source: %w", err))
	case !ok:
		s = z.platformDefault()
	default:
		s, err = z.resolveRule(rule)
	}
	if err != nil {
		return nil, err
	}
	z.log.Debug("timezone state",
		"tz", s.TZ,
		"names", s.Names,
		"timezone", s.Timezone,
		"altzone", s.Altzone,
		"daylight", s.Daylight,
	)
	return s, nil
}

func (z *Zone) platformDefault() *State {
	tz, err := tzif.ReadFooterFile(z.opts.Localtime)
	if err == nil && tz != "" {
		r, perr := tzrule.Parse(tz)
		if perr == nil {
			return FromRule(tz, r)
		}
		err = perr
	}
	z.log.Debug("no platform timezone, using UTC", "path", z.opts.Localtime, "error", err)
	return UTC
}

// resolveRule accepts a POSIX TZ string or the name of a TZif file, optionally
// prefixed with a colon. The empty rule is UTC.
func (z *Zone) resolveRule(rule string) (*State, error) {
	if rule == "" {
		return UTC, nil
	}
	name, isName := strings.CutPrefix(rule, ":")

	var errs []error
	if !isName {
		r, err := tzrule.Parse(rule)
		if err == nil {
			return FromRule(rule, r), nil
		}
		errs = append(errs, err)
	}

	tz, err := z.readZoneinfo(name)
	if err == nil {
		var r tzrule.Rule
		r, err = tzrule.Parse(tz)
		if err == nil {
			return FromRule(tz, r), nil
		}
	}
	errs = append(errs, err)
	return z.fallback(rule, errors.Join(errs...))
}

func (z *Zone) readZoneinfo(name string) (string, error) {
	path := name
	if !filepath.IsAbs(name) {
		if !filepath.IsLocal(name) {
			return "", fmt.Errorf("invalid zone name %q", name)
		}
		path = filepath.Join(z.opts.ZoneinfoDir, name)
	}
	tz, err := tzif.ReadFooterFile(path)
	if err != nil {
		return "", err
	}
	if tz == "" {
		return "", fmt.Errorf("%s: empty TZ string", path)
	}
	return tz, nil
}

func (z *Zone) fallback(rule string, err error) (*State, error) {
	if z.opts.Strict {
		return nil, fmt.Errorf("%w: timezone %q: %w", tm.ErrValue, rule, err)
	}
	z.log.Warn("unusable timezone rule, using UTC", "rule", rule, "error", err)
	return UTC, nil
}
