// Package tzstate holds the process timezone state: the zone names, the standard
// and daylight offsets and the daylight saving schedule, re-derived from a POSIX
// TZ rule by Zone.Tzset.
package tzstate

import (
	"github.com/ngrash/go-tztime/tzrule"
)

// State is an immutable snapshot of the timezone configuration.
type State struct {
	// Names holds the standard and the daylight zone designation. Without
	// daylight saving time both are the standard name.
	Names [2]string
	// Timezone is the standard offset in seconds west of UTC.
	Timezone int
	// Altzone is the daylight offset in seconds west of UTC, equal to
	// Timezone when the zone has no daylight saving time.
	Altzone int
	// Daylight is 1 if the rule defines daylight saving time, else 0.
	Daylight int

	// TZ is the rule string the state was derived from.
	TZ   string
	Rule tzrule.Rule
}

// UTC is the state used when no usable rule is configured.
var UTC = FromRule("UTC0", tzrule.UTC)

// FromRule derives the state for a parsed rule.
func FromRule(tz string, r tzrule.Rule) *State {
	s := &State{
		Names:    [2]string{r.Std.Name, r.Std.Name},
		Timezone: -r.Std.Offset,
		Altzone:  -r.Std.Offset,
		TZ:       tz,
		Rule:     r,
	}
	if r.HasDST {
		s.Names[1] = r.Dst.Name
		s.Altzone = -r.Dst.Offset
		s.Daylight = 1
	}
	return s
}

// Lookup returns the local time type in effect at the given Unix time.
func (s *State) Lookup(unix int64) tzrule.Zone {
	return s.Rule.Lookup(unix)
}

// Offset returns the offset east of UTC for the given DST flag, which is
// clamped to the standard offset when the zone has no daylight saving time.
func (s *State) Offset(isDST bool) int {
	if isDST && s.Daylight == 1 {
		return -s.Altzone
	}
	return -s.Timezone
}
