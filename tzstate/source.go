package tzstate

import (
	"errors"
	"os"

	"github.com/ngrash/go-tztime/tzif"
)

// RuleSource supplies the TZ rule text. ok is false when no rule is configured,
// which selects the platform default.
type RuleSource interface {
	Rule() (rule string, ok bool, err error)
}

// RuleSourceFunc adapts a function to a RuleSource.
type RuleSourceFunc func() (string, bool, error)

// Rule calls f.
func (f RuleSourceFunc) Rule() (string, bool, error) { return f() }

// EnvSource reads the rule from the named environment variable on every call.
func EnvSource(name string) RuleSource {
	return RuleSourceFunc(func() (string, bool, error) {
		v, ok := os.LookupEnv(name)
		return v, ok, nil
	})
}

// StaticSource always returns rule.
func StaticSource(rule string) RuleSource {
	return RuleSourceFunc(func() (string, bool, error) {
		return rule, true, nil
	})
}

// TZifSource returns the footer TZ string of the TZif file at path. A missing
// file is reported as no rule.
func TZifSource(path string) RuleSource {
	return RuleSourceFunc(func() (string, bool, error) {
		tz, err := tzif.ReadFooterFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return tz, true, nil
	})
}

// ChainSource returns the rule of the first source that has one. Errors stop
// the chain.
func ChainSource(sources ...RuleSource) RuleSource {
	return RuleSourceFunc(func() (string, bool, error) {
		for _, s := range sources {
			rule, ok, err := s.Rule()
			if err != nil || ok {
				return rule, ok, err
			}
		}
		return "", false, nil
	})
}
