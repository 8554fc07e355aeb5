// Package rules loads restart-impact rule files and compiles them into an
// immutable ruleset for classifying paths and units.
package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/genuinetools/stale/types"
	"github.com/goccy/go-yaml"
)

// ParseFiles parses the rule files and compiles them into one ruleset.
// Ignore and catchall matchers from all files are unioned; groups keep
// their order, file by file.
func ParseFiles(files ...string) (*Ruleset, error) {
	var merged types.Rules

	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading file %s failed: %v", file, err)
		}

		var r types.Rules
		if err := unmarshal(file, b, &r); err != nil {
			return nil, err
		}

		merged.IgnorePaths = mergeMatchers(merged.IgnorePaths, r.IgnorePaths)
		merged.CatchallUnits = mergeMatchers(merged.CatchallUnits, r.CatchallUnits)
		merged.GroupServices = append(merged.GroupServices, r.GroupServices...)
	}

	return Compile(merged)
}

// unmarshal decodes one rule file by extension. Unrecognised keys are an
// error so that a typoed rule cannot silently match nothing.
func unmarshal(file string, b []byte, r *types.Rules) error {
	switch filepath.Ext(file) {
	case ".toml":
		md, err := toml.Decode(string(b), r)
		if err != nil {
			return fmt.Errorf("decoding file %s as rules failed: %v", file, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return fmt.Errorf("unrecognised keys in %s: %v", file, keys)
		}
	case ".yml", ".yaml":
		if err := yaml.UnmarshalWithOptions(b, r, yaml.Strict()); err != nil {
			return fmt.Errorf("decoding file %s as rules failed: %v", file, err)
		}
	default:
		return fmt.Errorf("rule file %s has an unsupported extension", file)
	}

	return nil
}

func mergeMatchers(a, b types.Matcher) types.Matcher {
	return types.Matcher{
		ByPrefix: append(a.ByPrefix, b.ByPrefix...),
		ByFull:   append(a.ByFull, b.ByFull...),
		ByRegex:  append(a.ByRegex, b.ByRegex...),
	}
}

// Compile validates the rule data and compiles it into a Ruleset. It is
// the only way to construct one, so a Ruleset in hand is always fully
// valid.
func Compile(raw types.Rules) (*Ruleset, error) {
	ignorePaths, err := compileMatcher(raw.IgnorePaths)
	if err != nil {
		return nil, fmt.Errorf("ignore_paths: %v", err)
	}

	catchallUnits, err := compileMatcher(raw.CatchallUnits)
	if err != nil {
		return nil, fmt.Errorf("catchall_units: %v", err)
	}

	seen := map[string]bool{}
	groups := make([]group, 0, len(raw.GroupServices))
	for _, g := range raw.GroupServices {
		if len(g.Group) < 1 {
			return nil, fmt.Errorf("group_services entry is missing a group name")
		}
		if g.Group == GroupOther {
			return nil, fmt.Errorf("group name %q is reserved for the fallback group", GroupOther)
		}
		if seen[g.Group] {
			return nil, fmt.Errorf("group %q is declared more than once", g.Group)
		}
		seen[g.Group] = true

		m, err := compileMatcher(g.Matcher())
		if err != nil {
			return nil, fmt.Errorf("group %q: %v", g.Group, err)
		}
		groups = append(groups, group{name: g.Group, matcher: m})
	}

	return &Ruleset{
		source:        raw,
		ignorePaths:   ignorePaths,
		catchallUnits: catchallUnits,
		groups:        groups,
	}, nil
}
