package types

// Matcher defines how candidate strings are recognised by a rule: any
// literal prefix, any exact entry, or any regular expression matched
// against the whole string.
type Matcher struct {
	ByPrefix []string `toml:"by_prefix" yaml:"by_prefix"`
	ByFull   []string `toml:"by_full" yaml:"by_full"`
	ByRegex  []string `toml:"by_regex" yaml:"by_regex"`
}

// Group names a restart-risk group and defines which units belong to it.
type Group struct {
	Group    string   `toml:"group" yaml:"group"`
	ByPrefix []string `toml:"by_prefix" yaml:"by_prefix"`
	ByFull   []string `toml:"by_full" yaml:"by_full"`
	ByRegex  []string `toml:"by_regex" yaml:"by_regex"`
}

// Rules is the raw shape of a rule file.
type Rules struct {
	// IgnorePaths matches paths that never influence restart decisions.
	IgnorePaths Matcher `toml:"ignore_paths" yaml:"ignore_paths"`
	// CatchallUnits matches units that are suppressed entirely.
	CatchallUnits Matcher `toml:"catchall_units" yaml:"catchall_units"`
	// GroupServices assigns units to groups, in declaration order.
	GroupServices []Group `toml:"group_services" yaml:"group_services"`
}

// Matcher returns the group's unit matcher.
func (g Group) Matcher() Matcher {
	return Matcher{
		ByPrefix: g.ByPrefix,
		ByFull:   g.ByFull,
		ByRegex:  g.ByRegex,
	}
}
