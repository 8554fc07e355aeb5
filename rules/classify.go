package rules

import "github.com/genuinetools/stale/types"

// GroupOther is the synthetic fallback group for units no rule claims.
// It is never declared in a rule file.
const GroupOther = "other"

// Classification is the outcome of classifying a single unit name.
type Classification struct {
	// Ignored is true when the unit matched a catchall and carries no
	// restart-impact information at all.
	Ignored bool
	// Group is the risk group the unit belongs to. Empty when Ignored.
	Group string
}

// Ruleset is compiled rule data. It is read-only after Compile, so all of
// its methods are safe to call from concurrent goroutines without locking.
type Ruleset struct {
	source        types.Rules
	ignorePaths   *matcher
	catchallUnits *matcher
	groups        []group
}

type group struct {
	name    string
	matcher *matcher
}

// IgnorePath reports whether the path is noise that must never influence
// restart decisions.
func (r *Ruleset) IgnorePath(path string) bool {
	return r.ignorePaths.match(path)
}

// Classify maps a unit name to its classification. Catchalls take
// precedence over every group. Groups are scanned in declaration order and
// the first match wins, which keeps the result deterministic even when the
// rule author declared overlapping groups. Units nothing claims land in
// GroupOther.
func (r *Ruleset) Classify(unit string) Classification {
	if r.catchallUnits.match(unit) {
		return Classification{Ignored: true}
	}

	for _, g := range r.groups {
		if g.matcher.match(unit) {
			return Classification{Group: g.name}
		}
	}

	return Classification{Group: GroupOther}
}

// Source returns the rule data the set was compiled from.
func (r *Ruleset) Source() types.Rules {
	return r.source
}
