package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/genuinetools/stale/types"
)

// matcher is the compiled form of a types.Matcher.
type matcher struct {
	source  types.Matcher
	regexes []*regexp.Regexp
}

// compileMatcher compiles every regex in the matcher up front so that a
// malformed pattern fails at load time, never while classifying.
func compileMatcher(m types.Matcher) (*matcher, error) {
	c := &matcher{source: m}
	for _, pattern := range m.ByRegex {
		// Anchor at both ends so patterns match the whole string,
		// not a substring of it.
		re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
		if err != nil {
			return nil, fmt.Errorf("compiling regex %q failed: %v", pattern, err)
		}
		c.regexes = append(c.regexes, re)
	}

	return c, nil
}

// match reports whether s satisfies the matcher. The empty string never
// matches anything.
func (m *matcher) match(s string) bool {
	if len(s) < 1 {
		return false
	}

	for _, prefix := range m.source.ByPrefix {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	for _, full := range m.source.ByFull {
		if s == full {
			return true
		}
	}

	for _, re := range m.regexes {
		if re.MatchString(s) {
			return true
		}
	}

	return false
}
