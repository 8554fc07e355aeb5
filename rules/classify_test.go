package rules

import (
	"testing"

	"github.com/genuinetools/stale/types"
)

// testRules mirrors a typical shipped rule file: ignore prefixes for
// pseudo paths, a catchall for per-user manager units, and a few risk
// groups in priority order.
func testRules(t *testing.T) *Ruleset {
	rs, err := Compile(types.Rules{
		IgnorePaths: types.Matcher{
			ByPrefix: []string{"/proc/", "/dev/", "/tmp/", "/[", "/memfd:"},
		},
		CatchallUnits: types.Matcher{
			ByRegex: []string{`user@\d+\.service`, `session-\d+\.scope`},
		},
		GroupServices: []types.Group{
			{
				Group:  "safe",
				ByFull: []string{"cron.service"},
			},
			{
				Group:   "scary",
				ByFull:  []string{"dbus.service"},
				ByRegex: []string{`getty@.*\.service`},
			},
			{
				Group:   "blip",
				ByFull:  []string{"nginx.service"},
				ByRegex: []string{`php\d\.\d-fpm\.service`},
			},
			{
				Group:   "drop",
				ByRegex: []string{`getty@.*`},
			},
		},
	})
	if err != nil {
		t.Fatalf("compiling test rules failed: %v", err)
	}
	return rs
}

func TestIgnorePath(t *testing.T) {
	rs := testRules(t)

	testcases := map[string]struct {
		path     string
		expected bool
	}{
		"proc pseudo file": {
			path:     "/proc/1234/fd/9",
			expected: true,
		},
		"significant config file": {
			path:     "/etc/nginx/nginx.conf",
			expected: false,
		},
		"bracket pseudo path": {
			path:     "/[aio]",
			expected: true,
		},
		"memfd pseudo path": {
			path:     "/memfd:doublemapper",
			expected: true,
		},
		"library under lib": {
			path:     "/usr/lib/x86_64-linux-gnu/libssl.so.3",
			expected: false,
		},
		"prefix entry matches itself": {
			path:     "/tmp/",
			expected: true,
		},
	}

	for name, tc := range testcases {
		if ignored := rs.IgnorePath(tc.path); ignored != tc.expected {
			t.Errorf("[%s]: expected IgnorePath(%q) to be %t, got %t", name, tc.path, tc.expected, ignored)
		}
	}
}

func TestClassify(t *testing.T) {
	rs := testRules(t)

	testcases := map[string]struct {
		unit     string
		expected Classification
	}{
		"catchall regex": {
			unit:     "user@1000.service",
			expected: Classification{Ignored: true},
		},
		"catchall scope": {
			unit:     "session-42.scope",
			expected: Classification{Ignored: true},
		},
		"exact group member": {
			unit:     "nginx.service",
			expected: Classification{Group: "blip"},
		},
		"regex group member": {
			unit:     "php8.2-fpm.service",
			expected: Classification{Group: "blip"},
		},
		"first declared group wins": {
			// Matches both scary's and drop's regexes; scary is
			// declared first.
			unit:     "getty@tty1.service",
			expected: Classification{Group: "scary"},
		},
		"later group still reachable": {
			// drop's regex has no .service suffix requirement.
			unit:     "getty@hvc0",
			expected: Classification{Group: "drop"},
		},
		"no match falls back to other": {
			unit:     "randomapp.service",
			expected: Classification{Group: GroupOther},
		},
		"empty unit falls back to other": {
			unit:     "",
			expected: Classification{Group: GroupOther},
		},
	}

	for name, tc := range testcases {
		if c := rs.Classify(tc.unit); c != tc.expected {
			t.Errorf("[%s]: expected Classify(%q) to be %+v, got %+v", name, tc.unit, tc.expected, c)
		}
	}
}

// Catchall suppression must win even when the unit would also match a
// group rule.
func TestClassifyCatchallPrecedence(t *testing.T) {
	rs, err := Compile(types.Rules{
		CatchallUnits: types.Matcher{
			ByRegex: []string{`.*\.scope`},
		},
		GroupServices: []types.Group{
			{
				Group:   "scary",
				ByRegex: []string{`.*\.scope`},
			},
		},
	})
	if err != nil {
		t.Fatalf("compiling rules failed: %v", err)
	}

	c := rs.Classify("init.scope")
	if !c.Ignored {
		t.Errorf("expected init.scope to be ignored, got group %q", c.Group)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	rs := testRules(t)

	first := rs.Classify("getty@tty1.service")
	for i := 0; i < 100; i++ {
		if c := rs.Classify("getty@tty1.service"); c != first {
			t.Fatalf("classification changed between calls: %+v then %+v", first, c)
		}
	}
}
