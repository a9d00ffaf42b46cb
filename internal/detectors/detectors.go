package detectors

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/dlclark/regexp2"
	"github.com/shivarm/code-guardian/internal/types"
)

// MatchTimeout bounds a single rule evaluation against a single line. A
// timed-out evaluation counts as no match.
var MatchTimeout = 250 * time.Millisecond

type compiledRule struct {
	rule   types.Rule
	re     *regexp2.Regexp
	sticky bool
	err    error
}

// Set is an ordered, compiled rule set. Rules whose pattern or flags fail to
// compile stay in the set but never match.
type Set struct {
	rules []compiledRule
}

// Compile compiles every rule once, preserving configured order.
func Compile(rules []types.Rule) *Set {
	s := &Set{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		s.rules = append(s.rules, compileRule(r))
	}
	return s
}

func compileRule(r types.Rule) compiledRule {
	cr := compiledRule{rule: r}
	opts, sticky, err := parseFlags(r.EffectiveFlags())
	if err != nil {
		cr.err = err
		return cr
	}
	re, err := regexp2.Compile(r.Pattern, opts)
	if err != nil {
		cr.err = err
		return cr
	}
	re.MatchTimeout = MatchTimeout
	cr.re = re
	cr.sticky = sticky
	return cr
}

// parseFlags maps JavaScript regex flags onto regexp2 options. Unknown and
// repeated flags are rejected the way the RegExp constructor rejects them.
func parseFlags(flags string) (regexp2.RegexOptions, bool, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	sticky := false
	seen := map[rune]bool{}
	for _, f := range flags {
		if seen[f] {
			return 0, false, fmt.Errorf("duplicate flag %q", f)
		}
		seen[f] = true
		switch f {
		case 'g', 'd':
			// global and indices only change multi-match bookkeeping
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u', 'v':
			opts |= regexp2.Unicode
		case 'y':
			sticky = true
		default:
			return 0, false, fmt.Errorf("invalid flag %q", f)
		}
	}
	if seen['u'] && seen['v'] {
		return 0, false, fmt.Errorf("flags u and v are mutually exclusive")
	}
	return opts, sticky, nil
}

func (c compiledRule) matches(line string) bool {
	if c.re == nil {
		return false
	}
	if c.sticky {
		m, err := c.re.FindStringMatch(line)
		return err == nil && m != nil && m.Index == 0
	}
	ok, err := c.re.MatchString(line)
	return err == nil && ok
}

// Len returns the number of configured rules, valid or not.
func (s *Set) Len() int { return len(s.rules) }

// Rules returns the configured rules in order.
func (s *Set) Rules() []types.Rule {
	out := make([]types.Rule, len(s.rules))
	for i, c := range s.rules {
		out[i] = c.rule
	}
	return out
}

// Invalid returns, per rule index, the compile error of rules that can never
// match. Valid rules are absent from the map.
func (s *Set) Invalid() map[int]error {
	out := map[int]error{}
	for i, c := range s.rules {
		if c.err != nil {
			out[i] = c.err
		}
	}
	return out
}

// Match applies every rule to every line of content. Lines are split on
// \r?\n; each matching (rule, line) pair yields exactly one finding, lines
// in file order and rules in configured order.
func (s *Set) Match(content string) []types.Finding {
	var out []types.Finding
	for i, line := range SplitLines(content) {
		for _, c := range s.rules {
			if !c.matches(line) {
				continue
			}
			out = append(out, types.Finding{
				Rule:       c.rule.DisplayName(),
				LineNumber: i + 1,
				Line:       TrimLine(line),
				Pattern:    c.rule.Pattern,
			})
		}
	}
	return out
}

// Fingerprint identifies the rule set contents; it changes whenever a name,
// pattern or flag changes, or rules are reordered.
func (s *Set) Fingerprint() string {
	d := xxhash.New()
	for _, c := range s.rules {
		_, _ = d.WriteString(c.rule.Name)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(c.rule.Pattern)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(c.rule.Flags)
		_, _ = d.WriteString("\x01")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Match compiles rules and applies them to content in one call.
func Match(content string, rules []types.Rule) []types.Finding {
	return Compile(rules).Match(content)
}

// SplitLines splits content on \n, dropping a single trailing \r from each
// line. A trailing newline produces a final empty line.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// TrimLine strips leading and trailing whitespace, including the byte order
// mark. NEL (U+0085) is kept, as String.prototype.trim keeps it.
func TrimLine(line string) string {
	return strings.TrimFunc(line, func(r rune) bool {
		return (unicode.IsSpace(r) && r != '\u0085') || r == '\uFEFF'
	})
}
