package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seclog/seclog/internal/model"
)

// compiledRule pairs a rule with its compiled pattern.
type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Matcher evaluates text against an ordered rule set.
//
// A Matcher is immutable after construction and therefore safe for use
// by any number of concurrent callers without locking.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles the given rules into a Matcher. Rules are evaluated
// in the order given; categories in Scan results follow that order.
// Every pattern is compiled case-insensitively. A rule with an empty
// category or an invalid pattern fails construction.
func NewMatcher(ruleSet []Rule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(ruleSet))
	for i, r := range ruleSet {
		if strings.TrimSpace(r.Category) == "" {
			return nil, fmt.Errorf("rule %d: category must not be empty", i)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid pattern: %w", r.Category, err)
		}
		compiled = append(compiled, compiledRule{rule: r, re: re})
	}
	return &Matcher{rules: compiled}, nil
}

// Rules returns a copy of the rule set for listing and documentation.
func (m *Matcher) Rules() []Rule {
	out := make([]Rule, 0, len(m.rules))
	for _, cr := range m.rules {
		out = append(out, cr.rule)
	}
	return out
}

// Scan evaluates every rule against text and returns one Match per
// category that fired, in rule order. All rules are evaluated; a text
// that trips several categories surfaces all of them. When rules of the
// same category both match, the category is reported once with the
// highest severity. Scan returns an empty slice for clean text and
// never fails.
func (m *Matcher) Scan(text string) []Match {
	if text == "" {
		return nil
	}

	matches := make([]Match, 0)
	index := make(map[string]int) // category -> position in matches
	for _, cr := range m.rules {
		if !cr.re.MatchString(text) {
			continue
		}
		if i, seen := index[cr.rule.Category]; seen {
			if cr.rule.Severity > matches[i].Severity {
				matches[i].Severity = cr.rule.Severity
			}
			continue
		}
		index[cr.rule.Category] = len(matches)
		matches = append(matches, Match{Category: cr.rule.Category, Severity: cr.rule.Severity})
	}
	return matches
}

// Categories returns only the category labels of Scan, in match order.
func Categories(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Category)
	}
	return out
}

// MaxSeverity returns the highest severity among matches, or fallback
// when there are none.
func MaxSeverity(matches []Match, fallback model.Level) model.Level {
	level := fallback
	for _, m := range matches {
		if m.Severity > level {
			level = m.Severity
		}
	}
	return level
}
