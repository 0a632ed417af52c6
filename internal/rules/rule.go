package rules

import "github.com/seclog/seclog/internal/model"

// Rule describes one suspicious-content detection rule.
//
// Rules are process-wide and read-only after Matcher construction.
// Multiple rules may share a category; a category matches when any of
// its rules matches.
type Rule struct {
	// Category is the label reported when the rule matches
	// (e.g. "keylogging", "credential-exposure").
	Category string

	// Description explains what the rule detects and why it matters.
	// It appears in rule listings, not in log records.
	Description string

	// Severity is the minimum level a record containing matching content
	// should carry. A record logged below this level is promoted to it.
	Severity model.Level

	// Pattern is the regular expression source. It is compiled
	// case-insensitively at Matcher construction.
	Pattern string
}

// Match reports one matched category together with the severity the
// record should be promoted to.
type Match struct {
	// Category is the matched rule's category label.
	Category string

	// Severity is the highest severity among the category's matching rules.
	Severity model.Level
}
