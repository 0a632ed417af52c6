// Package rules implements suspicious-content detection for log messages
// and inspected file content.
//
// A Matcher holds an ordered, immutable set of rules. Each rule pairs a
// category label (e.g. "keylogging", "credential-exposure") with a
// case-insensitive regular expression and the minimum severity a record
// containing such content should carry.
//
// Design decision: Rules are plain data compiled once at construction,
// not types with behavior. New categories are added by extending the rule
// table (built-in or via configuration), never by touching dispatch logic.
//
// All patterns are Go regexp (RE2) expressions. RE2 guarantees linear
// worst-case matching time, so the matcher stays bounded even against
// adversarial input; backtracking constructs do not exist in the engine.
package rules
