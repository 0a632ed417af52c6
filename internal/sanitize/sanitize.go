// Package sanitize neutralizes untrusted text before it enters a log
// record.
//
// Log files in this system are line-oriented: one serialized record per
// line. A message containing raw newlines could therefore forge record
// boundaries and inject entries that look like they came from the logger
// itself. The sanitizer removes that possibility and additionally caps
// message length so a single hostile caller cannot balloon the log.
//
// Sanitization is a pure transformation: it never fails and has no side
// effects. It must be applied to the message and to every string-valued
// metadata entry before record building.
package sanitize

import "strings"

// TruncationMarker is appended to messages cut at the length cap so a
// reader can tell the text is incomplete.
const TruncationMarker = "... (message truncated)"

// DefaultMaxLength is the default message length cap in runes.
// Long enough for stack traces, short enough to bound hostile input.
const DefaultMaxLength = 10000

// newlineReplacer collapses record-boundary characters into spaces.
// Each newline or carriage return becomes exactly one space.
var newlineReplacer = strings.NewReplacer("\n", " ", "\r", " ")

// Sanitizer strips record-forging characters and enforces a maximum
// message length. The zero value is not usable; construct with New.
type Sanitizer struct {
	// maxLength is the cap in runes applied before the marker is added.
	maxLength int
}

// New creates a Sanitizer with the given length cap.
// Non-positive values fall back to DefaultMaxLength.
func New(maxLength int) *Sanitizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Sanitizer{maxLength: maxLength}
}

// MaxLength returns the configured cap in runes.
func (s *Sanitizer) MaxLength() int {
	return s.maxLength
}

// Message returns raw with every newline and carriage return replaced by
// a single space, truncated to the configured cap. Truncated output
// carries TruncationMarker. The worst case result is the empty string;
// Message never fails.
func (s *Sanitizer) Message(raw string) string {
	clean := newlineReplacer.Replace(raw)

	runes := []rune(clean)
	if len(runes) <= s.maxLength {
		return clean
	}
	return string(runes[:s.maxLength]) + TruncationMarker
}

// Value sanitizes string values and passes every other scalar through
// unchanged. Metadata values flow through here so that free text hidden
// in a metadata field gets the same treatment as the message.
func (s *Sanitizer) Value(v any) any {
	if str, ok := v.(string); ok {
		return s.Message(str)
	}
	return v
}
