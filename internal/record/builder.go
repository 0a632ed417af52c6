// Package record assembles structured log records.
//
// The Builder is the single place where raw caller input becomes an
// immutable model.Record: it sanitizes free text, runs the suspicious-
// content matcher, promotes the record level when a matched rule demands
// it, and stamps the emission time.
//
// Design decision: Record assembly lives in its own package rather than
// inside the logger facade so the file inspector and the slog bridge can
// build records through exactly the same path, keeping the sanitization
// and promotion guarantees in one place.
package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/seclog/seclog/internal/model"
	"github.com/seclog/seclog/internal/rules"
	"github.com/seclog/seclog/internal/sanitize"
)

// Builder turns caller input into finished records.
// A Builder is immutable after construction and safe for concurrent use.
type Builder struct {
	// sanitizer cleans the message and string metadata values.
	sanitizer *sanitize.Sanitizer

	// matcher scans content for suspicious patterns.
	// Nil when security scanning is disabled; records then never carry
	// security matches and no promotion happens.
	matcher *rules.Matcher

	// now is the timestamp source, replaceable in tests.
	now func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock replaces the timestamp source. Used by tests to produce
// deterministic records.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a Builder. matcher may be nil to disable security
// scanning entirely.
func NewBuilder(sanitizer *sanitize.Sanitizer, matcher *rules.Matcher, opts ...Option) *Builder {
	b := &Builder{
		sanitizer: sanitizer,
		matcher:   matcher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates a record from a logging call.
//
// The message and every string metadata value are sanitized first, then
// the sanitized message and stringified metadata are scanned together.
// If any rule matches, the record level is raised to at least the highest
// matched severity and SecurityMatches is populated. extra carries
// matches found outside the record text (file inspection results) and
// participates in promotion the same way.
func (b *Builder) Build(level model.Level, rawMessage string, metadata model.Metadata, extra ...rules.Match) *model.Record {
	message := b.sanitizer.Message(rawMessage)

	clean := make(model.Metadata, 0, len(metadata))
	for _, f := range metadata {
		clean = append(clean, model.Field{Key: f.Key, Value: b.sanitizer.Value(f.Value)})
	}

	matches := append([]rules.Match(nil), extra...)
	if b.matcher != nil {
		matches = mergeMatches(matches, b.matcher.Scan(scanText(message, clean)))
	}

	effective := rules.MaxSeverity(matches, level)

	return &model.Record{
		Timestamp:       b.now(),
		Level:           effective,
		Message:         message,
		Metadata:        clean,
		SecurityMatches: rules.Categories(matches),
	}
}

// scanText concatenates the message and stringified metadata so a single
// scan covers everything the record will persist.
func scanText(message string, metadata model.Metadata) string {
	if len(metadata) == 0 {
		return message
	}
	var sb strings.Builder
	sb.WriteString(message)
	for _, f := range metadata {
		sb.WriteByte(' ')
		sb.WriteString(f.Key)
		sb.WriteByte('=')
		fmt.Fprintf(&sb, "%v", f.Value)
	}
	return sb.String()
}

// mergeMatches appends additions to matches, deduplicating categories and
// keeping the highest severity per category.
func mergeMatches(matches, additions []rules.Match) []rules.Match {
	for _, add := range additions {
		merged := false
		for i := range matches {
			if matches[i].Category == add.Category {
				if add.Severity > matches[i].Severity {
					matches[i].Severity = add.Severity
				}
				merged = true
				break
			}
		}
		if !merged {
			matches = append(matches, add)
		}
	}
	return matches
}
