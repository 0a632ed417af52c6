package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampFormat is the fixed timestamp layout of the persisted record
// format. It is RFC 3339 with nanosecond precision and must not change;
// parsers of existing log files depend on it.
const TimestampFormat = time.RFC3339Nano

// Record is a single structured log record.
//
// A Record is immutable once built: it is created per logging call,
// serialized immediately, and then discarded. The logger never retains
// a Record beyond the call that produced it and never mutates one after
// construction.
type Record struct {
	// Timestamp is the wall-clock time captured at emission.
	Timestamp time.Time

	// Level is the effective severity of the record. It may be higher
	// than the level the caller requested when a security rule with a
	// higher severity matched the content.
	Level Level

	// Message is the sanitized, length-capped message text. It never
	// contains raw newline or carriage-return characters.
	Message string

	// Metadata holds caller-supplied key/value pairs in insertion order.
	// String values are sanitized like the message.
	Metadata Metadata

	// SecurityMatches lists the categories of every suspicious-content
	// rule that matched the record. Empty for clean records.
	SecurityMatches []string
}

// recordJSON is the wire representation of a Record. Field names are part
// of the persisted format contract and must stay stable.
type recordJSON struct {
	Timestamp       string   `json:"timestamp"`
	Level           string   `json:"level"`
	Message         string   `json:"message"`
	Metadata        Metadata `json:"metadata"`
	SecurityMatches []string `json:"security_matches"`
}

// MarshalJSON serializes the record as a single self-describing JSON
// object. The output contains no raw newlines, so one marshaled record
// per line is a safe framing for the file sinks.
func (r *Record) MarshalJSON() ([]byte, error) {
	metadata := r.Metadata
	if metadata == nil {
		metadata = Metadata{}
	}
	matches := r.SecurityMatches
	if matches == nil {
		matches = []string{}
	}
	return json.Marshal(recordJSON{
		Timestamp:       r.Timestamp.Format(TimestampFormat),
		Level:           r.Level.String(),
		Message:         r.Message,
		Metadata:        metadata,
		SecurityMatches: matches,
	})
}

// UnmarshalJSON parses a serialized record back into the same field
// values, completing the round-trip contract of the persisted format.
func (r *Record) UnmarshalJSON(data []byte) error {
	var wire recordJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	ts, err := time.Parse(TimestampFormat, wire.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid record timestamp %q: %w", wire.Timestamp, err)
	}
	level, err := ParseLevel(wire.Level)
	if err != nil {
		return fmt.Errorf("invalid record level: %w", err)
	}

	r.Timestamp = ts
	r.Level = level
	r.Message = wire.Message
	r.Metadata = wire.Metadata
	r.SecurityMatches = wire.SecurityMatches
	return nil
}

// ParseRecord parses one line of the persisted record format.
func ParseRecord(line []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse log record: %w", err)
	}
	return &rec, nil
}
