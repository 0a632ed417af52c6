package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is a single metadata key/value pair.
// Values are expected to be scalars (string, bool, numbers); nested
// structures are tolerated but not part of the contract.
type Field struct {
	Key   string
	Value any
}

// Metadata is an ordered list of key/value pairs attached to a Record.
//
// Design decision: We use a slice of fields rather than a map because the
// persisted record format must preserve insertion order. encoding/json
// marshals maps with sorted keys, which would silently reorder caller
// metadata; a slice with custom JSON methods keeps the order stable and
// round-trippable.
type Metadata []Field

// Set appends a key/value pair, replacing the value in place if the key
// is already present.
func (m *Metadata) Set(key string, value any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Field{Key: key, Value: value})
}

// Get returns the value for key and whether it was present.
func (m Metadata) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON serializes the metadata as a JSON object whose keys appear
// in insertion order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata key %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata value for %q: %w", f.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object into the metadata, preserving the
// key order found in the input.
//
// Design decision: We walk the token stream with json.Decoder instead of
// unmarshaling into a map because a map would lose the key order that
// MarshalJSON guarantees, breaking the round-trip property of the
// persisted format.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata must be a JSON object, got %v", tok)
	}

	fields := make(Metadata, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("metadata key must be a string, got %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode metadata value for %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: normalizeJSONValue(value)})
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = fields
	return nil
}

// normalizeJSONValue converts json.Number values into float64 or int64 so
// that parsed metadata compares naturally against caller-supplied values.
func normalizeJSONValue(v any) any {
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}
