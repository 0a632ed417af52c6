package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestMessageRemovesNewlines tests that sanitized output never contains
// raw newline or carriage-return characters.
func TestMessageRemovesNewlines(t *testing.T) {
	t.Parallel()

	s := New(DefaultMaxLength)

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"newline", "line1\nline2", "line1 line2"},
		{"carriage return", "line1\rline2", "line1 line2"},
		{"crlf", "line1\r\nline2", "line1  line2"},
		{"forged record", "ok\n{\"level\":\"INFO\",\"message\":\"fake\"}", "ok {\"level\":\"INFO\",\"message\":\"fake\"}"},
		{"empty", "", ""},
		{"clean", "nothing to do", "nothing to do"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := s.Message(tc.input)
			if got != tc.expected {
				t.Errorf("Message(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
			if strings.ContainsAny(got, "\n\r") {
				t.Errorf("sanitized output still contains newline characters: %q", got)
			}
		})
	}
}

// TestMessageTruncation tests the length cap and truncation marker.
func TestMessageTruncation(t *testing.T) {
	t.Parallel()

	s := New(10)

	t.Run("over the cap", func(t *testing.T) {
		t.Parallel()
		got := s.Message("abcdefghijKLMNO")
		if !strings.HasSuffix(got, TruncationMarker) {
			t.Errorf("expected truncation marker, got %q", got)
		}
		if !strings.HasPrefix(got, "abcdefghij") {
			t.Errorf("expected capped prefix, got %q", got)
		}
		if utf8.RuneCountInString(got) != 10+utf8.RuneCountInString(TruncationMarker) {
			t.Errorf("unexpected truncated length for %q", got)
		}
	})

	t.Run("exactly at the cap", func(t *testing.T) {
		t.Parallel()
		got := s.Message("abcdefghij")
		if got != "abcdefghij" {
			t.Errorf("message at the cap must not be truncated, got %q", got)
		}
	})

	t.Run("multibyte runes", func(t *testing.T) {
		t.Parallel()
		got := s.Message(strings.Repeat("あ", 12))
		if !strings.HasPrefix(got, strings.Repeat("あ", 10)) {
			t.Errorf("truncation must count runes, not bytes: %q", got)
		}
		if !strings.HasSuffix(got, TruncationMarker) {
			t.Errorf("expected truncation marker, got %q", got)
		}
	})
}

// TestNewDefaults tests the fallback to DefaultMaxLength.
func TestNewDefaults(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -5} {
		if got := New(n).MaxLength(); got != DefaultMaxLength {
			t.Errorf("New(%d).MaxLength() = %d, expected %d", n, got, DefaultMaxLength)
		}
	}
}

// TestValue tests that only string values are sanitized.
func TestValue(t *testing.T) {
	t.Parallel()

	s := New(DefaultMaxLength)

	if got := s.Value("a\nb"); got != "a b" {
		t.Errorf("Value sanitized string: got %v", got)
	}
	if got := s.Value(42); got != 42 {
		t.Errorf("Value must pass non-strings through: got %v", got)
	}
	if got := s.Value(true); got != true {
		t.Errorf("Value must pass bools through: got %v", got)
	}
}
