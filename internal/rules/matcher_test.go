package rules

import (
	"strings"
	"testing"

	"github.com/seclog/seclog/internal/model"
)

func newBuiltinMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(Builtin())
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}
	return m
}

// TestScanCaseInsensitive tests that matching ignores case.
func TestScanCaseInsensitive(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	for _, input := range []string{
		"user reported a keylogger in their antivirus alerts",
		"user reported a KeyLogger in their antivirus alerts",
		"KEYLOGGING activity detected",
	} {
		matches := m.Scan(input)
		if len(matches) == 0 {
			t.Errorf("Scan(%q) returned no matches, expected keylogging", input)
			continue
		}
		found := false
		for _, match := range matches {
			if match.Category == "keylogging" {
				found = true
				if match.Severity != model.LevelCritical {
					t.Errorf("keylogging severity = %v, expected critical", match.Severity)
				}
			}
		}
		if !found {
			t.Errorf("Scan(%q) = %v, expected keylogging category", input, matches)
		}
	}
}

// TestScanMultipleCategories tests that all matching categories are
// surfaced, not just the first.
func TestScanMultipleCategories(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	matches := m.Scan("the trojan installs a keylogger and adds itself to startup")
	categories := Categories(matches)

	for _, expected := range []string{"keylogging", "persistence", "malware"} {
		found := false
		for _, c := range categories {
			if c == expected {
				found = true
			}
		}
		if !found {
			t.Errorf("expected category %q in %v", expected, categories)
		}
	}
}

// TestScanCredentialExposure tests the credential-exposure rule against
// plain "password: value" text.
func TestScanCredentialExposure(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	matches := m.Scan("user password: hunter2")
	categories := Categories(matches)
	found := false
	for _, c := range categories {
		if c == "credential-exposure" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected credential-exposure in %v", categories)
	}
	if got := MaxSeverity(matches, model.LevelDebug); got < model.LevelWarning {
		t.Errorf("MaxSeverity = %v, expected at least warning", got)
	}
}

// TestScanClean tests that clean text returns an empty result.
func TestScanClean(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	for _, input := range []string{
		"",
		"application started",
		"user logged in from 192.168.1.100",
	} {
		if matches := m.Scan(input); len(matches) != 0 {
			t.Errorf("Scan(%q) = %v, expected no matches", input, matches)
		}
	}
}

// TestScanLongInput tests that scanning stays well-behaved on large,
// adversarial input. RE2 matching is linear, so this must complete fast.
func TestScanLongInput(t *testing.T) {
	t.Parallel()

	m := newBuiltinMatcher(t)

	long := strings.Repeat("aaaaaaaaab", 200_000) + "keylogger"
	matches := m.Scan(long)
	if len(matches) == 0 {
		t.Error("expected a match at the end of a long input")
	}
}

// TestNewMatcherValidation tests construction failures.
func TestNewMatcherValidation(t *testing.T) {
	t.Parallel()

	t.Run("invalid pattern", func(t *testing.T) {
		t.Parallel()
		_, err := NewMatcher([]Rule{{Category: "broken", Pattern: "(unclosed"}})
		if err == nil {
			t.Error("expected error for invalid pattern")
		}
	})

	t.Run("empty category", func(t *testing.T) {
		t.Parallel()
		_, err := NewMatcher([]Rule{{Category: "  ", Pattern: "x"}})
		if err == nil {
			t.Error("expected error for empty category")
		}
	})
}

// TestCustomRules tests that caller-supplied rules participate in scans.
func TestCustomRules(t *testing.T) {
	t.Parallel()

	ruleSet := append(Builtin(), Rule{
		Category:    "internal-hostname",
		Description: "References to internal hostnames.",
		Severity:    model.LevelError,
		Pattern:     `corp\.example\.internal`,
	})
	m, err := NewMatcher(ruleSet)
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}

	matches := m.Scan("connecting to db01.CORP.example.INTERNAL")
	categories := Categories(matches)
	if len(categories) != 1 || categories[0] != "internal-hostname" {
		t.Errorf("expected [internal-hostname], got %v", categories)
	}
}

// TestScanSameCategoryKeepsHighestSeverity tests category deduplication.
func TestScanSameCategoryKeepsHighestSeverity(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher([]Rule{
		{Category: "dup", Severity: model.LevelWarning, Pattern: `alpha`},
		{Category: "dup", Severity: model.LevelCritical, Pattern: `beta`},
	})
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}

	matches := m.Scan("alpha beta")
	if len(matches) != 1 {
		t.Fatalf("expected single deduplicated match, got %v", matches)
	}
	if matches[0].Severity != model.LevelCritical {
		t.Errorf("severity = %v, expected critical", matches[0].Severity)
	}
}
