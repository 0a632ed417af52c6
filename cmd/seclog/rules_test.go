package main

import (
	"strings"
	"testing"
)

// TestRulesListsBuiltin tests the default rule listing.
func TestRulesListsBuiltin(t *testing.T) {
	t.Parallel()

	out, err := executeCommand(t, "rules")
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if !strings.Contains(out, "CATEGORY") {
		t.Errorf("missing table header: %s", out)
	}
	for _, category := range []string{"keylogging", "credential-theft", "mail-exfiltration"} {
		if !strings.Contains(out, category) {
			t.Errorf("listing missing builtin category %s: %s", category, out)
		}
	}
}

// TestRulesCustomOnly tests --no-builtin-rules with a rules file.
func TestRulesCustomOnly(t *testing.T) {
	t.Parallel()

	rulesPath := writeScanFile(t, t.TempDir(), "rules.yaml", `
rules:
  - category: crypto-miner
    description: Mining pool connection strings
    severity: critical
    pattern: 'stratum\+tcp://'
`)

	out, err := executeCommand(t, "rules", "--no-builtin-rules", "-r", rulesPath)
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if !strings.Contains(out, "crypto-miner") {
		t.Errorf("listing missing custom category: %s", out)
	}
	if strings.Contains(out, "keylogging") {
		t.Errorf("builtin rules must be excluded: %s", out)
	}
}

// TestRulesEmptySet tests --no-builtin-rules without a rules file.
func TestRulesEmptySet(t *testing.T) {
	t.Parallel()

	out, err := executeCommand(t, "rules", "--no-builtin-rules")
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if !strings.Contains(out, "No detection rules active.") {
		t.Errorf("unexpected output: %s", out)
	}
}

// TestRulesInvalidPattern tests that a broken custom pattern is rejected.
func TestRulesInvalidPattern(t *testing.T) {
	t.Parallel()

	rulesPath := writeScanFile(t, t.TempDir(), "rules.yaml", `
rules:
  - category: broken
    severity: warning
    pattern: '[unclosed'
`)

	if _, err := executeCommand(t, "rules", "-r", rulesPath); err == nil {
		t.Error("invalid pattern must return an error")
	}
}
