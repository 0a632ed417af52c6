package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// scanIntoHistory runs a scan recording into dbDir, ignoring the
// suspicious-content exit error.
func scanIntoHistory(t *testing.T, dbDir, path string) {
	t.Helper()

	_, err := executeCommand(t, "scan", "--log-dir", t.TempDir(), "--db-dir", dbDir, path)
	if err != nil && !strings.Contains(err.Error(), "suspicious content detected") {
		t.Fatalf("scan failed: %v", err)
	}
}

// TestCompareUnchangedFile tests the no-drift outcome.
func TestCompareUnchangedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbDir := t.TempDir()
	path := writeScanFile(t, dir, "stable.txt", "same content\n")

	scanIntoHistory(t, dbDir, path)
	scanIntoHistory(t, dbDir, path)

	out, err := executeCommand(t, "compare", "--db-dir", dbDir, path)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.Contains(out, "No drift: content unchanged.") {
		t.Errorf("unexpected output: %s", out)
	}
}

// TestCompareDriftWithNewMatches tests that new suspicious categories
// turn the comparison into an error.
func TestCompareDriftWithNewMatches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbDir := t.TempDir()
	path := writeScanFile(t, dir, "plugin.py", "def handle(event):\n    pass\n")

	scanIntoHistory(t, dbDir, path)

	if err := os.WriteFile(path, []byte("def handle(event):\n    keylogger.record(event)\n"), 0o600); err != nil {
		t.Fatalf("failed to modify file: %v", err)
	}
	scanIntoHistory(t, dbDir, path)

	out, err := executeCommand(t, "compare", "--db-dir", dbDir, path)
	if err == nil {
		t.Fatal("new suspicious categories must return an error")
	}
	if !strings.Contains(out, "Content changed between inspections.") {
		t.Errorf("output must report the digest change: %s", out)
	}
	if !strings.Contains(out, "keylogging") {
		t.Errorf("output must name the new category: %s", out)
	}
}

// TestCompareInsufficientHistory tests the single-inspection case.
func TestCompareInsufficientHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbDir := t.TempDir()
	path := writeScanFile(t, dir, "once.txt", "only scanned once\n")

	scanIntoHistory(t, dbDir, path)

	if _, err := executeCommand(t, "compare", "--db-dir", dbDir, path); err == nil {
		t.Error("expected an error with a single recorded inspection")
	}
}

// TestCompareNoDatabase tests the guidance when no history exists.
func TestCompareNoDatabase(t *testing.T) {
	t.Parallel()

	_, err := executeCommand(t, "compare", "--db-dir", t.TempDir(), "/some/file")
	if err == nil || !strings.Contains(err.Error(), "no inspection history available") {
		t.Errorf("expected missing-history error, got %v", err)
	}
}

// TestCompareList tests the history listing.
func TestCompareList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbDir := t.TempDir()
	a := writeScanFile(t, dir, "a.txt", "a\n")
	b := writeScanFile(t, dir, "b.txt", "b\n")

	scanIntoHistory(t, dbDir, a)
	scanIntoHistory(t, dbDir, b)

	out, err := executeCommand(t, "compare", "--db-dir", dbDir, "--list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, filepath.Base(a)) || !strings.Contains(out, filepath.Base(b)) {
		t.Errorf("listing must include both paths: %s", out)
	}
}
