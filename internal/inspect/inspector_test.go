package inspect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seclog/seclog/internal/rules"
)

func newTestInspector(t *testing.T, opts ...InspectorOption) *Inspector {
	t.Helper()

	matcher, err := rules.NewMatcher(rules.Builtin())
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}
	ins, err := NewInspector(DigestSHA256, matcher, opts...)
	if err != nil {
		t.Fatalf("failed to build inspector: %v", err)
	}
	return ins
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// TestInspectCleanFile tests that benign content yields no matches and a
// correct digest.
func TestInspectCleanFile(t *testing.T) {
	t.Parallel()

	content := "just an ordinary note about deployment schedules\n"
	path := writeTestFile(t, t.TempDir(), "note.txt", content)

	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	ins := newTestInspector(t, WithInspectorClock(func() time.Time { return fixed }))

	result, matches, err := ins.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if len(matches) != 0 || len(result.Matches) != 0 {
		t.Errorf("clean file produced matches: %v", result.Matches)
	}
	if result.Suspicious() {
		t.Error("clean file must not be suspicious")
	}
	if result.SizeBytes != int64(len(content)) {
		t.Errorf("size = %d, expected %d", result.SizeBytes, len(content))
	}

	sum := sha256.Sum256([]byte(content))
	if result.Digest != hex.EncodeToString(sum[:]) {
		t.Errorf("digest mismatch: %s", result.Digest)
	}
	if result.DigestAlgorithm != DigestSHA256 {
		t.Errorf("algorithm = %s", result.DigestAlgorithm)
	}
	if result.Truncated {
		t.Error("small file must not be truncated")
	}
	if !result.InspectedAt.Equal(fixed) {
		t.Errorf("timestamp = %v", result.InspectedAt)
	}
}

// TestInspectSuspiciousFile tests that pattern hits are reported as a
// successful result, not an error.
func TestInspectSuspiciousFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, t.TempDir(), "dropper.py",
		"import smtplib\nkeylogger = Hook()\nadd to registry run key\n")
	ins := newTestInspector(t)

	result, matches, err := ins.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !result.Suspicious() {
		t.Fatal("expected a suspicious result")
	}

	got := make(map[string]bool, len(matches))
	for _, m := range matches {
		got[m.Category] = true
	}
	for _, want := range []string{"keylogging", "mail-exfiltration", "registry-tampering"} {
		if !got[want] {
			t.Errorf("missing category %s in %v", result.Matches, matches)
		}
	}
}

// TestInspectTruncation tests the byte cap: oversized files are scanned
// as a prefix, flagged, and digested over the bytes actually read.
func TestInspectTruncation(t *testing.T) {
	t.Parallel()

	// The suspicious token sits past the cap, so it must not match.
	content := strings.Repeat("a", 64) + "keylogger"
	path := writeTestFile(t, t.TempDir(), "big.txt", content)
	ins := newTestInspector(t, WithMaxBytes(64))

	result, matches, err := ins.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !result.Truncated {
		t.Error("oversized file must be flagged truncated")
	}
	if result.SizeBytes != int64(len(content)) {
		t.Errorf("size must report the full file, got %d", result.SizeBytes)
	}
	if len(matches) != 0 {
		t.Errorf("content past the cap must not be scanned: %v", matches)
	}

	sum := sha256.Sum256([]byte(content[:64]))
	if result.Digest != hex.EncodeToString(sum[:]) {
		t.Error("digest must cover only the scanned prefix")
	}
}

// TestInspectBinaryContent tests that ill-formed bytes do not abort the
// scan of surrounding text.
func TestInspectBinaryContent(t *testing.T) {
	t.Parallel()

	content := "\xff\xfe\x00trojan payload\x80\x81"
	path := writeTestFile(t, t.TempDir(), "blob.bin", content)
	ins := newTestInspector(t)

	result, _, err := ins.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !result.Suspicious() {
		t.Error("printable fragment inside binary content must still match")
	}
}

// TestInspectMissingFile tests the not-found sentinel.
func TestInspectMissingFile(t *testing.T) {
	t.Parallel()

	ins := newTestInspector(t)
	_, _, err := ins.Inspect(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

// TestInspectDirectory tests that a directory is rejected as not found.
func TestInspectDirectory(t *testing.T) {
	t.Parallel()

	ins := newTestInspector(t)
	_, _, err := ins.Inspect(context.Background(), t.TempDir())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound for a directory, got %v", err)
	}
}

// TestInspectCancelledContext tests that cancellation wins over I/O.
func TestInspectCancelledContext(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, t.TempDir(), "note.txt", "content")
	ins := newTestInspector(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ins.Inspect(ctx, path)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestNewInspectorDigests tests algorithm selection.
func TestNewInspectorDigests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		algorithm string
		wantErr   bool
	}{
		{name: "sha256", algorithm: DigestSHA256},
		{name: "sha3-256", algorithm: DigestSHA3},
		{name: "unknown", algorithm: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewInspector(tt.algorithm, nil)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDigest) {
					t.Errorf("expected ErrUnknownDigest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestInspectSHA3Digest tests that the sha3-256 digest differs from
// sha256 over the same content and is labelled correctly.
func TestInspectSHA3Digest(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, t.TempDir(), "note.txt", "fingerprint me")

	sha2, err := NewInspector(DigestSHA256, nil)
	if err != nil {
		t.Fatalf("sha256 inspector: %v", err)
	}
	sha3ins, err := NewInspector(DigestSHA3, nil)
	if err != nil {
		t.Fatalf("sha3 inspector: %v", err)
	}

	r2, _, err := sha2.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	r3, _, err := sha3ins.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	if r3.DigestAlgorithm != DigestSHA3 {
		t.Errorf("algorithm = %s", r3.DigestAlgorithm)
	}
	if r2.Digest == r3.Digest {
		t.Error("sha256 and sha3-256 digests must differ")
	}
}
