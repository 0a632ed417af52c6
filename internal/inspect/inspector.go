package inspect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"time"

	"github.com/seclog/seclog/internal/model"
	"github.com/seclog/seclog/internal/rules"
	"golang.org/x/crypto/sha3"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DefaultMaxInspectSize caps how many bytes of a file are read and
// scanned (32 MiB). Large enough for any reasonable text artifact,
// small enough to bound memory per inspection.
const DefaultMaxInspectSize = 32 * 1024 * 1024

// Digest algorithm names accepted by NewInspector.
const (
	DigestSHA256 = "sha256"
	DigestSHA3   = "sha3-256"
)

// Inspector scans file content against the suspicious-pattern rule set.
// An Inspector is immutable after construction and safe for concurrent
// use.
type Inspector struct {
	// maxBytes is the read cap; files larger than this are scanned as a
	// prefix and marked truncated.
	maxBytes int64

	// algorithm names the digest in results.
	algorithm string

	// newHash creates a fresh digest state per inspection.
	newHash func() hash.Hash

	// matcher scans the decoded content. Nil disables scanning, leaving
	// the match list empty.
	matcher *rules.Matcher

	// now stamps results, replaceable in tests.
	now func() time.Time
}

// InspectorOption configures an Inspector.
type InspectorOption func(*Inspector)

// WithMaxBytes sets the read cap.
func WithMaxBytes(n int64) InspectorOption {
	return func(i *Inspector) {
		if n > 0 {
			i.maxBytes = n
		}
	}
}

// WithInspectorClock replaces the timestamp source in tests.
func WithInspectorClock(now func() time.Time) InspectorOption {
	return func(i *Inspector) {
		if now != nil {
			i.now = now
		}
	}
}

// NewInspector creates an Inspector using the named digest algorithm
// ("sha256" or "sha3-256"). matcher may be nil to disable scanning.
func NewInspector(algorithm string, matcher *rules.Matcher, opts ...InspectorOption) (*Inspector, error) {
	i := &Inspector{
		maxBytes:  DefaultMaxInspectSize,
		algorithm: algorithm,
		matcher:   matcher,
		now:       time.Now,
	}

	switch algorithm {
	case DigestSHA256:
		i.newHash = sha256.New
	case DigestSHA3:
		i.newHash = sha3.New256
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, algorithm)
	}

	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Inspect reads path up to the byte cap, digests and scans the content,
// and returns the result together with the rule matches that fired.
//
// A file larger than the cap yields Truncated=true and a match set that
// reflects only the scanned prefix; the digest likewise covers only the
// bytes read. Suspicious content never causes an error.
func (i *Inspector) Inspect(ctx context.Context, path string) (*model.FileInspection, []rules.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrFileRead, path, err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	f, err := os.Open(path) //nolint:gosec // Inspecting caller-provided paths is the whole point
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrFileRead, path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, i.maxBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrFileRead, path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	h := i.newHash()
	h.Write(data)

	result := &model.FileInspection{
		Path:            path,
		SizeBytes:       info.Size(),
		Digest:          hex.EncodeToString(h.Sum(nil)),
		DigestAlgorithm: i.algorithm,
		Truncated:       info.Size() > int64(len(data)),
		Matches:         []string{},
		InspectedAt:     i.now(),
	}

	var matches []rules.Match
	if i.matcher != nil {
		matches = i.matcher.Scan(decode(data))
		result.Matches = rules.Categories(matches)
	}

	return result, matches, nil
}

// decode converts raw file bytes to text on a best-effort basis:
// ill-formed UTF-8 sequences become replacement runes instead of
// aborting the scan. Binary files therefore still get their printable
// fragments scanned.
func decode(data []byte) string {
	out, _, err := transform.Bytes(runes.ReplaceIllFormed(), data)
	if err != nil {
		// ReplaceIllFormed does not fail on input content; fall back to
		// the raw bytes if it somehow does.
		return string(data)
	}
	return string(out)
}
