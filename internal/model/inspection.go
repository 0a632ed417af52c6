package model

import "time"

// FileInspection is the result of scanning a file's content.
//
// It is produced once per inspection call and immediately turned into a
// Record by the logger facade; the database package can additionally
// persist it for historical digest comparison.
type FileInspection struct {
	// Path is the inspected file path as given by the caller.
	Path string `json:"path"`

	// SizeBytes is the full size of the file on disk, which may exceed
	// the number of bytes actually scanned.
	SizeBytes int64 `json:"size_bytes"`

	// Digest is the hex-encoded content digest over the bytes read.
	// When Truncated is true the digest covers only the scanned prefix;
	// it is an integrity fingerprint, not a claim about the whole file.
	Digest string `json:"digest"`

	// DigestAlgorithm names the hash that produced Digest
	// ("sha256" or "sha3-256").
	DigestAlgorithm string `json:"digest_algorithm"`

	// Truncated is true when the file exceeded the inspection size cap
	// and only a prefix was read.
	Truncated bool `json:"truncated"`

	// Matches lists the categories of suspicious-content rules found in
	// the scanned content. Finding matches is a normal, successful
	// outcome, not an error.
	Matches []string `json:"matches"`

	// InspectedAt is the time the inspection was performed.
	InspectedAt time.Time `json:"inspected_at"`
}

// Suspicious reports whether any suspicious-content rule matched.
func (f *FileInspection) Suspicious() bool {
	return len(f.Matches) > 0
}
