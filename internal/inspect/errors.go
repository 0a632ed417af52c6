package inspect

import "errors"

// Inspection errors.
//
// Design decision: We use package-level sentinel errors so callers can
// distinguish "the file is not there" from "the file could not be read"
// with errors.Is, while wrapped errors keep the underlying cause and the
// offending path in the message.
var (
	// ErrFileNotFound is returned when the inspected path does not exist
	// or is not a regular file.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileRead is returned when the file exists but could not be
	// opened or read (permissions, I/O failure).
	ErrFileRead = errors.New("file read failed")

	// ErrUnknownDigest is returned at construction for an unsupported
	// digest algorithm name.
	ErrUnknownDigest = errors.New("unknown digest algorithm")
)
