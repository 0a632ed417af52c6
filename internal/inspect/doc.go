// Package inspect reads files under a size cap and scans their content
// for suspicious patterns.
//
// The Inspector never loads more than the configured byte cap into
// memory; larger files are scanned as a prefix and flagged as truncated.
// Every inspection computes a content digest over the bytes actually
// read, giving a stable fingerprint for historical comparison.
//
// Finding suspicious content is a successful outcome reported through
// the result's match list. Only missing or unreadable files produce
// errors, because the caller explicitly asked about that file.
package inspect
