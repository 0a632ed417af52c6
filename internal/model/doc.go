// Package model defines the core data structures used throughout seclog.
//
// This package contains the following main types:
//   - Level: The ordered log severity enum (DEBUG through CRITICAL)
//   - Record: A single structured log record with security annotations
//   - Metadata: An ordered key/value list attached to records
//   - FileInspection: The result of inspecting a file's content
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (record, sink, inspect, report, database)
// need these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for the persisted
// line-oriented log format, report output, and database storage.
package model
