// Package database provides SQLite-based persistence for file
// inspection results.
//
// Storing each inspection with its content digest turns the scanner
// into a change detector: comparing the latest two inspections of a
// path reveals whether the file drifted between scans, and whether the
// drift introduced suspicious content.
package database
