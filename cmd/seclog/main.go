// Package main provides the entry point for the seclog CLI.
//
// seclog is a security-aware logging and file inspection tool. It scans
// files for suspicious content patterns, keeps an inspection history for
// drift detection, and writes findings to separate application and
// security logs.
//
// Usage:
//
//	seclog scan <file>...
//	seclog compare <file>
//
// See --help for all available options.
package main

// main is the entry point for seclog.
func main() {
	Execute()
}
