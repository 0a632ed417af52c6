package model

import "time"

// ScanFailure records a file that could not be inspected during a batch
// scan, together with the reason.
type ScanFailure struct {
	// Path is the file path that failed.
	Path string `json:"path"`

	// Error is the human-readable failure reason.
	Error string `json:"error"`
}

// ScanReport aggregates the results of a batch file scan for report
// output and database storage.
//
// Design decision: We keep successful inspections and failures in
// separate slices rather than a single result type with an error field
// because the report writers render them in different sections and the
// database only persists successful inspections.
type ScanReport struct {
	// GeneratedAt is when the scan finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Inspections holds one entry per successfully inspected file,
	// in the order the paths were given.
	Inspections []*FileInspection `json:"inspections"`

	// Failures holds one entry per file that could not be read.
	Failures []ScanFailure `json:"failures"`
}

// NewScanReport creates an empty ScanReport stamped with the current time.
func NewScanReport() *ScanReport {
	return &ScanReport{
		GeneratedAt: time.Now(),
		Inspections: make([]*FileInspection, 0),
		Failures:    make([]ScanFailure, 0),
	}
}

// SuspiciousCount returns the number of inspections with at least one
// suspicious-content match.
func (r *ScanReport) SuspiciousCount() int {
	var n int
	for _, insp := range r.Inspections {
		if insp.Suspicious() {
			n++
		}
	}
	return n
}
