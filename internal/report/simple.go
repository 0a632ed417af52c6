package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seclog/seclog/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose includes clean files in the listing, not just suspicious
	// ones.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists every inspected file instead of only suspicious
// ones.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSuspicious(&sb, report)
	if w.verbose {
		w.writeClean(&sb, report)
	}
	w.writeFailures(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the summary block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\nFile Scan Report\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Generated:    %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Inspected:    %d file(s)\n", len(report.Inspections))
	fmt.Fprintf(sb, "Suspicious:   %d\n", report.SuspiciousCount())
	fmt.Fprintf(sb, "Failures:     %d\n\n", len(report.Failures))
}

// writeSuspicious lists files that matched at least one rule.
func (w *SimpleWriter) writeSuspicious(sb *strings.Builder, report *model.ScanReport) {
	if report.SuspiciousCount() == 0 {
		sb.WriteString("No suspicious content detected.\n\n")
		return
	}

	sb.WriteString("Suspicious files:\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, insp := range report.Inspections {
		if !insp.Suspicious() {
			continue
		}
		fmt.Fprintf(sb, "  %s\n", insp.Path)
		fmt.Fprintf(sb, "    matches: %s\n", strings.Join(insp.Matches, ", "))
		fmt.Fprintf(sb, "    digest:  %s:%s\n", insp.DigestAlgorithm, insp.Digest)
		if insp.Truncated {
			sb.WriteString("    note:    file exceeded the scan size cap; partial scan\n")
		}
	}
	sb.WriteString("\n")
}

// writeClean lists files without matches.
func (w *SimpleWriter) writeClean(sb *strings.Builder, report *model.ScanReport) {
	clean := 0
	for _, insp := range report.Inspections {
		if !insp.Suspicious() {
			clean++
		}
	}
	if clean == 0 {
		return
	}

	sb.WriteString("Clean files:\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, insp := range report.Inspections {
		if insp.Suspicious() {
			continue
		}
		fmt.Fprintf(sb, "  %s (%d bytes, %s:%s)\n",
			insp.Path, insp.SizeBytes, insp.DigestAlgorithm, truncateString(insp.Digest, 16))
	}
	sb.WriteString("\n")
}

// writeFailures lists paths that could not be inspected.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.ScanReport) {
	if len(report.Failures) == 0 {
		return
	}

	sb.WriteString("Failures:\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, f := range report.Failures {
		fmt.Fprintf(sb, "  %s: %s\n", f.Path, f.Error)
	}
	sb.WriteString("\n")
}
