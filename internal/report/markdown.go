package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/seclog/seclog/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeInspections(md, report)
	w.writeFailures(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with summary information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("File Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Files Inspected", strconv.Itoa(len(report.Inspections))},
			{"Suspicious", strconv.Itoa(report.SuspiciousCount())},
			{"Failures", strconv.Itoa(len(report.Failures))},
		},
	})
	md.PlainText("")
}

// writeAlert writes an alert matching the scan outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScanReport) {
	switch {
	case report.SuspiciousCount() > 0:
		md.Cautionf(
			"Suspicious content detected in %d file(s). Review the matches below.",
			report.SuspiciousCount(),
		)
	case len(report.Failures) > 0:
		md.Warningf(
			"%d file(s) could not be inspected. The scan result is incomplete.",
			len(report.Failures),
		)
	default:
		md.Tip("No suspicious content detected.")
	}
	md.PlainText("")
}

// writeInspections writes the per-file results table.
func (w *MarkdownWriter) writeInspections(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Inspected Files")
	md.PlainText("")

	if len(report.Inspections) == 0 {
		md.PlainText("No files were inspected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Inspections))
	for i, insp := range report.Inspections {
		matches := "-"
		if len(insp.Matches) > 0 {
			matches = strings.Join(insp.Matches, ", ")
		}
		status := "clean"
		if insp.Suspicious() {
			status = "**suspicious**"
		}
		if insp.Truncated {
			status += " (partial)"
		}
		rows[i] = []string{
			"`" + insp.Path + "`",
			status,
			matches,
			"`" + truncateString(insp.Digest, 19) + "`",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Path", "Status", "Matches", "Digest"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes the failure table when any path failed.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.Failures) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, len(report.Failures))
	for i, f := range report.Failures {
		rows[i] = []string{"`" + f.Path + "`", truncateString(f.Error, 80)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Path", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}
