// Package report renders file scan reports in multiple output formats.
//
// Three writers share one interface: SimpleWriter for terminals,
// JSONWriter for tool integration, and MarkdownWriter for documentation
// and sharing. MultiWriter fans a report out to several destinations at
// once, typically terminal plus file.
package report
