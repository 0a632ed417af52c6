// Package sink implements record delivery to the configured outputs.
//
// This package contains:
//   - Sink: The interface every output implements
//   - FileSink: Size-based rotating file output for the application and
//     security logs
//   - ConsoleSink: Template-driven terminal output with optional colors
//   - EmailSink: One SMTP alert per qualifying record, bounded by a timeout
//   - Manager: Level-gated fan-out to all sinks with per-sink failure
//     containment
//
// Design decision: Sinks are independent by contract. A failing sink must
// never prevent delivery to the others and must never surface an error to
// the code that called the logger; the Manager contains failures and
// self-reports them into the surviving file sink instead.
package sink
