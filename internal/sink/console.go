package sink

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/seclog/seclog/internal/model"
)

// DefaultConsoleFormat renders records the way the classic logging
// formatters do: timestamp, level, message.
const DefaultConsoleFormat = "{time} - {level} - {message}"

// levelColors maps each level to its terminal color.
var levelColors = map[model.Level]*color.Color{
	model.LevelDebug:    color.New(color.FgHiBlack),
	model.LevelInfo:     color.New(color.FgCyan),
	model.LevelWarning:  color.New(color.FgYellow),
	model.LevelError:    color.New(color.FgRed),
	model.LevelCritical: color.New(color.FgRed, color.Bold),
}

// ConsoleSink renders records as human-readable lines on a terminal
// stream. Writes are best-effort: a failed write is still reported to the
// Manager, but the sink itself never panics and keeps accepting records.
type ConsoleSink struct {
	mu sync.Mutex

	// out is the destination stream, os.Stderr by default so log lines
	// do not mix with program output on stdout.
	out io.Writer

	// format is the render template. Recognized placeholders:
	// {time}, {level}, {message}, {metadata}.
	format string

	// colored enables ANSI colors keyed by level.
	colored bool

	minLevel model.Level
}

// ConsoleSinkOption configures a ConsoleSink.
type ConsoleSinkOption func(*ConsoleSink)

// WithConsoleOutput redirects console output, mainly for tests.
func WithConsoleOutput(w io.Writer) ConsoleSinkOption {
	return func(s *ConsoleSink) {
		if w != nil {
			s.out = w
		}
	}
}

// WithConsoleFormat sets the render template.
func WithConsoleFormat(format string) ConsoleSinkOption {
	return func(s *ConsoleSink) {
		if format != "" {
			s.format = format
		}
	}
}

// WithConsoleColor enables or disables ANSI colors.
func WithConsoleColor(enabled bool) ConsoleSinkOption {
	return func(s *ConsoleSink) {
		s.colored = enabled
	}
}

// WithConsoleMinLevel sets the sink's level threshold.
func WithConsoleMinLevel(level model.Level) ConsoleSinkOption {
	return func(s *ConsoleSink) {
		s.minLevel = level
	}
}

// NewConsoleSink creates a console sink writing to stderr with the
// default format.
func NewConsoleSink(opts ...ConsoleSinkOption) *ConsoleSink {
	s := &ConsoleSink{
		out:      os.Stderr,
		format:   DefaultConsoleFormat,
		minLevel: model.LevelDebug,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the sink name.
func (s *ConsoleSink) Name() string {
	return "console"
}

// MinLevel returns the sink's level threshold.
func (s *ConsoleSink) MinLevel() model.Level {
	return s.minLevel
}

// Write renders the record through the template and writes one line.
func (s *ConsoleSink) Write(rec *model.Record) error {
	line := s.render(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return fmt.Errorf("console write failed: %w", err)
	}
	return nil
}

// render fills the template placeholders from the record.
func (s *ConsoleSink) render(rec *model.Record) string {
	levelText := rec.Level.String()
	if s.colored {
		if c, ok := levelColors[rec.Level]; ok {
			levelText = c.Sprint(levelText)
		}
	}

	line := strings.NewReplacer(
		"{time}", rec.Timestamp.Format("2006-01-02 15:04:05"),
		"{level}", levelText,
		"{message}", rec.Message,
		"{metadata}", formatMetadata(rec.Metadata),
	).Replace(s.format)

	if len(rec.SecurityMatches) > 0 {
		suffix := " [security: " + strings.Join(rec.SecurityMatches, ", ") + "]"
		if s.colored {
			suffix = color.New(color.FgMagenta).Sprint(suffix)
		}
		line += suffix
	}
	return line
}

// formatMetadata renders metadata as space-separated key=value pairs.
func formatMetadata(md model.Metadata) string {
	if len(md) == 0 {
		return ""
	}
	parts := make([]string, 0, len(md))
	for _, f := range md {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	return strings.Join(parts, " ")
}

// Close is a no-op; the sink does not own its output stream.
func (s *ConsoleSink) Close() error {
	return nil
}
