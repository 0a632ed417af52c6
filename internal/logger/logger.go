package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/seclog/seclog/internal/config"
	"github.com/seclog/seclog/internal/inspect"
	"github.com/seclog/seclog/internal/model"
	"github.com/seclog/seclog/internal/record"
	"github.com/seclog/seclog/internal/rules"
	"github.com/seclog/seclog/internal/sanitize"
	"github.com/seclog/seclog/internal/sink"
)

// badKey replaces a malformed key in a key/value argument list, the same
// convention slog uses. The record is still emitted; losing a key name
// is better than losing the record.
const badKey = "!BADKEY"

// SecureLogger is the public entry point of the logging pipeline.
type SecureLogger struct {
	cfg       *config.Config
	builder   *record.Builder
	matcher   *rules.Matcher
	manager   *sink.Manager
	inspector *inspect.Inspector
}

// Option configures a SecureLogger.
type Option func(*options)

type options struct {
	now            func() time.Time
	emailTransport sink.Transport
	extraSinks     []sink.Sink
}

// WithClock replaces the timestamp source. Used by tests to produce
// deterministic records.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithEmailTransport replaces the SMTP transport, mainly for tests.
func WithEmailTransport(t sink.Transport) Option {
	return func(o *options) {
		o.emailTransport = t
	}
}

// WithExtraSinks registers additional destinations beyond the configured
// ones. They are level-gated like any other sink.
func WithExtraSinks(sinks ...sink.Sink) Option {
	return func(o *options) {
		o.extraSinks = append(o.extraSinks, sinks...)
	}
}

// New creates a SecureLogger from the configuration. The configuration
// is validated and the log directory created before any sink opens, so a
// returned logger is fully operational.
func New(cfg *config.Config, opts ...Option) (*SecureLogger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger configuration: %w", err)
	}

	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	matcher, err := buildMatcher(cfg)
	if err != nil {
		return nil, err
	}

	sanitizer := sanitize.New(cfg.MaxMessageLength)
	builder := record.NewBuilder(sanitizer, matcher, record.WithClock(o.now))

	inspector, err := inspect.NewInspector(cfg.DigestAlgorithm, matcher,
		inspect.WithMaxBytes(cfg.MaxInspectSize),
		inspect.WithInspectorClock(o.now))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.LogDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	app, err := sink.NewFileSink("application", cfg.ApplicationLogPath(),
		sink.WithFileMinLevel(cfg.MinLevel),
		sink.WithRotation(cfg.MaxLogSize, cfg.BackupCount))
	if err != nil {
		return nil, err
	}

	security, err := sink.NewFileSink("security", cfg.SecurityLogPath(),
		sink.WithRotation(cfg.MaxLogSize, cfg.BackupCount))
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	managerOpts := []sink.ManagerOption{
		sink.WithApplicationSink(app),
		sink.WithSecuritySink(security),
		sink.WithManagerClock(o.now),
	}

	var extras []sink.Sink
	if cfg.Console.Enabled {
		extras = append(extras, sink.NewConsoleSink(
			sink.WithConsoleMinLevel(cfg.Console.MinLevel),
			sink.WithConsoleColor(cfg.Console.Color),
			sink.WithConsoleFormat(cfg.Console.Format)))
	}
	extras = append(extras, o.extraSinks...)

	// The email sink goes last so a slow or dead mail server never
	// delays delivery to the faster sinks.
	if cfg.Email.Enabled {
		settings := sink.EmailSettings{
			Host:          cfg.Email.Host,
			Port:          cfg.Email.Port,
			Username:      cfg.Email.Username,
			Password:      cfg.Email.Password,
			From:          cfg.Email.From,
			Recipients:    cfg.Email.Recipients,
			UseTLS:        cfg.Email.UseTLS,
			SubjectPrefix: cfg.Email.SubjectPrefix,
			MinLevel:      cfg.Email.MinLevel,
			Timeout:       cfg.Email.Timeout,
			ProxyAddress:  cfg.Email.ProxyAddress,
		}
		var emailOpts []sink.EmailSinkOption
		if o.emailTransport != nil {
			emailOpts = append(emailOpts, sink.WithTransport(o.emailTransport))
		}
		extras = append(extras, sink.NewEmailSink(settings, emailOpts...))
	}

	if len(extras) > 0 {
		managerOpts = append(managerOpts, sink.WithSinks(extras...))
	}

	return &SecureLogger{
		cfg:       cfg,
		builder:   builder,
		matcher:   matcher,
		manager:   sink.NewManager(managerOpts...),
		inspector: inspector,
	}, nil
}

// buildMatcher assembles the rule set from the built-ins and the
// optional rules file. A nil matcher (no rules at all) disables
// scanning.
func buildMatcher(cfg *config.Config) (*rules.Matcher, error) {
	if !cfg.SecurityScan {
		return nil, nil
	}
	var ruleSet []rules.Rule
	if !cfg.DisableBuiltinRules {
		ruleSet = rules.Builtin()
	}
	if cfg.RulesFile != "" {
		custom, err := rules.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		ruleSet = append(ruleSet, custom...)
	}
	if len(ruleSet) == 0 {
		return nil, nil
	}
	return rules.NewMatcher(ruleSet)
}

// Debug logs at debug level.
func (l *SecureLogger) Debug(msg string, keysAndValues ...any) {
	l.Log(model.LevelDebug, msg, keysAndValues...)
}

// Info logs at info level.
func (l *SecureLogger) Info(msg string, keysAndValues ...any) {
	l.Log(model.LevelInfo, msg, keysAndValues...)
}

// Warning logs at warning level.
func (l *SecureLogger) Warning(msg string, keysAndValues ...any) {
	l.Log(model.LevelWarning, msg, keysAndValues...)
}

// Error logs at error level.
func (l *SecureLogger) Error(msg string, keysAndValues ...any) {
	l.Log(model.LevelError, msg, keysAndValues...)
}

// Critical logs at critical level.
func (l *SecureLogger) Critical(msg string, keysAndValues ...any) {
	l.Log(model.LevelCritical, msg, keysAndValues...)
}

// Log builds a record from the message and alternating key/value
// arguments, then dispatches it. The record's final level may exceed
// the requested one when the content matches a suspicious pattern.
func (l *SecureLogger) Log(level model.Level, msg string, keysAndValues ...any) {
	l.manager.Dispatch(l.builder.Build(level, msg, toMetadata(keysAndValues)))
}

// toMetadata converts alternating key/value arguments into ordered
// metadata. A dangling value or a non-string key lands under the badKey
// placeholder instead of being dropped.
func toMetadata(keysAndValues []any) model.Metadata {
	if len(keysAndValues) == 0 {
		return nil
	}
	md := make(model.Metadata, 0, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); {
		key, ok := keysAndValues[i].(string)
		if !ok || i+1 >= len(keysAndValues) {
			md.Set(badKey, keysAndValues[i])
			i++
			continue
		}
		md.Set(key, keysAndValues[i+1])
		i += 2
	}
	return md
}

// InspectFile reads and scans a file, logs the outcome, and returns the
// inspection result.
//
// A suspicious file is a successful inspection: the result lists the
// matched categories and the emitted record is routed to the security
// log with its level promoted to the highest matched severity. Only a
// missing or unreadable file returns an error, which is also logged.
func (l *SecureLogger) InspectFile(ctx context.Context, path string) (*model.FileInspection, error) {
	inspection, _, err := l.inspect(ctx, path)
	return inspection, err
}

// ScanFiles inspects every path with bounded concurrency, logging each
// outcome as InspectFile does, and returns the aggregate report.
// Per-file failures land in the report; only context cancellation aborts
// the scan.
func (l *SecureLogger) ScanFiles(ctx context.Context, paths []string) (*model.ScanReport, error) {
	b := inspect.NewBatch(inspectorFunc(l.inspect), inspect.WithConcurrency(l.cfg.Concurrency))
	return b.Run(ctx, paths)
}

// inspect runs a single inspection and emits its log record.
func (l *SecureLogger) inspect(ctx context.Context, path string) (*model.FileInspection, []rules.Match, error) {
	inspection, matches, err := l.inspector.Inspect(ctx, path)
	if err != nil {
		// Cancellation is the caller's doing, not a loggable event.
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			l.Log(model.LevelError, "file inspection failed",
				"path", path, "error", err.Error())
		}
		return nil, nil, err
	}

	msg := "file inspection completed"
	if inspection.Suspicious() {
		msg = "suspicious content detected in file"
	}

	md := model.Metadata{}
	md.Set("path", inspection.Path)
	md.Set("size_bytes", inspection.SizeBytes)
	md.Set("digest", inspection.Digest)
	md.Set("digest_algorithm", inspection.DigestAlgorithm)
	if inspection.Truncated {
		md.Set("truncated", true)
	}

	// File matches ride along as extra matches so the record level is
	// promoted exactly as if the content had been logged directly.
	l.manager.Dispatch(l.builder.Build(model.LevelInfo, msg, md, matches...))

	return inspection, matches, nil
}

// inspectorFunc adapts a function to the batch inspector interface.
type inspectorFunc func(ctx context.Context, path string) (*model.FileInspection, []rules.Match, error)

func (f inspectorFunc) Inspect(ctx context.Context, path string) (*model.FileInspection, []rules.Match, error) {
	return f(ctx, path)
}

// Rules returns the active detection rules, or nil when scanning is
// disabled.
func (l *SecureLogger) Rules() []rules.Rule {
	if l.matcher == nil {
		return nil
	}
	return l.matcher.Rules()
}

// Config returns the logger's configuration.
func (l *SecureLogger) Config() *config.Config {
	return l.cfg
}

// Close flushes and closes every sink. The logger must not be used
// after Close.
func (l *SecureLogger) Close() error {
	return l.manager.Close()
}
