package sink

import (
	"time"

	"github.com/seclog/seclog/internal/model"
)

// Manager fans finished records out to the configured sinks.
//
// Dispatch is level-monotonic: every sink whose threshold a record meets
// receives it. Records carrying security matches are additionally
// delivered to the dedicated security sink regardless of their nominal
// level, so security visibility never depends on the caller's chosen
// level.
type Manager struct {
	// application is the primary rotating file sink. It also receives
	// the self-reported warnings about other sinks' failures. Nil when
	// no application file sink is configured.
	application *FileSink

	// security receives only records with non-empty SecurityMatches.
	// Nil when security scanning is disabled.
	security *FileSink

	// extras are the remaining level-gated sinks (console, email).
	// The email sink is ordered last so its bounded network call can
	// never delay file or console delivery for the same record.
	extras []Sink

	// now stamps self-reported failure records.
	now func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithApplicationSink sets the primary file sink.
func WithApplicationSink(s *FileSink) ManagerOption {
	return func(m *Manager) {
		m.application = s
	}
}

// WithSecuritySink sets the dedicated security file sink.
func WithSecuritySink(s *FileSink) ManagerOption {
	return func(m *Manager) {
		m.security = s
	}
}

// WithSinks appends additional level-gated sinks.
func WithSinks(sinks ...Sink) ManagerOption {
	return func(m *Manager) {
		m.extras = append(m.extras, sinks...)
	}
}

// WithManagerClock replaces the failure-record timestamp source in tests.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager from the given options.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dispatch delivers the record to every qualifying sink. Failures are
// contained per sink: delivery continues to the remaining sinks, each
// failure is written as a warning record to the surviving file sink, and
// nothing propagates to the code that called the logger.
func (m *Manager) Dispatch(rec *model.Record) {
	type failure struct {
		sink string
		err  error
	}
	var failures []failure

	if m.application != nil && rec.Level >= m.application.MinLevel() {
		if err := m.application.Write(rec); err != nil {
			failures = append(failures, failure{m.application.Name(), err})
		}
	}

	// Security routing ignores the level threshold: a matched record is
	// always evidence worth keeping.
	if m.security != nil && len(rec.SecurityMatches) > 0 {
		if err := m.security.Write(rec); err != nil {
			failures = append(failures, failure{m.security.Name(), err})
		}
	}

	for _, s := range m.extras {
		if rec.Level < s.MinLevel() {
			continue
		}
		if err := s.Write(rec); err != nil {
			failures = append(failures, failure{s.Name(), err})
		}
	}

	for _, f := range failures {
		m.reportFailure(f.sink, f.err)
	}
}

// reportFailure writes a warning record about a failed sink directly to
// the application sink. The report is built here, not through the normal
// dispatch path, so a persistently failing sink cannot cause recursion.
// If the application sink itself failed, the report is dropped; there is
// nowhere safe left to write it.
func (m *Manager) reportFailure(sinkName string, cause error) {
	if m.application == nil || sinkName == m.application.Name() {
		return
	}

	md := model.Metadata{}
	md.Set("sink", sinkName)
	md.Set("error", cause.Error())

	rec := &model.Record{
		Timestamp:       m.now(),
		Level:           model.LevelWarning,
		Message:         "sink write failed, record delivery degraded",
		Metadata:        md,
		SecurityMatches: []string{},
	}
	// Best effort only: a failure here has no further fallback.
	_ = m.application.Write(rec)
}

// Close closes every sink, returning the first error encountered while
// attempting all of them.
func (m *Manager) Close() error {
	var firstErr error
	if m.application != nil {
		if err := m.application.Close(); err != nil {
			firstErr = err
		}
	}
	if m.security != nil {
		if err := m.security.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, s := range m.extras {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
