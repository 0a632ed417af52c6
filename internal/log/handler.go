package log

import (
	"context"
	"log/slog"

	"github.com/seclog/seclog/internal/model"
)

// Target receives records from the bridge. *logger.SecureLogger
// satisfies it.
type Target interface {
	Log(level model.Level, msg string, keysAndValues ...any)
}

// Handler is an slog.Handler that forwards records into the secure
// logging pipeline.
//
// Design decision: We implement slog.Handler rather than offering a
// separate slog-flavored API because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any code that accepts *slog.Logger
//  3. Sanitization and scanning stay in one pipeline instead of two
type Handler struct {
	target   Target
	minLevel slog.Level

	// attrs are the pre-bound attributes from WithAttrs, already
	// group-prefixed.
	attrs []slog.Attr

	// groups are the open group names from WithGroup, applied as dotted
	// key prefixes since pipeline metadata is flat.
	groups []string
}

// NewHandler creates a Handler forwarding to target. Records below
// minLevel are dropped before they reach the pipeline.
func NewHandler(target Target, minLevel slog.Level) *Handler {
	return &Handler{target: target, minLevel: minLevel}
}

// Enabled reports whether records at the given level are forwarded.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

// Handle converts the slog record and forwards it. The pipeline may
// still promote the level when the content matches a suspicious pattern.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	kv := make([]any, 0, 2*(len(h.attrs)+r.NumAttrs()))
	for _, a := range h.attrs {
		kv = appendAttr(kv, "", a)
	}
	prefix := h.prefix()
	r.Attrs(func(a slog.Attr) bool {
		kv = appendAttr(kv, prefix, a)
		return true
	})

	h.target.Log(convertLevel(r.Level), r.Message, kv...)
	return nil
}

// WithAttrs returns a new handler with the given attributes pre-bound.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := h.clone()
	prefix := h.prefix()
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	return next
}

// WithGroup returns a new handler that prefixes subsequent attribute
// keys with the group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *Handler) clone() *Handler {
	return &Handler{
		target:   h.target,
		minLevel: h.minLevel,
		attrs:    append([]slog.Attr(nil), h.attrs...),
		groups:   append([]string(nil), h.groups...),
	}
}

func (h *Handler) prefix() string {
	p := ""
	for _, g := range h.groups {
		p += g + "."
	}
	return p
}

// appendAttr flattens an attribute into the key/value list, expanding
// groups into dotted keys.
func appendAttr(kv []any, prefix string, a slog.Attr) []any {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			kv = appendAttr(kv, prefix+a.Key+".", ga)
		}
		return kv
	}
	if a.Key == "" {
		return kv
	}
	return append(kv, prefix+a.Key, a.Value.Any())
}

// convertLevel maps slog levels onto pipeline levels. Anything above
// slog.LevelError maps to critical.
func convertLevel(level slog.Level) model.Level {
	switch {
	case level < slog.LevelInfo:
		return model.LevelDebug
	case level < slog.LevelWarn:
		return model.LevelInfo
	case level < slog.LevelError:
		return model.LevelWarning
	case level == slog.LevelError:
		return model.LevelError
	default:
		return model.LevelCritical
	}
}
