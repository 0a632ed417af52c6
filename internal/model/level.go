package model

import (
	"fmt"
	"strings"
)

// Level represents the severity of a log record.
// Levels are strictly ordered: Debug < Info < Warning < Error < Critical.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in threshold comparisons. The String() method provides
// human-readable output for serialization and display.
type Level int

const (
	// LevelDebug indicates detailed diagnostic output that is normally
	// suppressed in production.
	LevelDebug Level = iota

	// LevelInfo indicates routine operational messages.
	LevelInfo

	// LevelWarning indicates conditions that deserve attention but do not
	// prevent the application from continuing.
	LevelWarning

	// LevelError indicates failures of individual operations.
	LevelError

	// LevelCritical indicates failures that threaten the whole process or,
	// in the security context, findings that demand immediate review.
	LevelCritical
)

// String returns the canonical upper-case name of the level.
// This name is used in the persisted record format and must stay stable.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name into a Level. Parsing is
// case-insensitive and accepts the common short form "warn" for
// LevelWarning and "fatal" for LevelCritical.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARNING", "WARN":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL", "FATAL":
		return LevelCritical, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
