package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/seclog/seclog/internal/model"
)

// Default configuration values.
// These values are chosen to keep log volume and memory bounded on a
// long-running process without tuning.
const (
	// DefaultApplicationLogFile receives every record at or above the
	// logger's threshold.
	DefaultApplicationLogFile = "application.log"

	// DefaultSecurityLogFile receives only records that matched a
	// suspicious pattern, keeping the security audit trail small and
	// reviewable on its own.
	DefaultSecurityLogFile = "security.log"

	// DefaultMaxLogSize is 10MB per log file before rotation. Large
	// enough that rotation is rare under normal traffic, small enough
	// that a single file stays greppable and cheap to ship.
	DefaultMaxLogSize = 10 * 1024 * 1024

	// DefaultBackupCount keeps 5 rotated archives per log file. Combined
	// with DefaultMaxLogSize this caps each log at ~60MB on disk.
	DefaultBackupCount = 5

	// DefaultMaxMessageLength caps a single log message at 10000
	// characters. Longer messages are truncated with a marker rather
	// than rejected, so a runaway caller cannot bloat the log files.
	DefaultMaxMessageLength = 10000

	// DefaultMaxInspectSize limits file inspection reads to 32MB.
	// Inspection loads the scanned prefix into memory, so this bounds
	// per-inspection memory while still covering any reasonable text
	// artifact.
	DefaultMaxInspectSize = 32 * 1024 * 1024

	// DefaultDigestAlgorithm fingerprints inspected files with SHA-256.
	// The digest is for change detection, not password hashing, so the
	// ubiquitous choice wins over the newer sha3-256 option.
	DefaultDigestAlgorithm = "sha256"

	// DefaultConcurrency of 8 concurrent file inspections balances
	// throughput against disk contention when scanning directories.
	DefaultConcurrency = 8

	// DefaultEmailTimeout bounds a single alert delivery at 10 seconds.
	// Email is the slowest sink; without a bound a dead mail server
	// would stall every critical record behind it.
	DefaultEmailTimeout = 10 * time.Second

	// DefaultEmailPort is the SMTP submission port.
	DefaultEmailPort = 587

	// DefaultConsoleFormat renders console lines in the classic
	// time - LEVEL - message layout.
	DefaultConsoleFormat = "{time} - {level} - {message}"

	// AppName is the application name used for XDG directory paths.
	AppName = "seclog"
)

// ConsoleConfig controls the optional console sink.
type ConsoleConfig struct {
	// Enabled turns the console sink on. Off by default because library
	// users usually own their own terminal output.
	Enabled bool

	// MinLevel is the console threshold. Records below it stay in the
	// files only.
	MinLevel model.Level

	// Color enables per-level colored output. Ignored when the output
	// is not a terminal.
	Color bool

	// Format is the line template. Supports {time}, {level}, {message}
	// and {metadata} placeholders.
	Format string
}

// EmailConfig controls the optional email alert sink.
type EmailConfig struct {
	// Enabled turns email alerting on. Requires Host and Recipients.
	Enabled bool

	// Host is the SMTP server hostname.
	Host string

	// Port is the SMTP server port.
	Port int

	// Username and Password authenticate against the server when set.
	Username string
	Password string

	// From is the sender address.
	From string

	// Recipients are the alert destinations.
	Recipients []string

	// UseTLS upgrades the connection with STARTTLS.
	UseTLS bool

	// SubjectPrefix is prepended to every alert subject.
	SubjectPrefix string

	// MinLevel is the alert threshold. Email is expensive, so this
	// defaults to critical only.
	MinLevel model.Level

	// Timeout bounds a single delivery attempt.
	Timeout time.Duration

	// ProxyAddress routes delivery through a SOCKS5 proxy in
	// "host:port" format. Empty means a direct connection.
	ProxyAddress string
}

// HistoryConfig controls persistence of file inspection results.
type HistoryConfig struct {
	// Enabled turns inspection history on.
	Enabled bool

	// DBDir is the directory for the SQLite database. Empty means the
	// XDG data directory.
	DBDir string
}

// Config holds all configuration options for seclog.
//
// Design decision: Sink-specific options live in small sub-structs
// (ConsoleConfig, EmailConfig, HistoryConfig) because each maps to an
// optional component that is wired as a unit; the core file logging
// options stay flat.
type Config struct {
	// LogDir is the directory holding the application and security log
	// files. Created with 0700 permissions if missing.
	LogDir string

	// ApplicationLogFile is the application log file name inside LogDir.
	ApplicationLogFile string

	// SecurityLogFile is the security log file name inside LogDir.
	SecurityLogFile string

	// MinLevel is the application log threshold. The security log
	// ignores it: pattern hits are always recorded.
	MinLevel model.Level

	// MaxLogSize is the rotation threshold in bytes per log file.
	MaxLogSize int64

	// BackupCount is the number of rotated archives kept per log file.
	// Zero truncates in place instead of archiving.
	BackupCount int

	// MaxMessageLength caps log messages in characters before
	// truncation.
	MaxMessageLength int

	// MaxInspectSize caps file inspection reads in bytes.
	MaxInspectSize int64

	// DigestAlgorithm names the inspection fingerprint: "sha256" or
	// "sha3-256".
	DigestAlgorithm string

	// Concurrency bounds parallel file inspections during scans.
	Concurrency int

	// SecurityScan enables suspicious pattern matching on log records
	// and inspected files. When false the matcher is bypassed entirely
	// and SecurityMatches is always empty, including for RulesFile
	// patterns.
	SecurityScan bool

	// DisableBuiltinRules drops the built-in suspicious pattern set,
	// leaving only RulesFile patterns. Scanning is effectively off when
	// this is set and no rules file is given.
	DisableBuiltinRules bool

	// RulesFile is an optional YAML file of additional detection rules.
	RulesFile string

	// Console configures the optional console sink.
	Console ConsoleConfig

	// Email configures the optional email alert sink.
	Email EmailConfig

	// History configures inspection result persistence.
	History HistoryConfig

	// Verbose enables detailed CLI output.
	Verbose bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (rotation size, backup
// count, message cap). This also serves as documentation of what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		LogDir:             ".",
		ApplicationLogFile: DefaultApplicationLogFile,
		SecurityLogFile:    DefaultSecurityLogFile,
		MinLevel:           model.LevelInfo,
		MaxLogSize:         DefaultMaxLogSize,
		BackupCount:        DefaultBackupCount,
		MaxMessageLength:   DefaultMaxMessageLength,
		MaxInspectSize:     DefaultMaxInspectSize,
		DigestAlgorithm:    DefaultDigestAlgorithm,
		Concurrency:        DefaultConcurrency,
		SecurityScan:       true,
		Console: ConsoleConfig{
			MinLevel: model.LevelInfo,
			Color:    true,
			Format:   DefaultConsoleFormat,
		},
		Email: EmailConfig{
			Port:     DefaultEmailPort,
			MinLevel: model.LevelCritical,
			Timeout:  DefaultEmailTimeout,
		},
	}
}

// ApplicationLogPath returns the full path of the application log file.
func (c *Config) ApplicationLogPath() string {
	return filepath.Join(c.LogDir, c.ApplicationLogFile)
}

// SecurityLogPath returns the full path of the security log file.
func (c *Config) SecurityLogPath() string {
	return filepath.Join(c.LogDir, c.SecurityLogFile)
}

// HistoryDBDir returns the directory for the inspection history
// database, falling back to the XDG data directory.
func (c *Config) HistoryDBDir() string {
	if c.History.DBDir != "" {
		return c.History.DBDir
	}
	return XDGDataDir()
}

// XDGDataDir returns the XDG data directory for seclog.
// On Linux: ~/.local/share/seclog
// On macOS: ~/Library/Application Support/seclog
// On Windows: %LOCALAPPDATA%\seclog
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seclog.
// On Linux: ~/.config/seclog
// On macOS: ~/Library/Application Support/seclog
// On Windows: %APPDATA%\seclog
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast with a clear message before any log file is
// created. The first error found is returned rather than a collection,
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.LogDir == "" {
		return ErrNoLogDir
	}
	if c.ApplicationLogFile == "" || c.SecurityLogFile == "" {
		return ErrNoLogFile
	}
	// Identical paths would interleave security and application records
	// in one file and break the audit-trail separation.
	if c.ApplicationLogPath() == c.SecurityLogPath() {
		return ErrSameLogFile
	}

	if c.MaxLogSize <= 0 {
		return ErrInvalidMaxLogSize
	}
	if c.BackupCount < 0 {
		return ErrInvalidBackupCount
	}
	if c.MaxMessageLength <= 0 {
		return ErrInvalidMessageLength
	}
	if c.MaxInspectSize <= 0 {
		return ErrInvalidMaxInspectSize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	switch c.DigestAlgorithm {
	case "sha256", "sha3-256":
	default:
		return ErrInvalidDigestAlgorithm
	}

	if c.Email.Enabled {
		if c.Email.Host == "" {
			return ErrEmailHostRequired
		}
		if c.Email.Port <= 0 || c.Email.Port > 65535 {
			return ErrInvalidEmailPort
		}
		if len(c.Email.Recipients) == 0 {
			return ErrEmailRecipientsRequired
		}
		if c.Email.From == "" {
			return ErrEmailFromRequired
		}
		if c.Email.Timeout < 0 {
			return ErrInvalidEmailTimeout
		}
	}

	return nil
}
