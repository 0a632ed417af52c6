package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoLogDir is returned when the log directory is empty.
	ErrNoLogDir = errors.New("no log directory specified")

	// ErrNoLogFile is returned when either log file name is empty.
	ErrNoLogFile = errors.New("application and security log file names must not be empty")

	// ErrSameLogFile is returned when the application and security logs
	// resolve to the same path. The two streams must stay separate.
	ErrSameLogFile = errors.New("application and security logs must be different files")

	// ErrInvalidMaxLogSize is returned when the rotation threshold is
	// not positive.
	ErrInvalidMaxLogSize = errors.New("invalid max log size: must be positive")

	// ErrInvalidBackupCount is returned when the backup count is
	// negative. Zero is valid and means truncate instead of archive.
	ErrInvalidBackupCount = errors.New("invalid backup count: must be non-negative")

	// ErrInvalidMessageLength is returned when the message cap is not
	// positive.
	ErrInvalidMessageLength = errors.New("invalid max message length: must be positive")

	// ErrInvalidMaxInspectSize is returned when the inspection read cap
	// is not positive.
	ErrInvalidMaxInspectSize = errors.New("invalid max inspect size: must be positive")

	// ErrInvalidConcurrency is returned when the scan concurrency is not
	// positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidDigestAlgorithm is returned for an unsupported digest
	// algorithm name.
	ErrInvalidDigestAlgorithm = errors.New(`invalid digest algorithm: must be "sha256" or "sha3-256"`)

	// ErrEmailHostRequired is returned when email alerting is enabled
	// without an SMTP host.
	ErrEmailHostRequired = errors.New("email enabled but no SMTP host configured")

	// ErrInvalidEmailPort is returned for an out-of-range SMTP port.
	ErrInvalidEmailPort = errors.New("invalid email port: must be 1-65535")

	// ErrEmailRecipientsRequired is returned when email alerting is
	// enabled without recipients.
	ErrEmailRecipientsRequired = errors.New("email enabled but no recipients configured")

	// ErrEmailFromRequired is returned when email alerting is enabled
	// without a sender address.
	ErrEmailFromRequired = errors.New("email enabled but no sender address configured")

	// ErrInvalidEmailTimeout is returned when the email timeout is
	// negative. Zero is valid and means use the default.
	ErrInvalidEmailTimeout = errors.New("invalid email timeout: must be non-negative")
)
