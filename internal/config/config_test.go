package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/seclog/seclog/internal/model"
)

// TestNewConfigDefaults tests that the constructor produces a valid,
// fully-populated configuration.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.MaxLogSize != DefaultMaxLogSize {
		t.Errorf("MaxLogSize = %d", cfg.MaxLogSize)
	}
	if cfg.BackupCount != DefaultBackupCount {
		t.Errorf("BackupCount = %d", cfg.BackupCount)
	}
	if cfg.MaxMessageLength != DefaultMaxMessageLength {
		t.Errorf("MaxMessageLength = %d", cfg.MaxMessageLength)
	}
	if cfg.DigestAlgorithm != DefaultDigestAlgorithm {
		t.Errorf("DigestAlgorithm = %s", cfg.DigestAlgorithm)
	}
	if cfg.Email.Timeout != DefaultEmailTimeout {
		t.Errorf("Email.Timeout = %v", cfg.Email.Timeout)
	}
	if cfg.Email.MinLevel != model.LevelCritical {
		t.Errorf("Email.MinLevel = %v", cfg.Email.MinLevel)
	}
}

// TestConfigPaths tests log path composition.
func TestConfigPaths(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.LogDir = "/var/log/myapp"
	if got := cfg.ApplicationLogPath(); got != filepath.Join("/var/log/myapp", "application.log") {
		t.Errorf("ApplicationLogPath = %s", got)
	}
	if got := cfg.SecurityLogPath(); got != filepath.Join("/var/log/myapp", "security.log") {
		t.Errorf("SecurityLogPath = %s", got)
	}
}

// TestConfigValidate tests each validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty log dir",
			mutate:  func(c *Config) { c.LogDir = "" },
			wantErr: ErrNoLogDir,
		},
		{
			name:    "empty application log file",
			mutate:  func(c *Config) { c.ApplicationLogFile = "" },
			wantErr: ErrNoLogFile,
		},
		{
			name:    "identical log files",
			mutate:  func(c *Config) { c.SecurityLogFile = c.ApplicationLogFile },
			wantErr: ErrSameLogFile,
		},
		{
			name:    "zero max log size",
			mutate:  func(c *Config) { c.MaxLogSize = 0 },
			wantErr: ErrInvalidMaxLogSize,
		},
		{
			name:    "negative backup count",
			mutate:  func(c *Config) { c.BackupCount = -1 },
			wantErr: ErrInvalidBackupCount,
		},
		{
			name:   "zero backup count is valid",
			mutate: func(c *Config) { c.BackupCount = 0 },
		},
		{
			name:    "zero message length",
			mutate:  func(c *Config) { c.MaxMessageLength = 0 },
			wantErr: ErrInvalidMessageLength,
		},
		{
			name:    "zero inspect size",
			mutate:  func(c *Config) { c.MaxInspectSize = 0 },
			wantErr: ErrInvalidMaxInspectSize,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "unknown digest",
			mutate:  func(c *Config) { c.DigestAlgorithm = "md5" },
			wantErr: ErrInvalidDigestAlgorithm,
		},
		{
			name:   "sha3 digest is valid",
			mutate: func(c *Config) { c.DigestAlgorithm = "sha3-256" },
		},
		{
			name:    "email without host",
			mutate:  func(c *Config) { c.Email.Enabled = true },
			wantErr: ErrEmailHostRequired,
		},
		{
			name: "email without recipients",
			mutate: func(c *Config) {
				c.Email.Enabled = true
				c.Email.Host = "mail.example.com"
			},
			wantErr: ErrEmailRecipientsRequired,
		},
		{
			name: "email without sender",
			mutate: func(c *Config) {
				c.Email.Enabled = true
				c.Email.Host = "mail.example.com"
				c.Email.Recipients = []string{"oncall@example.com"}
			},
			wantErr: ErrEmailFromRequired,
		},
		{
			name: "email port out of range",
			mutate: func(c *Config) {
				c.Email.Enabled = true
				c.Email.Host = "mail.example.com"
				c.Email.Port = 70000
			},
			wantErr: ErrInvalidEmailPort,
		},
		{
			name: "complete email config is valid",
			mutate: func(c *Config) {
				c.Email.Enabled = true
				c.Email.Host = "mail.example.com"
				c.Email.Recipients = []string{"oncall@example.com"}
				c.Email.From = "alerts@example.com"
			},
		},
		{
			name: "email settings ignored when disabled",
			mutate: func(c *Config) {
				c.Email.Enabled = false
				c.Email.Port = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, expected %v", err, tt.wantErr)
			}
		})
	}
}
