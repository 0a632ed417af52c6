package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seclog/seclog/internal/model"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// TestLoadConfigFile tests that a partial file overrides only what it
// names.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
logDir: /var/log/myapp
minLevel: warning
backupCount: 0
digestAlgorithm: sha3-256
console:
  enabled: true
  minLevel: error
  color: false
email:
  enabled: true
  host: mail.example.com
  from: alerts@example.com
  recipients:
    - oncall@example.com
  timeoutSeconds: 5
history:
  enabled: true
  dbDir: /var/lib/myapp
`)

	cf, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cfg := NewConfig()
	if err := cf.Apply(cfg); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if cfg.LogDir != "/var/log/myapp" {
		t.Errorf("LogDir = %s", cfg.LogDir)
	}
	if cfg.MinLevel != model.LevelWarning {
		t.Errorf("MinLevel = %v", cfg.MinLevel)
	}
	if cfg.BackupCount != 0 {
		t.Errorf("explicit backupCount: 0 must override the default, got %d", cfg.BackupCount)
	}
	if cfg.DigestAlgorithm != "sha3-256" {
		t.Errorf("DigestAlgorithm = %s", cfg.DigestAlgorithm)
	}
	if !cfg.Console.Enabled || cfg.Console.MinLevel != model.LevelError || cfg.Console.Color {
		t.Errorf("console config not applied: %+v", cfg.Console)
	}
	if !cfg.Email.Enabled || cfg.Email.Host != "mail.example.com" {
		t.Errorf("email config not applied: %+v", cfg.Email)
	}
	if cfg.Email.Timeout != 5*time.Second {
		t.Errorf("Email.Timeout = %v", cfg.Email.Timeout)
	}
	if cfg.Email.Port != DefaultEmailPort {
		t.Errorf("unset email port must keep the default, got %d", cfg.Email.Port)
	}
	if !cfg.History.Enabled || cfg.History.DBDir != "/var/lib/myapp" {
		t.Errorf("history config not applied: %+v", cfg.History)
	}

	// Untouched fields keep their defaults.
	if cfg.MaxLogSize != DefaultMaxLogSize {
		t.Errorf("MaxLogSize = %d", cfg.MaxLogSize)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config must validate: %v", err)
	}
}

// TestLoadConfigFileNotFound tests the missing-file sentinel.
func TestLoadConfigFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

// TestLoadConfigFileInvalidYAML tests that a malformed file fails with a
// parse error, not a panic or silent default.
func TestLoadConfigFileInvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "logDir: [unclosed")
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("expected a parse error")
	}
}

// TestApplyInvalidLevel tests that a bad level name fails during Apply.
func TestApplyInvalidLevel(t *testing.T) {
	t.Parallel()

	cf := &File{MinLevel: "loud"}
	if err := cf.Apply(NewConfig()); err == nil {
		t.Error("expected an error for an unknown level name")
	}
}

// TestFindConfigFileExplicit tests the explicit-path branch.
func TestFindConfigFileExplicit(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "logDir: /tmp\n")
	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile = %s, expected %s", got, path)
	}
	if got := FindConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); got != "" {
		t.Errorf("missing explicit path must return empty, got %s", got)
	}
}
