package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/seclog/seclog/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".seclog.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the YAML configuration file. Levels are strings in the
// file ("info", "critical") and parsed during Apply; every field is
// optional so a partial file only overrides what it names.
type File struct {
	LogDir             string `yaml:"logDir,omitempty"`
	ApplicationLogFile string `yaml:"applicationLogFile,omitempty"`
	SecurityLogFile    string `yaml:"securityLogFile,omitempty"`
	MinLevel           string `yaml:"minLevel,omitempty"`
	MaxLogSize         int64  `yaml:"maxLogSize,omitempty"`
	BackupCount        *int   `yaml:"backupCount,omitempty"`
	MaxMessageLength   int    `yaml:"maxMessageLength,omitempty"`
	MaxInspectSize     int64  `yaml:"maxInspectSize,omitempty"`
	DigestAlgorithm    string `yaml:"digestAlgorithm,omitempty"`
	Concurrency        int    `yaml:"concurrency,omitempty"`
	SecurityScan       *bool  `yaml:"securityScan,omitempty"`
	DisableBuiltin     bool   `yaml:"disableBuiltinRules,omitempty"`
	RulesFile          string `yaml:"rulesFile,omitempty"`

	Console struct {
		Enabled  bool   `yaml:"enabled,omitempty"`
		MinLevel string `yaml:"minLevel,omitempty"`
		Color    *bool  `yaml:"color,omitempty"`
		Format   string `yaml:"format,omitempty"`
	} `yaml:"console,omitempty"`

	Email struct {
		Enabled       bool     `yaml:"enabled,omitempty"`
		Host          string   `yaml:"host,omitempty"`
		Port          int      `yaml:"port,omitempty"`
		Username      string   `yaml:"username,omitempty"`
		Password      string   `yaml:"password,omitempty"`
		From          string   `yaml:"from,omitempty"`
		Recipients    []string `yaml:"recipients,omitempty"`
		UseTLS        bool     `yaml:"useTLS,omitempty"`
		SubjectPrefix string   `yaml:"subjectPrefix,omitempty"`
		MinLevel      string   `yaml:"minLevel,omitempty"`
		TimeoutSec    int      `yaml:"timeoutSeconds,omitempty"`
		ProxyAddress  string   `yaml:"proxyAddress,omitempty"`
	} `yaml:"email,omitempty"`

	History struct {
		Enabled bool   `yaml:"enabled,omitempty"`
		DBDir   string `yaml:"dbDir,omitempty"`
	} `yaml:"history,omitempty"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// Apply copies the file's non-empty values onto cfg. The result still
// needs Validate; a file can set invalid values just like flags can.
func (f *File) Apply(cfg *Config) error {
	if f.LogDir != "" {
		cfg.LogDir = f.LogDir
	}
	if f.ApplicationLogFile != "" {
		cfg.ApplicationLogFile = f.ApplicationLogFile
	}
	if f.SecurityLogFile != "" {
		cfg.SecurityLogFile = f.SecurityLogFile
	}
	if f.MinLevel != "" {
		lv, err := model.ParseLevel(f.MinLevel)
		if err != nil {
			return fmt.Errorf("minLevel: %w", err)
		}
		cfg.MinLevel = lv
	}
	if f.MaxLogSize != 0 {
		cfg.MaxLogSize = f.MaxLogSize
	}
	if f.BackupCount != nil {
		cfg.BackupCount = *f.BackupCount
	}
	if f.MaxMessageLength != 0 {
		cfg.MaxMessageLength = f.MaxMessageLength
	}
	if f.MaxInspectSize != 0 {
		cfg.MaxInspectSize = f.MaxInspectSize
	}
	if f.DigestAlgorithm != "" {
		cfg.DigestAlgorithm = f.DigestAlgorithm
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.SecurityScan != nil {
		cfg.SecurityScan = *f.SecurityScan
	}
	if f.DisableBuiltin {
		cfg.DisableBuiltinRules = true
	}
	if f.RulesFile != "" {
		cfg.RulesFile = f.RulesFile
	}

	if f.Console.Enabled {
		cfg.Console.Enabled = true
	}
	if f.Console.MinLevel != "" {
		lv, err := model.ParseLevel(f.Console.MinLevel)
		if err != nil {
			return fmt.Errorf("console.minLevel: %w", err)
		}
		cfg.Console.MinLevel = lv
	}
	if f.Console.Color != nil {
		cfg.Console.Color = *f.Console.Color
	}
	if f.Console.Format != "" {
		cfg.Console.Format = f.Console.Format
	}

	if f.Email.Enabled {
		cfg.Email.Enabled = true
	}
	if f.Email.Host != "" {
		cfg.Email.Host = f.Email.Host
	}
	if f.Email.Port != 0 {
		cfg.Email.Port = f.Email.Port
	}
	if f.Email.Username != "" {
		cfg.Email.Username = f.Email.Username
	}
	if f.Email.Password != "" {
		cfg.Email.Password = f.Email.Password
	}
	if f.Email.From != "" {
		cfg.Email.From = f.Email.From
	}
	if len(f.Email.Recipients) > 0 {
		cfg.Email.Recipients = f.Email.Recipients
	}
	if f.Email.UseTLS {
		cfg.Email.UseTLS = true
	}
	if f.Email.SubjectPrefix != "" {
		cfg.Email.SubjectPrefix = f.Email.SubjectPrefix
	}
	if f.Email.MinLevel != "" {
		lv, err := model.ParseLevel(f.Email.MinLevel)
		if err != nil {
			return fmt.Errorf("email.minLevel: %w", err)
		}
		cfg.Email.MinLevel = lv
	}
	if f.Email.TimeoutSec != 0 {
		cfg.Email.Timeout = time.Duration(f.Email.TimeoutSec) * time.Second
	}
	if f.Email.ProxyAddress != "" {
		cfg.Email.ProxyAddress = f.Email.ProxyAddress
	}

	if f.History.Enabled {
		cfg.History.Enabled = true
	}
	if f.History.DBDir != "" {
		cfg.History.DBDir = f.History.DBDir
	}

	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .seclog.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .seclog.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
