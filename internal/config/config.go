package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file location relative to the working directory.
const DefaultConfigPath = ".lintgate/config.yaml"

// HistoryConfig represents run-history configuration
type HistoryConfig struct {
	// Enabled records every run in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the SQLite history database
	DBPath string `yaml:"db_path"`
}

// Config represents lintgate configuration options
type Config struct {
	// Roots are the directories scanned for source files, in order
	Roots []string `yaml:"roots"`

	// Extension is the file name suffix that selects files (e.g. ".py")
	Extension string `yaml:"extension"`

	// ExcludeDirs are directory names skipped while scanning
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Linter is the linter binary, looked up on PATH
	Linter string `yaml:"linter"`

	// ErrorsOnly restricts reporting to error-severity findings
	ErrorsOnly bool `yaml:"errors_only"`

	// SuppressedRule is the one diagnostic rule disabled for every run
	SuppressedRule string `yaml:"suppressed_rule"`

	// Message is the confirmation line printed on success
	Message string `yaml:"message"`

	// Timeout bounds the linter invocation (0 = no timeout)
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel sets the console logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables per-run log files in this directory when non-empty
	LogDir string `yaml:"log_dir"`

	// ReportPath enables a JSON summary of the last run when non-empty
	ReportPath string `yaml:"report_path"`

	// History contains run-history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns the stock gate: pylint, errors only, one rule
// suppressed, over pepnet/ and test/.
func DefaultConfig() *Config {
	return &Config{
		Roots:          []string{"pepnet", "test"},
		Extension:      ".py",
		ExcludeDirs:    nil,
		Linter:         "pylint",
		ErrorsOnly:     true,
		SuppressedRule: "print-statement",
		Message:        "Passes pylint check",
		Timeout:        0,
		LogLevel:       "warn",
		LogDir:         "",
		ReportPath:     "",
		History: HistoryConfig{
			Enabled: false,
			DBPath:  ".lintgate/history.db",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are decoded by hand so "90s" style strings work.
	type yamlConfig struct {
		Roots          []string       `yaml:"roots"`
		Extension      string         `yaml:"extension"`
		ExcludeDirs    []string       `yaml:"exclude_dirs"`
		Linter         string         `yaml:"linter"`
		ErrorsOnly     *bool          `yaml:"errors_only"`
		SuppressedRule *string        `yaml:"suppressed_rule"`
		Message        string         `yaml:"message"`
		Timeout        string         `yaml:"timeout"`
		LogLevel       string         `yaml:"log_level"`
		LogDir         string         `yaml:"log_dir"`
		ReportPath     string         `yaml:"report_path"`
		History        *HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if len(yamlCfg.Roots) > 0 {
		cfg.Roots = yamlCfg.Roots
	}
	if yamlCfg.Extension != "" {
		cfg.Extension = yamlCfg.Extension
	}
	if len(yamlCfg.ExcludeDirs) > 0 {
		cfg.ExcludeDirs = yamlCfg.ExcludeDirs
	}
	if yamlCfg.Linter != "" {
		cfg.Linter = yamlCfg.Linter
	}
	// errors_only and suppressed_rule may be explicitly turned off
	if yamlCfg.ErrorsOnly != nil {
		cfg.ErrorsOnly = *yamlCfg.ErrorsOnly
	}
	if yamlCfg.SuppressedRule != nil {
		cfg.SuppressedRule = *yamlCfg.SuppressedRule
	}
	if yamlCfg.Message != "" {
		cfg.Message = yamlCfg.Message
	}
	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.ReportPath != "" {
		cfg.ReportPath = yamlCfg.ReportPath
	}
	if yamlCfg.History != nil {
		cfg.History.Enabled = yamlCfg.History.Enabled
		if yamlCfg.History.DBPath != "" {
			cfg.History.DBPath = yamlCfg.History.DBPath
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .lintgate/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, filepath.FromSlash(DefaultConfigPath)))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, reportPath *string) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if reportPath != nil {
		c.ReportPath = *reportPath
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return fmt.Errorf("roots must list at least one directory")
	}
	for i, root := range c.Roots {
		if root == "" {
			return fmt.Errorf("roots[%d] cannot be empty", i)
		}
	}

	if c.Extension == "" {
		return fmt.Errorf("extension cannot be empty")
	}

	if c.Linter == "" {
		return fmt.Errorf("linter cannot be empty")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
