/*
PURPOSE:
  Defines the configuration structure and loading logic for bee-pagoda.
  The configuration is built once at the entry point and passed down to
  every component that needs it.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the raw/report directory names and the
    environment variable that identifies the suite interpreter.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Hand-written JSONC files (comments, trailing commas) are accepted too.
  - No component below the CLI may read the process environment, so the
    interpreter is resolved here from injected lookups.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine, internal/registry
  - Dependencies: gopkg.in/yaml.v3, github.com/tidwall/jsonc

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default files fall back to DefaultConfig().

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Runtime-only fields carry `yaml:"-"`.

USAGE:
  cfg, err := config.Load("bee-pagoda.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and DefaultConfig().

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update Validate() when adding enumerated options.
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Log formats accepted by LogFormat.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultInterpreterEnv names the variable holding the suite interpreter.
const DefaultInterpreterEnv = "BENCH_PYTHON"

// Config represents the full configuration for bee-pagoda.
type Config struct {
	// RawDir is the directory under the run dir holding probe artifacts.
	RawDir string `yaml:"raw_dir"`
	// ReportDir is the directory under the run dir receiving the report.
	ReportDir string `yaml:"report_dir"`
	// InterpreterEnv names the environment variable recorded as
	// suite_interpreter.
	InterpreterEnv string `yaml:"interpreter_env"`
	// Categories is the default selection when none is given on the
	// command line. Empty means discover from the raw directory.
	Categories []string `yaml:"categories"`
	LogLevel   string   `yaml:"log_level"`
	LogFormat  string   `yaml:"log_format"`

	// Set by the CLI for each invocation.
	RunDir      string           `yaml:"-"`
	Profile     string           `yaml:"-"`
	Interpreter string           `yaml:"-"`
	Now         func() time.Time `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RawDir:         "raw",
		ReportDir:      "report",
		InterpreterEnv: DefaultInterpreterEnv,
		LogLevel:       "info",
		LogFormat:      LogFormatAuto,
		Now:            time.Now,
	}
}

// defaultFiles are searched in order when no path is given.
var defaultFiles = []string{"bee-pagoda.yaml", "bee-pagoda.yml", "bee-pagoda.jsonc"}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		found := false
		for _, name := range defaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := Parse(path, data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data into cfg. JSON and JSONC files are stripped of comments
// and trailing commas first; YAML accepts the resulting JSON as-is.
func Parse(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg.Validate()
}

// Validate checks option values.
func (c *Config) Validate() error {
	if c.RawDir == "" {
		return fmt.Errorf("raw_dir must not be empty")
	}
	if c.ReportDir == "" {
		return fmt.Errorf("report_dir must not be empty")
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log_format %q (want auto, text or json)", c.LogFormat)
	}
	return nil
}

// ResolveInterpreter sets Interpreter from the InterpreterEnv variable,
// falling back to the running executable.
func (c *Config) ResolveInterpreter(getenv func(string) string, executable func() (string, error)) {
	if c.InterpreterEnv != "" {
		if v := getenv(c.InterpreterEnv); v != "" {
			c.Interpreter = v
			return
		}
	}
	if exe, err := executable(); err == nil {
		c.Interpreter = exe
	}
}

// Timestamp returns the current time from the configured clock.
func (c *Config) Timestamp() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// RawPath is the absolute-or-relative path of the raw artifact directory.
func (c *Config) RawPath() string {
	return filepath.Join(c.RunDir, c.RawDir)
}

// ReportPath is the directory the report artifacts are written to.
func (c *Config) ReportPath() string {
	return filepath.Join(c.RunDir, c.ReportDir)
}

// ParseList splits a comma-separated list. Normalization (trimming,
// de-duplication) happens at selection time.
func ParseList(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}
