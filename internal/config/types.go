// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// LogLevelDebug logs every stage and archive entry.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs stage transitions.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only errors.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum severity written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError is returned when a decoded config fails validation.
	InvalidConfigError struct {
		Field string
		Cause error
	}

	// Config is the effective jellypack configuration.
	Config struct {
		UI     UIConfig     `json:"ui" mapstructure:"ui"`
		Build  BuildConfig  `json:"build" mapstructure:"build"`
		Output OutputConfig `json:"output" mapstructure:"output"`
	}

	// UIConfig controls console output.
	UIConfig struct {
		Verbose  bool     `json:"verbose" mapstructure:"verbose"`
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
	}

	// BuildConfig controls how the native build tool is invoked.
	BuildConfig struct {
		// EnvFile is a dotenv file relative to the project root. Empty means none.
		EnvFile string `json:"env_file" mapstructure:"env_file"`
		// Tools maps an ecosystem kind to an executable path.
		Tools map[string]string `json:"tools" mapstructure:"tools"`
	}

	// OutputConfig controls where packages are written.
	OutputConfig struct {
		Dir string `json:"dir" mapstructure:"dir"`
	}
)

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel so callers can use errors.Is for programmatic detection.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %v", e.Field, e.Cause)
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate returns an error if the LogLevel is not one of the known levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Validate checks constraints that environment overrides can bypass the schema on.
func (c *Config) Validate() error {
	if err := c.UI.LogLevel.Validate(); err != nil {
		return &InvalidConfigError{Field: "ui.log_level", Cause: err}
	}
	if c.Output.Dir == "" {
		return &InvalidConfigError{Field: "output.dir", Cause: errors.New("must not be empty")}
	}
	return nil
}

// ToolPath returns the configured executable override for an ecosystem kind.
func (c *Config) ToolPath(kind string) string {
	return c.Build.Tools[kind]
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Verbose:  false,
			LogLevel: LogLevelInfo,
		},
		Build: BuildConfig{
			EnvFile: "",
			Tools:   map[string]string{},
		},
		Output: OutputConfig{
			Dir: ".",
		},
	}
}
