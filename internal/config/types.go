// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// LogLevelDebug logs every merge step.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs merge progress.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// DefaultMergedModuleName is the merged module directory and artifactId.
	DefaultMergedModuleName = "merged_modules"
	// DefaultOutputSeparator joins the written modules list.
	DefaultOutputSeparator = ","
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidMergedModuleName is the sentinel error wrapped by InvalidMergedModuleNameError.
	ErrInvalidMergedModuleName = errors.New("invalid merged module name")
	// ErrInvalidMarkerFile is the sentinel error wrapped by InvalidMarkerFileError.
	ErrInvalidMarkerFile = errors.New("invalid marker file")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of emitted log lines.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidMergedModuleNameError is returned when the merged module name
	// is empty or not a single path element.
	InvalidMergedModuleNameError struct {
		Value string
	}

	// InvalidMarkerFileError is returned when a marker file is not a
	// module-relative path.
	InvalidMarkerFileError struct {
		Value string
	}

	// InvalidConfigError is returned when a Config has one or more invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// MergedModuleName is the directory and artifactId of the merged module.
		MergedModuleName string `json:"merged_module_name" mapstructure:"merged_module_name"`
		// PrettyPrint re-indents written descriptors.
		PrettyPrint bool `json:"pretty_print" mapstructure:"pretty_print"`
		// OutputSeparator joins the written modules list.
		OutputSeparator string `json:"output_separator" mapstructure:"output_separator"`
		// TemplatePath points to a custom merged module template (path or afs URL).
		TemplatePath string `json:"template_path" mapstructure:"template_path"`
		// ReportPath receives a YAML merge report when set.
		ReportPath string `json:"report_path" mapstructure:"report_path"`
		// Filters select the mergeable modules.
		Filters FiltersConfig `json:"filters" mapstructure:"filters"`
		// Log configures logging.
		Log LogConfig `json:"log" mapstructure:"log"`
	}

	// FiltersConfig selects which modules are merged. With no filter every
	// requested module is mergeable.
	FiltersConfig struct {
		// Allure requires src/test/resources/allure.properties.
		Allure bool `json:"allure" mapstructure:"allure"`
		// MarkerFiles lists module-relative files that must all exist.
		MarkerFiles []string `json:"marker_files" mapstructure:"marker_files"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MergedModuleName: DefaultMergedModuleName,
		PrettyPrint:      true,
		OutputSeparator:  DefaultOutputSeparator,
		Filters: FiltersConfig{
			MarkerFiles: []string{},
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if name := c.MergedModuleName; name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		errs = append(errs, &InvalidMergedModuleNameError{Value: name})
	}
	for _, marker := range c.Filters.MarkerFiles {
		if strings.TrimSpace(marker) == "" || filepath.IsAbs(marker) {
			errs = append(errs, &InvalidMarkerFileError{Value: marker})
		}
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig together with the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidMergedModuleNameError.
func (e *InvalidMergedModuleNameError) Error() string {
	return fmt.Sprintf("invalid merged module name %q (must be a single directory name)", e.Value)
}

// Unwrap returns ErrInvalidMergedModuleName for errors.Is() compatibility.
func (e *InvalidMergedModuleNameError) Unwrap() error { return ErrInvalidMergedModuleName }

// Error implements the error interface for InvalidMarkerFileError.
func (e *InvalidMarkerFileError) Error() string {
	return fmt.Sprintf("invalid marker file %q (must be a module-relative path)", e.Value)
}

// Unwrap returns ErrInvalidMarkerFile for errors.Is() compatibility.
func (e *InvalidMarkerFileError) Unwrap() error { return ErrInvalidMarkerFile }

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error {
	return ErrInvalidLogLevel
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Level converts l to a charmbracelet/log level. Unknown values map to info.
func (l LogLevel) Level() log.Level {
	level, err := log.ParseLevel(string(l))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
