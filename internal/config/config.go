// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mvnmerge/mvnmerge/internal/issue"
	"github.com/mvnmerge/mvnmerge/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "mvnmerge"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "mvnmerge"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. MVNMERGE_LOG_LEVEL.
	EnvPrefix = "MVNMERGE"
	// DotEnvFileName is read from the config directory for environment overrides.
	DotEnvFileName = ".env"

	schemaDefinition = "#Config"
)

// ErrConfigExists is returned by CreateDefaultConfig when the target file
// already exists and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// FileName returns the config file name looked up in the config directory.
func FileName() string {
	return ConfigFileName + "." + ConfigFileExt
}

// EnvName returns the environment variable overriding the given config key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// defaults flattens cfg into viper keys. Every key is registered so that
// environment overrides are visible to Unmarshal.
func defaults(cfg *Config) map[string]any {
	return map[string]any{
		"merged_module_name":   cfg.MergedModuleName,
		"pretty_print":         cfg.PrettyPrint,
		"output_separator":     cfg.OutputSeparator,
		"template_path":        cfg.TemplatePath,
		"report_path":          cfg.ReportPath,
		"filters.allure":       cfg.Filters.Allure,
		"filters.marker_files": cfg.Filters.MarkerFiles,
		"log.level":            cfg.Log.Level.String(),
	}
}

// loadWithOptions performs option-driven config loading without mutating
// package-level or process state.
//
// Precedence, lowest first: defaults, config file, .env file, process environment.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()
	keys := defaults(DefaultConfig())
	for key, value := range keys {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dir := opts.Dir.String()
	resolvedPath := ""

	// An explicit --config path is used exclusively and must exist.
	if opts.ConfigFilePath != "" {
		path := opts.ConfigFilePath.String()
		if !fileExists(path) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'mvnmerge config init' to create a default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", invalidFileError(path, err)
		}
		resolvedPath = path
	} else {
		// Without a config file, defaults apply.
		path := filepath.Join(dir, FileName())
		if fileExists(path) {
			if err := loadCUEIntoViper(v, path); err != nil {
				return nil, "", invalidFileError(path, err)
			}
			resolvedPath = path
		}
	}

	if err := loadDotEnvIntoViper(v, filepath.Join(dir, DotEnvFileName), keys); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load environment overrides").
			WithResource(filepath.Join(dir, DotEnvFileName)).
			WithSuggestion("Use KEY=value lines, e.g. " + EnvName("log.level") + "=debug").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema, so the decoded values are
	// checked again.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check the values set in the config file and in " + EnvPrefix + "_* variables").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func invalidFileError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("Run 'mvnmerge config show' to see the default configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper validates a CUE file against the #Config schema and
// merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, schemaDefinition, cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// loadDotEnvIntoViper applies MVNMERGE_* entries of a .env file. Variables
// already present in the process environment win over the file.
func loadDotEnvIntoViper(v *viper.Viper, path string, keys map[string]any) error {
	if !fileExists(path) {
		return nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for key := range keys {
		name := EnvName(key)
		value, ok := env[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(key, value)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path. An existing
// file is kept unless force is set.
func CreateDefaultConfig(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// mvnmerge configuration file\n")
	sb.WriteString("// Every field is optional. Environment variables prefixed with " + EnvPrefix + "_ override it.\n\n")

	sb.WriteString(fmt.Sprintf("merged_module_name: %q\n", cfg.MergedModuleName))
	sb.WriteString(fmt.Sprintf("pretty_print: %v\n", cfg.PrettyPrint))
	sb.WriteString(fmt.Sprintf("output_separator: %q\n", cfg.OutputSeparator))
	if cfg.TemplatePath != "" {
		sb.WriteString(fmt.Sprintf("template_path: %q\n", cfg.TemplatePath))
	}
	if cfg.ReportPath != "" {
		sb.WriteString(fmt.Sprintf("report_path: %q\n", cfg.ReportPath))
	}

	sb.WriteString("\nfilters: {\n")
	sb.WriteString(fmt.Sprintf("\tallure: %v\n", cfg.Filters.Allure))
	sb.WriteString("\tmarker_files: [")
	for i, marker := range cfg.Filters.MarkerFiles {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%q", marker))
	}
	sb.WriteString("]\n")
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	sb.WriteString(fmt.Sprintf("\tlevel: %q\n", cfg.Log.Level))
	sb.WriteString("}\n")

	return sb.String()
}
