// SPDX-License-Identifier: MPL-2.0

// Package config handles mvnmerge configuration using Viper with CUE as the file format.
//
// Configuration is read from mvnmerge.cue in the working directory (or the file given
// with --config), validated against the embedded CUE schema (config_schema.cue), and
// overridden by MVNMERGE_* variables from a .env file and the process environment.
// It controls the merged module name, module filters, output formatting, and logging.
package config
