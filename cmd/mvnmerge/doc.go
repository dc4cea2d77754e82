// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for mvnmerge.
//
// This package implements the Cobra command hierarchy: the root command, which
// accepts the four merge arguments directly, the merge subcommand, the modes
// listing, and configuration management. Every merge failure is reported with
// exit status 3.
package cmd
