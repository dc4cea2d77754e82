// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mvnmerge/mvnmerge/internal/issue"
	"github.com/mvnmerge/mvnmerge/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "mvnmerge [modules project-root output-file mode]",
		Short: "Merge maven test modules into one",
		Long: TitleStyle.Render("mvnmerge") + SubtitleStyle.Render(" - Merge maven test modules into one") + `

mvnmerge copies the sources (or compiled classes) of several modules of a
multi-module maven project into a single new module, merges their dependencies
into its pom.xml and registers it in the root pom.xml. The list of modules to
run afterwards is written to the output file.

Running the root command with four arguments is the same as 'mvnmerge merge'.

` + SubtitleStyle.Render("Examples:") + `
  mvnmerge merge m1,m2,m3 . modules.txt sources   Merge sources of three modules
  mvnmerge m1,m2 /work/project out.txt target     Merge compiled classes
  mvnmerge modes                                  List merge modes
  mvnmerge config init                            Create mvnmerge.cue`,
		// Argument count is checked by the merge input parser so that a wrong
		// invocation exits with the merge failure status.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runMerge(cmd, app, flags, args)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and detailed error help")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./mvnmerge.cue)")

	rootCmd.AddCommand(newMergeCommand(app, flags))
	rootCmd.AddCommand(newModesCommand(app))
	rootCmd.AddCommand(newIssuesCommand(app))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the command tree.
// This is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitUsage))
	}
}

// handleError prints errors fang receives. Merge failures were already
// rendered by the failing command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
