// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mvnmerge/mvnmerge/internal/config"
	"github.com/mvnmerge/mvnmerge/internal/issue"
	"github.com/mvnmerge/mvnmerge/internal/merger"
	"github.com/mvnmerge/mvnmerge/internal/treecopy"
	"github.com/mvnmerge/mvnmerge/pkg/pom"
	"github.com/mvnmerge/mvnmerge/pkg/types"
)

// newMergeCommand creates the `mvnmerge merge` command.
func newMergeCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <modules> <project-root> <output-file> <mode>",
		Short: "Merge modules into a single module",
		Long: `Merge modules into a single module.

Arguments:
  modules        comma-separated module directories, relative to the project root
  project-root   directory containing the root pom.xml
  output-file    receives the modules to run after merging
  mode           ` + strings.Join(merger.ModeNames(), " or ") + `

Modules are merged only when at least two of them pass the configured filters.
Otherwise the requested modules are written to the output file unchanged.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, app, flags, args)
		},
	}
}

func runMerge(cmd *cobra.Command, app *App, flags *rootFlags, args []string) error {
	ctx := cmd.Context()

	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(flags.configPath)})
	if err != nil {
		return app.mergeFailed(cmd, err, flags.verbose)
	}

	in, err := merger.ParseInput(args...)
	if err != nil {
		return app.mergeFailed(cmd, err, flags.verbose)
	}

	template, err := merger.LoadTemplate(ctx, app.Storage, cfg.TemplatePath)
	if err != nil {
		return app.mergeFailed(cmd, issue.NewErrorContext().
			WithOperation("load merged module template").
			WithResource(cfg.TemplatePath).
			WithSuggestion("Check template_path in the configuration").
			WithSuggestion("Remove template_path to use the built-in template").
			WithIssue(issue.DescriptorParseErrorId).
			Wrap(err).
			BuildError(), flags.verbose)
	}

	m := merger.New(merger.Options{
		Logger:           newLogger(app.stderr, cfg, flags.verbose),
		Filesystem:       app.Filesystem,
		Storage:          app.Storage,
		MergedModuleName: cfg.MergedModuleName,
		Template:         template,
		Pretty:           cfg.PrettyPrint,
		Separator:        cfg.OutputSeparator,
		ReportPath:       cfg.ReportPath,
		Filters:          buildFilters(cfg),
	})

	res, err := m.Merge(ctx, in)
	if err != nil {
		return app.mergeFailed(cmd, err, flags.verbose)
	}

	printResult(app.stdout, res, in)
	return nil
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *log.Logger {
	level := cfg.Log.Level.Level()
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "merger",
		Level:           level,
		ReportTimestamp: true,
	})
}

// buildFilters turns the filters configuration into module filters.
// Without any filter every requested module is mergeable.
func buildFilters(cfg *config.Config) []merger.Filter {
	var filters []merger.Filter
	if cfg.Filters.Allure {
		filters = append(filters, merger.AllureFilter())
	}
	for _, marker := range cfg.Filters.MarkerFiles {
		filters = append(filters, merger.NewExistingFileFilter(marker))
	}
	return filters
}

func printResult(w io.Writer, res *merger.Result, in merger.Input) {
	if res.Merged {
		fmt.Fprintf(w, "%s Merged %d modules into %s\n",
			SuccessStyle.Render("✓"),
			len(res.Partition.Mergeable),
			CmdStyle.Render(res.MergedModule))
	} else {
		fmt.Fprintf(w, "%s Nothing merged: %s\n", WarningStyle.Render("!"), res.SkippedReason)
	}
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Modules written to "+in.OutputFile.String()+":"), strings.Join(res.Modules, ", "))
}

// mergeFailed renders err on stderr and returns the merge failure exit status.
func (a *App) mergeFailed(cmd *cobra.Command, err error, verbose bool) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	fmt.Fprintln(a.stderr, ErrorStyle.Render("✗ Merging failed"))
	fmt.Fprintln(a.stderr, formatErrorForDisplay(err, verbose))

	if verbose {
		renderIssue(a.stderr, issueFor(err))
	}
	return &ExitError{Code: types.ExitMergingFailed, Err: err}
}

// issueFor picks the catalog entry explaining err, or 0 when none applies.
func issueFor(err error) issue.Id {
	if found := issue.IssueOf(err); found != nil {
		return found.Id()
	}

	var inputErr *merger.InvalidInputError
	switch {
	case errors.Is(err, merger.ErrUnknownMode):
		return issue.UnknownMergeModeId
	case errors.As(err, &inputErr) && inputErr.Argument == merger.ArgPathToProjectRoot:
		return issue.ProjectRootNotFoundId
	case errors.Is(err, merger.ErrInvalidInput):
		return issue.InvalidInputId
	case errors.Is(err, treecopy.ErrContentConflict):
		return issue.ContentConflictId
	case errors.Is(err, merger.ErrVersionConflict):
		return issue.VersionConflictId
	case errors.Is(err, merger.ErrMissingDirectories):
		return issue.MissingDirectoriesId
	case errors.Is(err, pom.ErrIllegalScope):
		return issue.IllegalScopeId
	case errors.Is(err, merger.ErrDestinationExists):
		return issue.MergedModuleExistsId
	}
	return 0
}

func renderIssue(w io.Writer, id issue.Id) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		fmt.Fprintln(w, WarningStyle.Render("Warning: ")+"failed to render issue help: "+err.Error())
		return
	}
	fmt.Fprint(w, rendered)
}
