// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvnmerge/mvnmerge/internal/config"
	"github.com/mvnmerge/mvnmerge/pkg/types"
)

// newConfigCommand creates the `mvnmerge config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mvnmerge configuration",
		Long: `Manage mvnmerge configuration.

Configuration is read from ./` + config.FileName() + ` (or the --config file) and
can be overridden with ` + config.EnvPrefix + `_* environment variables, either set
in the environment or listed in ./` + config.DotEnvFileName + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, flags)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName()
			if len(args) == 1 {
				path = args[0]
			}
			return initConfig(app, path, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *rootFlags) error {
	cfg, source, err := config.LoadWithSource(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(flags.configPath)})
	if err != nil {
		fmt.Fprintln(app.stderr, formatErrorForDisplay(err, flags.verbose))
		if flags.verbose {
			renderIssue(app.stderr, issueFor(err))
		}
		return err
	}

	if source == "" {
		source = SubtitleStyle.Render("(using defaults)")
	}
	fmt.Fprintf(app.stdout, "%s %s\n\n", TitleStyle.Render("Config file:"), source)

	// Plain CUE keeps the output reusable as a config file.
	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}

func initConfig(app *App, path string, force bool) error {
	if err := config.CreateDefaultConfig(path, force); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
	return nil
}
