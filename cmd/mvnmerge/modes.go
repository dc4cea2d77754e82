// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mvnmerge/mvnmerge/internal/merger"
)

// newModesCommand creates the `mvnmerge modes` command.
func newModesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List merge modes and the directories they merge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.stdout, renderModes())
			return nil
		},
	}
}

func renderModes() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("MODE", "DIRECTORIES").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	for _, mode := range merger.Modes() {
		t.Row(mode.String(), strings.Join(mode.Directories(), ", "))
	}
	return t.Render()
}
