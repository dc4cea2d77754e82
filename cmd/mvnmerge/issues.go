// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mvnmerge/mvnmerge/internal/issue"
)

// newIssuesCommand creates the `mvnmerge issues` command.
func newIssuesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "issues [id]",
		Short: "List known merge failures or explain one of them",
		Long: `List known merge failures or explain one of them.

Without arguments every catalogued failure is listed with its id. With an id
the full explanation is printed, the same text --verbose shows after a failed
merge.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(app.stdout, renderIssues())
				return nil
			}
			id, err := parseIssueID(args[0])
			if err != nil {
				return err
			}
			renderIssue(app.stdout, id)
			return nil
		},
	}
}

func parseIssueID(arg string) (issue.Id, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || issue.Get(issue.Id(n)) == nil {
		return 0, fmt.Errorf("unknown issue %q, run 'mvnmerge issues' for the list", arg)
	}
	return issue.Id(n), nil
}

func renderIssues() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("ID", "ISSUE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	for _, entry := range issue.Values() {
		t.Row(strconv.Itoa(int(entry.Id())), entry.Title())
	}
	return t.Render()
}
