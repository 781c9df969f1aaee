// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/pwcc/wplint/internal/issue"

	"github.com/spf13/cobra"
)

// newExplainCommand creates the `wplint explain` command.
func newExplainCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Explain a violation code or error",
		Long: `Explain a violation code reported by 'wplint validate', or an error
that stopped a run. Without an argument, list every known code.

Examples:
  wplint explain
  wplint explain version-mismatch`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var slugs []string
			for _, i := range issue.Values() {
				slugs = append(slugs, i.Slug())
			}
			return slugs, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(app)
				return nil
			}

			i := issue.Lookup(args[0])
			if i == nil {
				return fatal(issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Run 'wplint explain' to list the known codes").
					Wrap(fmt.Errorf("unknown code %q", args[0])).
					BuildError())
			}

			style := "dark"
			if flags.noColor {
				style = "notty"
			}
			out, err := i.Render(style)
			if err != nil {
				return fatal(fmt.Errorf("render %s: %w", i.Slug(), err))
			}
			_, err = fmt.Fprint(app.stdout, out)
			return err
		},
	}
}

func listIssues(app *App) {
	values := issue.Values()
	width := 0
	for _, i := range values {
		width = max(width, len(i.Slug()))
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Violation codes"))
	for _, i := range values {
		if i.Code() != "" {
			fmt.Fprintf(app.stdout, "  %-*s  %s\n", width, i.Slug(), issueTitle(i))
		}
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, TitleStyle.Render("Run errors"))
	for _, i := range values {
		if i.Code() == "" {
			fmt.Fprintf(app.stdout, "  %-*s  %s\n", width, i.Slug(), issueTitle(i))
		}
	}
}

// issueTitle returns the first Markdown heading of the issue text.
func issueTitle(i *issue.Issue) string {
	for line := range strings.Lines(string(i.MarkdownMsg())) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return title
		}
	}
	return ""
}
