// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/pwcc/wplint/pkg/header"

	"github.com/spf13/cobra"
)

// newRulesCommand creates the `wplint rules` command.
func newRulesCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "rules [dir]",
		Short: "Show the effective header rules",
		Long: `Show the header rules that apply to the plugin in dir after the
overrides from wplint.cue: the requirement level of every readme.txt and
plugin file header, the deprecated header names, and the headers compared
across both files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context(), flags, targetDir(args))
			if err != nil {
				return fatal(err)
			}
			rules, err := cfg.HeaderRules()
			if err != nil {
				return fatal(err)
			}
			printRules(app.stdout, rules)
			return nil
		},
	}
}

func printRules(w io.Writer, rules header.Rules) {
	printSpec(w, "readme.txt", rules.Readme)
	fmt.Fprintln(w)
	printSpec(w, "Plugin file", rules.Plugin)

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Deprecated headers"))
	for _, a := range rules.Deprecated {
		fmt.Fprintf(w, "  %s %s %s\n", CmdStyle.Render(a.Deprecated), SubtitleStyle.Render("→"), a.Replacement)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Compared across files"))
	for _, p := range rules.Common {
		if p.Plugin != p.Readme {
			fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render(p.Plugin), SubtitleStyle.Render("= readme "+p.Readme))
			continue
		}
		fmt.Fprintf(w, "  %s\n", CmdStyle.Render(p.Plugin))
	}
}

func printSpec(w io.Writer, title string, spec header.Spec) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	width := 0
	for _, e := range spec.Entries() {
		width = max(width, len(e.Name))
	}
	for _, e := range spec.Entries() {
		level := e.Level.String()
		style, ok := levelStyles[level]
		if !ok {
			style = SubtitleStyle
		}
		fmt.Fprintf(w, "  %-*s  %s\n", width, e.Name, style.Render(level))
	}
}
