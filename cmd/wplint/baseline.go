// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/pwcc/wplint/internal/baseline"
	"github.com/pwcc/wplint/internal/validator"

	"github.com/spf13/cobra"
)

// defaultBaselineFile is written by 'wplint baseline write' without --output.
const defaultBaselineFile = "wplint-baseline.toml"

// newBaselineCommand creates the `wplint baseline` command group.
func newBaselineCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the baseline of accepted findings",
		Long: `Manage the baseline of accepted findings.

Findings recorded in the baseline are reported as suppressed and do not fail
'wplint validate'. Record the current state once, then fix findings over time
while new regressions still fail the run.`,
	}

	cmd.AddCommand(newBaselineWriteCommand(app, flags))
	return cmd
}

func newBaselineWriteCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "write [dir]",
		Short: "Record every current finding in a baseline file",
		Long: `Validate the plugin in dir and record every finding in a baseline file.
The file is replaced if it exists.

Examples:
  wplint baseline write
  wplint baseline write ./my-plugin --output .wplint/baseline.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := targetDir(args)
			cfg, _, err := app.loadConfig(cmd.Context(), flags, dir)
			if err != nil {
				return fatal(err)
			}
			opts, err := validator.OptionsFromConfig(dir, cfg)
			if err != nil {
				return fatal(err)
			}
			opts.Logger = app.logger(flags)

			r, err := validator.Run(cmd.Context(), opts)
			if err != nil {
				return fatal(err)
			}

			path := output
			if path == "" {
				path = cfg.Baseline
			}
			if path == "" {
				path = defaultBaselineFile
			}
			path = resolvePath(dir, path)

			findings := r.Findings()
			if err := baseline.Write(path, findings); err != nil {
				return fatal(fmt.Errorf("write baseline: %w", err))
			}
			fmt.Fprintf(app.stdout, "%s Wrote %d finding(s) to %s\n", SuccessStyle.Render("✓"), len(findings), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "baseline file to write (default from config, else "+defaultBaselineFile+")")
	return cmd
}
