// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pwcc/wplint/internal/issue"
	"github.com/pwcc/wplint/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the wplint command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "wplint",
		Short: "Validate WordPress plugin metadata",
		Long: TitleStyle.Render("wplint") + SubtitleStyle.Render(" - WordPress plugin metadata linter") + `

wplint checks that the headers of readme.txt and the main plugin file follow
the plugin directory rules, that headers declared in both files agree, that
every manifest carries the canonical plugin version, and that each retina
banner has a standard resolution partner.

` + SubtitleStyle.Render("Examples:") + `
  wplint validate                  Validate the plugin in the current directory
  wplint validate ./my-plugin      Validate another plugin directory
  wplint validate --watch          Re-validate whenever metadata changes
  wplint explain version-mismatch  Explain a violation code
  wplint config init               Create a wplint.cue file`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./wplint.cue, then the user config directory)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newValidateCommand(app, flags))
	rootCmd.AddCommand(newHeadersCommand(app, flags))
	rootCmd.AddCommand(newRulesCommand(app, flags))
	rootCmd.AddCommand(newExplainCommand(app, flags))
	rootCmd.AddCommand(newBaselineCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))
	rootCmd.AddCommand(newCompletionCommand())

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(types.ExitFatal))
	}

	// fang.WithVersion is required because fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor maps a command error to a process exit code. Errors that do not
// carry an ExitError are usage or setup failures.
func exitCodeFor(err error) types.ExitCode {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFatal
}

// errorHandler prints actionable errors with their suggestions and defers
// everything else to fang's styled handler.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	if ae, ok := issue.AsActionable(err); ok {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(false))
		if cmd := ae.ExplainCommand(); cmd != "" {
			fmt.Fprintf(w, "\nRun %s for details.\n", CmdStyle.Render(cmd))
		}
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	if ae, ok := issue.AsActionable(err); ok {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// fatal wraps err so that the process exits with ExitFatal.
func fatal(err error) error {
	return &ExitError{Code: types.ExitFatal, Err: err}
}
