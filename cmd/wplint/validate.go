// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pwcc/wplint/internal/baseline"
	"github.com/pwcc/wplint/internal/config"
	"github.com/pwcc/wplint/internal/issue"
	"github.com/pwcc/wplint/internal/report"
	"github.com/pwcc/wplint/internal/validator"
	"github.com/pwcc/wplint/internal/watch"
	"github.com/pwcc/wplint/pkg/types"

	"github.com/spf13/cobra"
)

// validateFlagValues holds the flags of 'wplint validate'.
type validateFlagValues struct {
	format       string
	baselinePath string
	watch        bool
	clearScreen  bool
	failOnSkip   bool
}

// newValidateCommand creates the `wplint validate` command.
func newValidateCommand(app *App, flags *rootFlagValues) *cobra.Command {
	vflags := &validateFlagValues{}

	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate plugin metadata",
		Long: `Validate the metadata of the plugin in dir (default: current directory).

Every rule is evaluated as an independent check:
  - readme.txt and plugin file headers against the requirement tables
  - deprecated header names in both files
  - headers declared in both files must agree
  - the canonical version against readme, plugin file, package.json,
    package-lock.json and composer.json
  - every retina banner needs a standard resolution partner

Exit status is 0 when every check passes (or is covered by the baseline),
1 when a check fails, and 2 when validation could not run.

Examples:
  wplint validate
  wplint validate ./my-plugin --format json
  wplint validate --baseline wplint-baseline.toml
  wplint validate --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, app, flags, vflags, targetDir(args))
		},
	}

	cmd.Flags().StringVarP(&vflags.format, "format", "f", "", "output format: text, json or yaml (default from config)")
	cmd.Flags().StringVar(&vflags.baselinePath, "baseline", "", "baseline file of accepted findings (default from config)")
	cmd.Flags().BoolVarP(&vflags.watch, "watch", "w", false, "re-validate when metadata files change")
	cmd.Flags().BoolVar(&vflags.clearScreen, "clear", false, "clear the screen before each run in watch mode")
	cmd.Flags().BoolVar(&vflags.failOnSkip, "fail-on-skip", false, "treat skipped checks as failures")

	return cmd
}

// validateRun is a fully resolved validation request.
type validateRun struct {
	cfg        *config.Config
	cfgPath    string
	opts       validator.Options
	reportOpts report.Options
	failOnSkip bool
	// baselinePath is the baseline actually loaded, from --baseline or the
	// configuration; empty when none is used.
	baselinePath string
}

func runValidate(cmd *cobra.Command, app *App, flags *rootFlagValues, vflags *validateFlagValues, dir string) error {
	run, err := prepareValidate(cmd.Context(), app, flags, vflags, dir)
	if err != nil {
		return fatal(err)
	}

	if vflags.watch {
		return runWatchMode(cmd.Context(), app, flags, vflags, dir, run)
	}
	return executeValidate(cmd.Context(), app, run)
}

func prepareValidate(ctx context.Context, app *App, flags *rootFlagValues, vflags *validateFlagValues, dir string) (*validateRun, error) {
	cfg, cfgPath, err := app.loadConfig(ctx, flags, dir)
	if err != nil {
		return nil, err
	}

	format := cfg.Output.Format
	if vflags.format != "" {
		format, err = types.ParseOutputFormat(vflags.format)
		if err != nil {
			return nil, err
		}
	}

	opts, err := validator.OptionsFromConfig(dir, cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = app.logger(flags)

	baselinePath := vflags.baselinePath
	if baselinePath == "" && cfg.Baseline != "" {
		baselinePath = resolvePath(dir, cfg.Baseline)
	}
	opts.Baseline, err = loadBaseline(baselinePath)
	if err != nil {
		return nil, err
	}
	if baselinePath != "" {
		opts.Logger.Debug("baseline loaded", "path", baselinePath, "entries", opts.Baseline.Count())
	}
	if cfgPath != "" {
		opts.Logger.Debug("configuration loaded", "path", cfgPath)
	}

	return &validateRun{
		cfg:          cfg,
		cfgPath:      cfgPath,
		opts:         opts,
		reportOpts:   report.Options{Format: format, Verbose: flags.verbose, NoColor: flags.noColor},
		failOnSkip:   vflags.failOnSkip,
		baselinePath: baselinePath,
	}, nil
}

// executeValidate runs one validation and writes its report.
func executeValidate(ctx context.Context, app *App, run *validateRun) error {
	r, err := validator.Run(ctx, run.opts)
	if err != nil {
		return fatal(err)
	}
	if err := report.Write(app.stdout, r, run.reportOpts); err != nil {
		return fatal(err)
	}

	switch {
	case r.Failed():
		return &ExitError{
			Code: types.ExitFindings,
			Err:  fmt.Errorf("validation failed: %d failing check(s), %d error(s)", r.Summary.Failed, r.Summary.Errored),
		}
	case run.failOnSkip && r.Summary.Skipped > 0:
		return &ExitError{
			Code: types.ExitFindings,
			Err:  fmt.Errorf("validation failed: %d skipped check(s)", r.Summary.Skipped),
		}
	}
	return nil
}

// runWatchMode validates once immediately, then re-validates whenever a file
// that feeds the checks changes. It blocks until the context is cancelled.
func runWatchMode(ctx context.Context, app *App, flags *rootFlagValues, vflags *validateFlagValues, dir string, run *validateRun) error {
	fmt.Fprintf(app.stderr, "%s Watch mode: initial validation of %s\n", VerboseHighlightStyle.Render("→"), run.opts.Dir)
	if err := executeValidate(ctx, app, run); err != nil {
		printWatchError(app, flags, err)
	}
	fmt.Fprintf(app.stderr, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", VerboseHighlightStyle.Render("→"))

	w, err := watch.New(watch.Config{
		Patterns:    watchPatterns(run),
		Ignore:      run.cfg.Watch.Ignore,
		Debounce:    run.cfg.Watch.Debounce,
		ClearScreen: vflags.clearScreen,
		BaseDir:     run.opts.Dir,
		Stdout:      app.stdout,
		Logger:      run.opts.Logger,
		OnChange:    watchChangeHandler(app, flags, vflags, dir),
	})
	if err != nil {
		return fatal(fmt.Errorf("failed to start watcher: %w", err))
	}
	return w.Run(ctx)
}

// watchChangeHandler re-resolves configuration and baseline on every change,
// so edits to wplint.cue or the baseline apply to the next run. Errors are
// reported and watching continues.
func watchChangeHandler(app *App, flags *rootFlagValues, vflags *validateFlagValues, dir string) func(context.Context, []string) error {
	return func(ctx context.Context, changed []string) error {
		fmt.Fprintf(app.stderr, "%s Detected %d change(s). Re-validating...\n", VerboseHighlightStyle.Render("→"), len(changed))
		run, err := prepareValidate(ctx, app, flags, vflags, dir)
		if err == nil {
			err = executeValidate(ctx, app, run)
		}
		if err != nil {
			printWatchError(app, flags, err)
		}
		fmt.Fprintf(app.stderr, "\n%s Watching for changes...\n\n", VerboseHighlightStyle.Render("→"))
		return nil
	}
}

func printWatchError(app *App, flags *rootFlagValues, err error) {
	fmt.Fprintf(app.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, flags.verbose))
}

// watchPatterns lists the files whose changes can alter a verdict.
func watchPatterns(run *validateRun) []string {
	opts := run.opts
	plugin := "*.php"
	if p, err := validator.DiscoverPluginFile(opts.Dir, opts.PluginFile); err == nil {
		plugin = relativeTo(opts.Dir, p)
	}

	files := []string{
		opts.Readme,
		plugin,
		opts.Canonical.ConstantFile,
		opts.PackageJSON,
		opts.PackageLock,
		opts.ComposerJSON,
		config.ProjectFileName,
		relativeTo(opts.Dir, run.baselinePath),
	}
	return watch.PluginPatterns(files, []string{opts.AssetsDir})
}

func loadBaseline(path string) (*baseline.Baseline, error) {
	b, err := baseline.Load(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load baseline").
			WithResource(path).
			WithSuggestion("Regenerate it with 'wplint baseline write'").
			WithIssue(issue.BaselineInvalidId).
			Wrap(err).
			BuildError()
	}
	return b, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// relativeTo returns p relative to dir when possible, or p unchanged.
func relativeTo(dir, p string) string {
	if p == "" {
		return p
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return p
	}
	absP, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(absDir, absP); err == nil {
		return filepath.ToSlash(rel)
	}
	return p
}
