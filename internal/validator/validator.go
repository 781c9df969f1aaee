// SPDX-License-Identifier: MPL-2.0

// Package validator runs every plugin metadata check against a plugin directory.
//
// The rule tables are expanded into independent named cases (see Cases). Cases
// run concurrently under a bounded errgroup; verdicts are stored by case index
// so the report order is fixed and repeated runs over unchanged files produce
// identical reports.
package validator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pwcc/wplint/internal/baseline"
	"github.com/pwcc/wplint/internal/config"
	"github.com/pwcc/wplint/internal/issue"
	"github.com/pwcc/wplint/pkg/assets"
	"github.com/pwcc/wplint/pkg/filedata"
	"github.com/pwcc/wplint/pkg/header"
	"github.com/pwcc/wplint/pkg/versionsync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// fallbackPluginFile is tried when <dirname>.php does not exist.
const fallbackPluginFile = "plugin.php"

// ErrPluginFileNotFound is returned when no main plugin file can be located.
var ErrPluginFileNotFound = errors.New("plugin file not found")

// Options configures a validation run. Relative paths resolve against Dir.
type Options struct {
	Dir        string
	Readme     string
	PluginFile string // empty: <dirname>.php, then plugin.php
	AssetsDir  string

	Rules     header.Rules
	Canonical versionsync.CanonicalSource

	PackageJSON  string
	PackageLock  string
	ComposerJSON string

	BannerRule  assets.BannerRule
	Concurrency int
	Baseline    *baseline.Baseline
	Logger      *log.Logger
}

// OptionsFromConfig builds run options for dir from cfg. The baseline is not
// loaded; callers set Options.Baseline.
func OptionsFromConfig(dir string, cfg *config.Config) (Options, error) {
	rules, err := cfg.HeaderRules()
	if err != nil {
		return Options{}, fmt.Errorf("build header rules: %w", err)
	}
	return Options{
		Dir:        dir,
		Readme:     cfg.Readme,
		PluginFile: cfg.PluginFile,
		AssetsDir:  cfg.AssetsDir,
		Rules:      rules,
		Canonical: versionsync.CanonicalSource{
			Explicit:     cfg.Version.Canonical,
			ConstantFile: cfg.Version.ConstantFile,
			ConstantName: cfg.Version.ConstantName,
		},
		PackageJSON:  cfg.Artifacts.PackageJSON,
		PackageLock:  cfg.Artifacts.PackageLock,
		ComposerJSON: cfg.Artifacts.ComposerJSON,
		BannerRule: assets.BannerRule{
			Prefix:  cfg.Banner.Prefix,
			HighRes: cfg.Banner.HighRes.String(),
			LowRes:  cfg.Banner.LowRes.String(),
		},
		Concurrency: cfg.Concurrency,
	}, nil
}

// DiscoverPluginFile returns the main plugin file of dir: configured when set,
// else <dirname>.php, else plugin.php.
func DiscoverPluginFile(dir, configured string) (string, error) {
	if configured != "" {
		p := resolve(dir, configured)
		if _, err := os.Stat(p); err != nil {
			return "", pluginNotFound(p, err)
		}
		return p, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve plugin directory: %w", err)
	}
	candidates := []string{
		filepath.Join(dir, filepath.Base(abs)+".php"),
		filepath.Join(dir, fallbackPluginFile),
	}
	for _, p := range candidates {
		if info, statErr := os.Stat(p); statErr == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", pluginNotFound(candidates[0], ErrPluginFileNotFound)
}

func pluginNotFound(path string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("locate main plugin file").
		WithResource(path).
		WithSuggestions(
			"Name the main plugin file after the plugin directory or plugin.php",
			"Set plugin_file in wplint.cue",
		).
		WithIssue(issue.PluginFileNotFoundId).
		Wrap(cause).
		BuildError()
}

// Load parses the two mandatory files and resolves everything the cases read.
// Failing to read the readme or the plugin file aborts the run.
func Load(opts Options) (Inputs, string, error) {
	pluginPath, err := DiscoverPluginFile(opts.Dir, opts.PluginFile)
	if err != nil {
		return Inputs{}, "", err
	}
	readmePath := resolve(opts.Dir, opts.Readme)

	readme, err := parseMandatory(readmePath, opts.Rules.RequestedNames(header.FileReadme))
	if err != nil {
		return Inputs{}, pluginPath, err
	}
	plugin, err := parseMandatory(pluginPath, opts.Rules.RequestedNames(header.FilePlugin))
	if err != nil {
		return Inputs{}, pluginPath, err
	}

	src := opts.Canonical
	if src.ConstantFile != "" {
		src.ConstantFile = resolve(opts.Dir, src.ConstantFile)
	}
	src.PluginFile = pluginPath
	canonical, canonicalErr := versionsync.ResolveCanonical(src)

	in := Inputs{
		Readme:       readme,
		Plugin:       plugin,
		Canonical:    canonical,
		CanonicalErr: canonicalErr,
		VersionPaths: versionsync.Paths{
			Readme:       readmePath,
			Plugin:       pluginPath,
			PackageJSON:  resolveOptional(opts.Dir, opts.PackageJSON),
			PackageLock:  resolveOptional(opts.Dir, opts.PackageLock),
			ComposerJSON: resolveOptional(opts.Dir, opts.ComposerJSON),
		},
		BannerRule: opts.BannerRule,
	}
	if opts.AssetsDir != "" {
		in.Assets = os.DirFS(resolve(opts.Dir, opts.AssetsDir))
	}
	return in, pluginPath, nil
}

func parseMandatory(path string, names []string) (header.Extracted, error) {
	raw, err := filedata.Parse(path, names)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read mandatory metadata file").
			WithResource(path).
			WithSuggestion("Check that the file exists and is readable").
			WithIssue(issue.MandatoryFileUnreadableId).
			Wrap(err).
			BuildError()
	}
	return header.NewExtracted(raw), nil
}

// Run validates the plugin directory described by opts.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	in, pluginPath, err := Load(opts)
	if err != nil {
		return nil, err
	}
	if in.CanonicalErr != nil {
		logger.Warn("no canonical version", "err", in.CanonicalErr)
	} else {
		logger.Debug("canonical version", "version", in.Canonical.Version, "origin", in.Canonical.Origin)
	}

	cases := Cases(opts.Rules, in)
	verdicts, err := Execute(ctx, cases, opts.Concurrency, logger)
	if err != nil {
		return nil, err
	}
	for i := range verdicts {
		verdicts[i].suppress(opts.Baseline)
	}

	return &Report{
		Dir:              opts.Dir,
		Readme:           resolve(opts.Dir, opts.Readme),
		PluginFile:       pluginPath,
		CanonicalVersion: in.Canonical.Version,
		CanonicalOrigin:  in.Canonical.Origin,
		Verdicts:         verdicts,
		Summary:          summarize(verdicts),
	}, nil
}

// Execute runs cases with at most limit in flight and returns their verdicts in
// case order. A non-positive limit runs cases one at a time.
func Execute(ctx context.Context, cases []Case, limit int, logger *log.Logger) ([]Verdict, error) {
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	verdicts := make([]Verdict, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			skipped, errs := c.Run()
			verdicts[i] = newVerdict(c, skipped, errs)
			logger.Debug("case evaluated", "check", c.Name, "status", verdicts[i].Status)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run checks: %w", err)
	}
	return verdicts, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func resolveOptional(dir, p string) string {
	if p == "" {
		return ""
	}
	return resolve(dir, p)
}
