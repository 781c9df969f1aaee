// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/pwcc/wplint/internal/config"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config    config.Provider
		configDir string
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    config.Provider
		// ConfigDir replaces the user config directory when set.
		ConfigDir string
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		configPath string
		verbose    bool
		noColor    bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:    deps.Config,
		configDir: deps.ConfigDir,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}, nil
}

// loadConfig loads the configuration that applies to the plugin in dir. The
// verbose flag is raised when the configuration asks for it.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues, dir string) (*config.Config, string, error) {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ProjectDir:     dir,
		ConfigDirPath:  a.configDir,
	})
	if err != nil {
		return nil, "", err
	}
	if cfg.Output.Verbose {
		flags.verbose = true
	}
	return cfg, path, nil
}

// logger returns a stderr logger at debug level under --verbose.
func (a *App) logger(flags *rootFlagValues) *log.Logger {
	level := log.WarnLevel
	if flags.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "wplint",
		Level:  level,
	})
}

// userConfigDir returns the directory holding the user config file.
func (a *App) userConfigDir() (string, error) {
	if a.configDir != "" {
		return a.configDir, nil
	}
	return config.ConfigDir()
}

// targetDir returns the plugin directory argument, defaulting to ".".
func targetDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}
