// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/pwcc/wplint/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `wplint config` command group.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wplint configuration",
		Long: `Manage wplint configuration.

wplint reads wplint.cue from the plugin directory, then config.cue from the
user configuration directory:
  - Linux: ~/.config/wplint/config.cue
  - macOS: ~/Library/Application Support/wplint/config.cue
  - Windows: %APPDATA%\wplint\config.cue

Environment variables prefixed with WPLINT_ override file values.

Examples:
  wplint config show
  wplint config init
  wplint config path`,
	}

	cmd.AddCommand(newConfigShowCommand(app, flags))
	cmd.AddCommand(newConfigInitCommand(app))
	cmd.AddCommand(newConfigPathCommand(app, flags))
	return cmd
}

func newConfigShowCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "show [dir]",
		Short: "Show the effective configuration",
		Long:  `Display the configuration that applies to the plugin in dir, as CUE.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.loadConfig(cmd.Context(), flags, targetDir(args))
			if err != nil {
				return fatal(err)
			}

			source := path
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintln(app.stderr, SubtitleStyle.Render("// Source: "+source))
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	}
}

func newConfigInitCommand(app *App) *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a default configuration file",
		Long: `Create wplint.cue with the default settings in the plugin directory, or
config.cue in the user configuration directory with --user. An existing file
is left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(targetDir(args), config.ProjectFileName)
			if user {
				dir, err := app.userConfigDir()
				if err != nil {
					return fatal(err)
				}
				path = filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
			}

			created, err := config.CreateDefaultConfig(path)
			if err != nil {
				return fatal(err)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Config file already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default config file at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "write the user config file instead of ./wplint.cue")
	return cmd
}

func newConfigPathCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "path [dir]",
		Short: "Show the configuration file in effect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path, err := config.Locate(config.LoadOptions{
				ConfigFilePath: flags.configPath,
				ProjectDir:     targetDir(args),
				ConfigDirPath:  app.configDir,
			})
			if err != nil {
				return fatal(err)
			}
			if path == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(none: built-in defaults apply)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	}
}
