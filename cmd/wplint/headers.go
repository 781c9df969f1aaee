// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pwcc/wplint/internal/validator"
	"github.com/pwcc/wplint/pkg/header"
	"github.com/pwcc/wplint/pkg/types"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// extractedHeaders is the machine-readable output of 'wplint headers'.
type extractedHeaders struct {
	Readme     string            `json:"readme" yaml:"readme"`
	PluginFile string            `json:"plugin_file" yaml:"plugin_file"`
	ReadmeHdrs map[string]string `json:"readme_headers" yaml:"readme_headers"`
	PluginHdrs map[string]string `json:"plugin_headers" yaml:"plugin_headers"`
}

// newHeadersCommand creates the `wplint headers` command.
func newHeadersCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "headers [dir]",
		Short: "Print the headers extracted from readme.txt and the plugin file",
		Long: `Print the header values wplint extracts from readme.txt and the main
plugin file, in rule order. Deprecated names are included when declared.

Examples:
  wplint headers
  wplint headers ./my-plugin --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeaders(cmd, app, flags, format, targetDir(args))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func runHeaders(cmd *cobra.Command, app *App, flags *rootFlagValues, format, dir string) error {
	outFormat, err := types.ParseOutputFormat(format)
	if err != nil {
		return fatal(err)
	}

	cfg, _, err := app.loadConfig(cmd.Context(), flags, dir)
	if err != nil {
		return fatal(err)
	}
	opts, err := validator.OptionsFromConfig(dir, cfg)
	if err != nil {
		return fatal(err)
	}
	opts.Logger = app.logger(flags)

	in, pluginPath, err := validator.Load(opts)
	if err != nil {
		return fatal(err)
	}

	out := extractedHeaders{
		Readme:     resolvePath(dir, opts.Readme),
		PluginFile: pluginPath,
		ReadmeHdrs: in.Readme,
		PluginHdrs: in.Plugin,
	}

	switch outFormat {
	case types.FormatJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fatal(fmt.Errorf("encode headers: %w", err))
		}
		_, err = fmt.Fprintln(app.stdout, string(data))
		return err
	case types.FormatYAML:
		enc := yaml.NewEncoder(app.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fatal(fmt.Errorf("encode headers: %w", err))
		}
		return enc.Close()
	default:
		printHeaderSection(app.stdout, filepath.Base(out.Readme), opts.Rules.RequestedNames(header.FileReadme), in.Readme)
		fmt.Fprintln(app.stdout)
		printHeaderSection(app.stdout, filepath.Base(pluginPath), opts.Rules.RequestedNames(header.FilePlugin), in.Plugin)
		return nil
	}
}

func printHeaderSection(w io.Writer, title string, names []string, h header.Extracted) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	width := 0
	for _, name := range names {
		width = max(width, len(name)+1)
	}
	shown := 0
	for _, name := range names {
		v, ok := h.Value(name)
		if !ok {
			continue
		}
		shown++
		fmt.Fprintf(w, "  %-*s  %s\n", width, name+":", v)
	}
	if shown == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  (no headers declared)"))
	}
}
