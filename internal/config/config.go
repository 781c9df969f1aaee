// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/pwcc/wplint/internal/issue"
	"github.com/pwcc/wplint/pkg/header"
	"github.com/pwcc/wplint/pkg/platform"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
)

const (
	// AppName is the application name.
	AppName = "wplint"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// ProjectFileName is the per-plugin config file looked up in the plugin directory.
	ProjectFileName = "wplint.cue"
	// EnvPrefix prefixes environment overrides, e.g. WPLINT_OUTPUT_FORMAT.
	EnvPrefix = "WPLINT"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the wplint configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Locate returns the config file that loading with opts would read, or ""
// when defaults apply. Lookup order: the explicit file, wplint.cue in the
// plugin directory, then config.cue in the user config directory.
func Locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'wplint config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	if opts.ProjectDir != "" {
		projectPath := filepath.Join(opts.ProjectDir, ProjectFileName)
		if fileExists(projectPath) {
			return projectPath, nil
		}
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(cuePath) {
		return cuePath, nil
	}

	// No config file found: defaults apply.
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := Locate(opts)
	if err != nil {
		return nil, "", err
	}

	var rules RulesConfig
	if resolvedPath != "" {
		rules, err = loadCUEIntoViper(v, resolvedPath)
		if err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'wplint config init' to generate a reference file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Rules = rules
	if cfg.Rules.Readme == nil {
		cfg.Rules.Readme = map[string]header.Level{}
	}
	if cfg.Rules.Plugin == nil {
		cfg.Rules.Plugin = map[string]header.Level{}
	}

	// Cross-field checks and env overrides bypass the CUE schema.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check environment overrides prefixed with " + EnvPrefix + "_").
			WithSuggestion("Use 'wplint config show' to see the effective configuration").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// setDefaults registers every key so that environment overrides apply.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("readme", defaults.Readme)
	v.SetDefault("plugin_file", defaults.PluginFile)
	v.SetDefault("assets_dir", defaults.AssetsDir)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("baseline", defaults.Baseline)
	v.SetDefault("version.canonical", defaults.Version.Canonical)
	v.SetDefault("version.constant_file", defaults.Version.ConstantFile)
	v.SetDefault("version.constant_name", defaults.Version.ConstantName)
	v.SetDefault("artifacts.package_json", defaults.Artifacts.PackageJSON)
	v.SetDefault("artifacts.package_lock", defaults.Artifacts.PackageLock)
	v.SetDefault("artifacts.composer_json", defaults.Artifacts.ComposerJSON)
	v.SetDefault("banner.prefix", defaults.Banner.Prefix)
	v.SetDefault("banner.high_res", string(defaults.Banner.HighRes))
	v.SetDefault("banner.low_res", string(defaults.Banner.LowRes))
	v.SetDefault("output.format", string(defaults.Output.Format))
	v.SetDefault("output.verbose", defaults.Output.Verbose)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce.String())
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// The rules table is returned separately instead of being merged: Viper folds
// keys to lower case and rule keys are header names.
func loadCUEIntoViper(v *viper.Viper, path string) (RulesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RulesConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkFileSize(data, maxConfigFileSize, path); err != nil {
		return RulesConfig{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return RulesConfig{}, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return RulesConfig{}, formatCUEError(userValue.Err(), path)
	}

	// Unify with schema to validate against #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return RulesConfig{}, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return RulesConfig{}, formatCUEError(err, path)
	}

	var rules RulesConfig
	if rulesValue := unified.LookupPath(cue.ParsePath("rules")); rulesValue.Exists() {
		if err := rulesValue.Decode(&rules); err != nil {
			return RulesConfig{}, formatCUEError(err, path)
		}
	}
	delete(configMap, "rules")

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return RulesConfig{}, fmt.Errorf("failed to merge config: %w", err)
	}

	return rules, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file to path unless one exists.
// It reports whether a file was written.
func CreateDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// wplint configuration file\n")
	sb.WriteString("// Place it in the plugin directory as wplint.cue, or in the user config directory as config.cue.\n\n")

	fmt.Fprintf(&sb, "readme: %q\n", cfg.Readme)
	fmt.Fprintf(&sb, "plugin_file: %q\n", cfg.PluginFile)
	fmt.Fprintf(&sb, "assets_dir: %q\n", cfg.AssetsDir)
	fmt.Fprintf(&sb, "concurrency: %d\n", cfg.Concurrency)
	fmt.Fprintf(&sb, "baseline: %q\n", cfg.Baseline)

	sb.WriteString("\nversion: {\n")
	fmt.Fprintf(&sb, "\tcanonical: %q\n", cfg.Version.Canonical)
	fmt.Fprintf(&sb, "\tconstant_file: %q\n", cfg.Version.ConstantFile)
	fmt.Fprintf(&sb, "\tconstant_name: %q\n", cfg.Version.ConstantName)
	sb.WriteString("}\n")

	sb.WriteString("\nartifacts: {\n")
	fmt.Fprintf(&sb, "\tpackage_json: %q\n", cfg.Artifacts.PackageJSON)
	fmt.Fprintf(&sb, "\tpackage_lock: %q\n", cfg.Artifacts.PackageLock)
	fmt.Fprintf(&sb, "\tcomposer_json: %q\n", cfg.Artifacts.ComposerJSON)
	sb.WriteString("}\n")

	sb.WriteString("\nbanner: {\n")
	fmt.Fprintf(&sb, "\tprefix: %q\n", cfg.Banner.Prefix)
	fmt.Fprintf(&sb, "\thigh_res: %q\n", cfg.Banner.HighRes)
	fmt.Fprintf(&sb, "\tlow_res: %q\n", cfg.Banner.LowRes)
	sb.WriteString("}\n")

	sb.WriteString("\nrules: {\n")
	writeRuleTable(&sb, "readme", cfg.Rules.Readme)
	writeRuleTable(&sb, "plugin", cfg.Rules.Plugin)
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Output.Format)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.Output.Verbose)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce.String())
	sb.WriteString("\tignore: [")
	for i, p := range cfg.Watch.Ignore {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", p)
	}
	sb.WriteString("]\n")
	sb.WriteString("}\n")

	return sb.String()
}

func writeRuleTable(sb *strings.Builder, kind string, levels map[string]header.Level) {
	if len(levels) == 0 {
		fmt.Fprintf(sb, "\t// %s: {\"Tested up to\": \"optional\"}\n", kind)
		return
	}
	fmt.Fprintf(sb, "\t%s: {\n", kind)
	for _, name := range slices.Sorted(maps.Keys(levels)) {
		fmt.Fprintf(sb, "\t\t%q: %q\n", name, levels[name])
	}
	sb.WriteString("\t}\n")
}
