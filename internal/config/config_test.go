// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pwcc/wplint/internal/issue"
	"github.com/pwcc/wplint/internal/testutil"
	"github.com/pwcc/wplint/pkg/header"
	"github.com/pwcc/wplint/pkg/platform"
	"github.com/pwcc/wplint/pkg/types"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// isolated returns options that never reach the real user config directory.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{ConfigDirPath: t.TempDir()}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Readme != "readme.txt" {
		t.Errorf("Readme = %q, want readme.txt", cfg.Readme)
	}
	if cfg.PluginFile != "" {
		t.Errorf("PluginFile = %q, want auto-detect", cfg.PluginFile)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.Version.ConstantName != "PLUGIN_VERSION" {
		t.Errorf("ConstantName = %q", cfg.Version.ConstantName)
	}
	if cfg.Banner.HighRes != "1544x500" || cfg.Banner.LowRes != "772x250" {
		t.Errorf("Banner = %+v", cfg.Banner)
	}
	if cfg.Output.Format != types.FormatText {
		t.Errorf("Output.Format = %q", cfg.Output.Format)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %v", cfg.Watch.Debounce)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config is invalid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != platform.Linux {
		t.Skip("XDG lookup is Linux-only")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join(xdg, AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	SetConfigDirOverride("/override")
	defer Reset()
	if dir, _ := ConfigDir(); dir != "/override" {
		t.Errorf("ConfigDir() with override = %s", dir)
	}
}

func TestConfigDir_HomeFallback(t *testing.T) {
	if runtime.GOOS != platform.Linux {
		t.Skip("XDG lookup is Linux-only")
	}

	home := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, home))

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join(home, ".config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := NewProvider().Load(context.Background(), isolated(t))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want defaults", path)
	}
	if cfg.Readme != DefaultConfig().Readme || cfg.Concurrency != DefaultConfig().Concurrency {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Rules.Readme == nil || cfg.Rules.Plugin == nil {
		t.Error("rule maps must be non-nil")
	}
}

func TestLoad_LookupOrder(t *testing.T) {
	t.Parallel()

	userDir := t.TempDir()
	projectDir := t.TempDir()
	explicitDir := t.TempDir()

	userPath := writeConfig(t, userDir, ConfigFileName+"."+ConfigFileExt, "concurrency: 2\n")
	projectPath := writeConfig(t, projectDir, ProjectFileName, "concurrency: 3\n")
	explicitPath := writeConfig(t, explicitDir, "custom.cue", "concurrency: 5\n")

	tests := []struct {
		name     string
		opts     LoadOptions
		wantPath string
		want     int
	}{
		{"user config", LoadOptions{ConfigDirPath: userDir}, userPath, 2},
		{"project beats user", LoadOptions{ConfigDirPath: userDir, ProjectDir: projectDir}, projectPath, 3},
		{"explicit beats project", LoadOptions{ConfigDirPath: userDir, ProjectDir: projectDir, ConfigFilePath: explicitPath}, explicitPath, 5},
		{"project without file falls through", LoadOptions{ConfigDirPath: userDir, ProjectDir: explicitDir}, userPath, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, path, err := NewProvider().Load(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Load() returned error: %v", err)
			}
			if path != tt.wantPath {
				t.Errorf("path = %s, want %s", path, tt.wantPath)
			}
			if cfg.Concurrency != tt.want {
				t.Errorf("Concurrency = %d, want %d", cfg.Concurrency, tt.want)
			}
		})
	}
}

func TestLoad_FullFile(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	opts.ConfigFilePath = writeConfig(t, t.TempDir(), "wplint.cue", `
readme: "README.txt"
plugin_file: "my-plugin.php"
version: {
	canonical: "2.0.0"
}
artifacts: composer_json: ""
banner: high_res: "3088x1000"
rules: {
	readme: {"Tested up to": "optional", "Requires PHP": "optional"}
	plugin: "Update URI": "required"
}
output: {
	format: "json"
	verbose: true
}
watch: {
	debounce: "1.5s"
	ignore: ["vendor/**"]
}
`)

	cfg, _, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Readme != "README.txt" || cfg.PluginFile != "my-plugin.php" {
		t.Errorf("files = %q, %q", cfg.Readme, cfg.PluginFile)
	}
	if cfg.Version.Canonical != "2.0.0" {
		t.Errorf("Canonical = %q", cfg.Version.Canonical)
	}
	if cfg.Version.ConstantFile != "inc/namespace.php" {
		t.Errorf("unset keys must keep defaults, ConstantFile = %q", cfg.Version.ConstantFile)
	}
	if cfg.Artifacts.ComposerJSON != "" || cfg.Artifacts.PackageJSON != "package.json" {
		t.Errorf("Artifacts = %+v", cfg.Artifacts)
	}
	if cfg.Banner.HighRes != "3088x1000" || cfg.Banner.LowRes != "772x250" {
		t.Errorf("Banner = %+v", cfg.Banner)
	}
	if got := cfg.Rules.Readme["Tested up to"]; got != header.LevelOptional {
		t.Errorf("rule keys must keep their case, readme rules = %v", cfg.Rules.Readme)
	}
	if got := cfg.Rules.Plugin["Update URI"]; got != header.LevelRequired {
		t.Errorf("plugin rules = %v", cfg.Rules.Plugin)
	}
	if cfg.Output.Format != types.FormatJSON || !cfg.Output.Verbose {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Watch.Debounce != 1500*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Ignore) != 1 || cfg.Watch.Ignore[0] != "vendor/**" {
		t.Errorf("Ignore = %v", cfg.Watch.Ignore)
	}

	rules, err := cfg.HeaderRules()
	if err != nil {
		t.Fatalf("HeaderRules() returned error: %v", err)
	}
	if l, _ := rules.Readme.Level("Tested up to"); l != header.LevelOptional {
		t.Errorf("override not applied, level = %s", l)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("WPLINT_OUTPUT_FORMAT", "yaml")
	t.Setenv("WPLINT_CONCURRENCY", "8")

	cfg, _, err := NewProvider().Load(context.Background(), isolated(t))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Output.Format != types.FormatYAML {
		t.Errorf("Output.Format = %q, want yaml", cfg.Output.Format)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
}

func TestLoad_EnvOverrideInvalid(t *testing.T) {
	t.Setenv("WPLINT_OUTPUT_FORMAT", "xml")

	_, _, err := NewProvider().Load(context.Background(), isolated(t))
	if !errors.Is(err, types.ErrInvalidOutputFormat) {
		t.Fatalf("expected ErrInvalidOutputFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "validate configuration") {
		t.Errorf("error should name the operation, got: %s", err)
	}
}

func TestLoad_SchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"invalid level", `rules: readme: "Tested up to": "maybe"`, "rules"},
		{"unknown key", `colour: "blue"`, "colour"},
		{"bad format", `output: format: "xml"`, "output.format"},
		{"bad dimension", `banner: low_res: "small"`, "banner.low_res"},
		{"zero concurrency", `concurrency: 0`, "concurrency"},
		{"syntax error", `readme: "unterminated`, "wplint.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolated(t)
			opts.ConfigFilePath = writeConfig(t, t.TempDir(), "wplint.cue", tt.content)

			_, _, err := NewProvider().Load(context.Background(), opts)
			if err == nil {
				t.Fatal("expected Load() to return error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *issue.ActionableError, got %T", err)
			}
			if ae.Operation != "load configuration" || ae.Resource != opts.ConfigFilePath {
				t.Errorf("unexpected context %q %q", ae.Operation, ae.Resource)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error should mention %q, got: %s", tt.contains, err)
			}
		})
	}
}

func TestLoad_CustomPath_NotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.cue")
	_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "config file not found") || !strings.Contains(errStr, missing) {
		t.Errorf("unexpected error: %s", errStr)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("expected error to be *issue.ActionableError")
	}
	if len(ae.Suggestions) == 0 {
		t.Error("expected ActionableError to have suggestions")
	}
	if ae.Issue != issue.ConfigLoadFailedId {
		t.Errorf("Issue = %v, want ConfigLoadFailedId", ae.Issue)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewProvider().Load(ctx, isolated(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Rules.Readme["Tested up to"] = header.LevelOptional
	cfg.Watch.Ignore = []string{"node_modules/**"}

	dir := t.TempDir()
	path := writeConfig(t, dir, "wplint.cue", GenerateCUE(cfg))

	loaded, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path, ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("generated CUE does not load: %v", err)
	}
	if loaded.Rules.Readme["Tested up to"] != header.LevelOptional {
		t.Errorf("rules lost in round trip: %v", loaded.Rules.Readme)
	}
	if loaded.Watch.Debounce != cfg.Watch.Debounce {
		t.Errorf("Debounce = %v, want %v", loaded.Watch.Debounce, cfg.Watch.Debounce)
	}
	if len(loaded.Watch.Ignore) != 1 {
		t.Errorf("Ignore = %v", loaded.Watch.Ignore)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", ConfigFileName+"."+ConfigFileExt)

	written, err := CreateDefaultConfig(path)
	if err != nil || !written {
		t.Fatalf("CreateDefaultConfig() = %v, %v", written, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `readme: "readme.txt"`) {
		t.Errorf("unexpected content:\n%s", content)
	}

	written, err = CreateDefaultConfig(path)
	if err != nil || written {
		t.Errorf("second call must not overwrite: %v, %v", written, err)
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := checkFileSize(make([]byte, 10), 10, "a.cue"); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if err := checkFileSize(make([]byte, 11), 10, "a.cue"); err == nil {
		t.Error("expected error above limit")
	}
}
