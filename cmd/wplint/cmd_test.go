// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pwcc/wplint/internal/baseline"
	"github.com/pwcc/wplint/internal/config"
	"github.com/pwcc/wplint/internal/issue"
	"github.com/pwcc/wplint/internal/testutil"
	"github.com/pwcc/wplint/pkg/types"

	"github.com/goccy/go-json"
)

const readmeTxt = testutil.DemoReadme

func newPlugin(t *testing.T) string {
	t.Helper()
	return testutil.NewDemoPlugin(t)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	testutil.MustWriteFile(t, dir, name, content)
}

// execute runs the command tree with args and an isolated user config directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app, err := NewApp(Dependencies{
		ConfigDir: t.TempDir(),
		Stdout:    &out,
		Stderr:    &errOut,
	})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}

	root := NewRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestValidate_CleanPlugin(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "validate", newPlugin(t))
	if err != nil {
		t.Fatalf("validate error: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "0 failed") {
		t.Errorf("stdout missing summary:\n%s", stdout)
	}
}

func TestValidate_VersionMismatchExitsWithFindings(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	writeFile(t, dir, "readme.txt", strings.Replace(readmeTxt, "Stable tag: 1.2.0", "Stable tag: 1.1.0", 1))

	stdout, _, err := execute(t, "validate", dir)
	if got := exitCodeFor(err); got != types.ExitFindings {
		t.Fatalf("exit code = %d, want %d (err: %v)", got, types.ExitFindings, err)
	}
	if !strings.Contains(stdout, "[version-mismatch]") {
		t.Errorf("stdout missing version-mismatch finding:\n%s", stdout)
	}
}

func TestValidate_JSONFormat(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	writeFile(t, dir, "package.json", `{"name": "demo", "version": "1.0.0"}`)

	stdout, _, err := execute(t, "validate", dir, "--format", "json")
	if exitCodeFor(err) != types.ExitFindings {
		t.Fatalf("err = %v, want findings exit", err)
	}

	var got struct {
		Summary struct {
			Failed int `json:"failed"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if got.Summary.Failed != 1 {
		t.Errorf("summary.failed = %d, want 1", got.Summary.Failed)
	}
}

func TestValidate_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "validate", newPlugin(t), "--format", "xml")
	if !errors.Is(err, types.ErrInvalidOutputFormat) {
		t.Errorf("err = %v, want ErrInvalidOutputFormat", err)
	}
	if got := exitCodeFor(err); got != types.ExitFatal {
		t.Errorf("exit code = %d, want %d", got, types.ExitFatal)
	}
}

func TestValidate_MissingPluginFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "empty")
	writeFile(t, dir, "readme.txt", readmeTxt)

	_, _, err := execute(t, "validate", dir)
	if got := exitCodeFor(err); got != types.ExitFatal {
		t.Fatalf("exit code = %d, want %d (err: %v)", got, types.ExitFatal, err)
	}
	ae, ok := issue.AsActionable(err)
	if !ok {
		t.Fatalf("err = %v, want an ActionableError", err)
	}
	if ae.Issue != issue.PluginFileNotFoundId {
		t.Errorf("issue = %d, want PluginFileNotFoundId", ae.Issue)
	}
}

func TestValidate_FailOnSkip(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "validate", newPlugin(t), "--fail-on-skip")
	if got := exitCodeFor(err); got != types.ExitFindings {
		t.Errorf("exit code = %d, want %d (err: %v)", got, types.ExitFindings, err)
	}
}

func TestBaseline_WriteThenSuppress(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	writeFile(t, dir, "composer.json", `{"name": "pwcc/demo", "version": "1.2.0"}`)

	if _, _, err := execute(t, "validate", dir); exitCodeFor(err) != types.ExitFindings {
		t.Fatalf("validate before baseline: err = %v, want findings exit", err)
	}

	stdout, _, err := execute(t, "baseline", "write", dir)
	if err != nil {
		t.Fatalf("baseline write error: %v", err)
	}
	if !strings.Contains(stdout, "Wrote 1 finding(s)") {
		t.Errorf("stdout = %q", stdout)
	}

	path := filepath.Join(dir, defaultBaselineFile)
	b, err := baseline.Load(path)
	if err != nil {
		t.Fatalf("baseline.Load() error: %v", err)
	}
	if b.Count() != 1 {
		t.Errorf("baseline entries = %d, want 1", b.Count())
	}

	stdout, _, err = execute(t, "validate", dir, "--baseline", path, "--verbose")
	if err != nil {
		t.Fatalf("validate with baseline error: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "1 suppressed") {
		t.Errorf("stdout missing suppressed count:\n%s", stdout)
	}
}

func TestValidate_InvalidBaseline(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	writeFile(t, dir, "bad.toml", "[not-a-code]\nentries = []\n")

	_, _, err := execute(t, "validate", dir, "--baseline", filepath.Join(dir, "bad.toml"))
	ae, ok := issue.AsActionable(err)
	if !ok || ae.Issue != issue.BaselineInvalidId {
		t.Errorf("err = %v, want baseline-invalid actionable error", err)
	}
}

func TestHeaders_JSON(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "headers", newPlugin(t), "--format", "json")
	if err != nil {
		t.Fatalf("headers error: %v", err)
	}

	var got extractedHeaders
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if got.PluginHdrs["Version"] != "1.2.0" {
		t.Errorf("plugin Version = %q, want 1.2.0", got.PluginHdrs["Version"])
	}
	if got.ReadmeHdrs["Stable tag"] != "1.2.0" {
		t.Errorf("readme Stable tag = %q, want 1.2.0", got.ReadmeHdrs["Stable tag"])
	}
}

func TestHeaders_Text(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "headers", newPlugin(t))
	if err != nil {
		t.Fatalf("headers error: %v", err)
	}
	for _, want := range []string{"readme.txt", "demo.php", "Contributors:", "peterwilsoncc", "Plugin Name:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestRules_AppliesOverrides(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	writeFile(t, dir, config.ProjectFileName, `rules: readme: "Donate link": "required"`+"\n")

	stdout, _, err := execute(t, "rules", dir)
	if err != nil {
		t.Fatalf("rules error: %v", err)
	}
	found := false
	for line := range strings.Lines(stdout) {
		if strings.Contains(line, "Donate link") && strings.Contains(line, "required") {
			found = true
		}
	}
	if !found {
		t.Errorf("override not shown:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Version") || !strings.Contains(stdout, "= readme Stable tag") {
		t.Errorf("stdout missing the Version/Stable tag pair:\n%s", stdout)
	}
}

func TestExplain_ListsCodes(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "explain")
	if err != nil {
		t.Fatalf("explain error: %v", err)
	}
	for _, i := range issue.Values() {
		if !strings.Contains(stdout, i.Slug()) {
			t.Errorf("listing missing %q", i.Slug())
		}
	}
}

func TestExplain_UnknownCode(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "explain", "no-such-code")
	if err == nil || !strings.Contains(err.Error(), "no-such-code") {
		t.Errorf("err = %v, want unknown code error", err)
	}
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	stdout, _, err := execute(t, "config", "init", dir)
	if err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if !strings.Contains(stdout, "Created default config file") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, config.ProjectFileName)); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	stdout, _, err = execute(t, "config", "init", dir)
	if err != nil {
		t.Fatalf("second config init error: %v", err)
	}
	if !strings.Contains(stdout, "already exists") {
		t.Errorf("stdout = %q", stdout)
	}

	// The generated file must load and validate cleanly.
	if _, _, err := execute(t, "validate", dir); err != nil {
		t.Errorf("validate with generated config error: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	stdout, _, err := execute(t, "config", "path", dir)
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if !strings.Contains(stdout, "built-in defaults") {
		t.Errorf("stdout = %q", stdout)
	}

	writeFile(t, dir, config.ProjectFileName, "concurrency: 2\n")
	stdout, _, err = execute(t, "config", "path", dir)
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if strings.TrimSpace(stdout) != filepath.Join(dir, config.ProjectFileName) {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := execute(t, "config", "show", newPlugin(t))
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if !strings.Contains(stderr, "built-in defaults") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stdout, "readme:") {
		t.Errorf("stdout is not the generated CUE:\n%s", stdout)
	}
}

func TestWatchPatterns(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	app, err := NewApp(Dependencies{ConfigDir: t.TempDir(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	run, err := prepareValidate(context.Background(), app, &rootFlagValues{}, &validateFlagValues{}, dir)
	if err != nil {
		t.Fatalf("prepareValidate() error: %v", err)
	}

	got := watchPatterns(run)
	for _, want := range []string{"readme.txt", "demo.php", "inc/namespace.php", "package.json", "composer.json", "wplint.cue", ".wordpress-org/**"} {
		found := false
		for _, p := range got {
			if p == want {
				found = true
			}
		}
		if !found {
			t.Errorf("watchPatterns() = %v, missing %q", got, want)
		}
	}
}

func TestWatchPatterns_Baseline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
		flag   string
		want   string
	}{
		{"from config", `baseline: "ci/accepted.toml"` + "\n", "", "ci/accepted.toml"},
		{"from flag", "", "accepted.toml", "accepted.toml"},
		{"flag wins over config", `baseline: "ci/accepted.toml"` + "\n", "flag.toml", "flag.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := newPlugin(t)
			if tt.config != "" {
				writeFile(t, dir, config.ProjectFileName, tt.config)
			}
			vflags := &validateFlagValues{}
			if tt.flag != "" {
				vflags.baselinePath = filepath.Join(dir, tt.flag)
			}
			app, err := NewApp(Dependencies{ConfigDir: t.TempDir(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
			if err != nil {
				t.Fatal(err)
			}
			run, err := prepareValidate(context.Background(), app, &rootFlagValues{}, vflags, dir)
			if err != nil {
				t.Fatalf("prepareValidate() error: %v", err)
			}

			if got := watchPatterns(run); !slices.Contains(got, tt.want) {
				t.Errorf("watchPatterns() = %v, missing %q", got, tt.want)
			}
		})
	}
}

func TestWatchChangeHandler_ReloadsConfig(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	var out, errOut bytes.Buffer
	app, err := NewApp(Dependencies{ConfigDir: t.TempDir(), Stdout: &out, Stderr: &errOut})
	if err != nil {
		t.Fatal(err)
	}
	onChange := watchChangeHandler(app, &rootFlagValues{}, &validateFlagValues{}, dir)

	if err := onChange(context.Background(), []string{"readme.txt"}); err != nil {
		t.Fatalf("first change: %v", err)
	}
	if strings.Contains(out.String(), "[missing-header]") || strings.Contains(errOut.String(), "validation failed") {
		t.Fatalf("default rules should pass the demo plugin:\n%s\n%s", out.String(), errOut.String())
	}

	out.Reset()
	errOut.Reset()
	writeFile(t, dir, config.ProjectFileName, `rules: readme: "Donate link": "required"`+"\n")
	if err := onChange(context.Background(), []string{config.ProjectFileName}); err != nil {
		t.Fatalf("second change: %v", err)
	}
	if !strings.Contains(out.String(), "[missing-header]") || !strings.Contains(out.String(), "Donate link") {
		t.Errorf("edited rules not applied:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "validation failed") {
		t.Errorf("stderr = %q, want the failure reported", errOut.String())
	}
}

func TestWatchChangeHandler_ReloadsBaseline(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	writeFile(t, dir, "composer.json", `{"name": "pwcc/demo", "version": "1.2.0"}`)
	path := filepath.Join(dir, defaultBaselineFile)

	var out, errOut bytes.Buffer
	app, err := NewApp(Dependencies{ConfigDir: t.TempDir(), Stdout: &out, Stderr: &errOut})
	if err != nil {
		t.Fatal(err)
	}
	onChange := watchChangeHandler(app, &rootFlagValues{}, &validateFlagValues{baselinePath: path}, dir)

	if err := onChange(context.Background(), []string{"composer.json"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut.String(), "validation failed") {
		t.Fatalf("stderr = %q, want a failure before the baseline exists", errOut.String())
	}

	if _, _, err := execute(t, "baseline", "write", dir); err != nil {
		t.Fatalf("baseline write error: %v", err)
	}
	out.Reset()
	errOut.Reset()
	if err := onChange(context.Background(), []string{defaultBaselineFile}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(errOut.String(), "validation failed") {
		t.Errorf("stderr = %q, want the new baseline applied", errOut.String())
	}
	if !strings.Contains(out.String(), "1 suppressed") {
		t.Errorf("stdout missing suppressed count:\n%s", out.String())
	}
}

func TestWatchChangeHandler_ConfigErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	dir := newPlugin(t)
	var out, errOut bytes.Buffer
	app, err := NewApp(Dependencies{ConfigDir: t.TempDir(), Stdout: &out, Stderr: &errOut})
	if err != nil {
		t.Fatal(err)
	}
	onChange := watchChangeHandler(app, &rootFlagValues{}, &validateFlagValues{}, dir)

	writeFile(t, dir, config.ProjectFileName, "rules: {\n")
	if err := onChange(context.Background(), []string{config.ProjectFileName}); err != nil {
		t.Fatalf("a broken config must not stop watching: %v", err)
	}
	if !strings.Contains(errOut.String(), "!") || out.Len() != 0 {
		t.Errorf("stdout = %q, stderr = %q, want only a reported error", out.String(), errOut.String())
	}

	out.Reset()
	errOut.Reset()
	writeFile(t, dir, config.ProjectFileName, "concurrency: 2\n")
	if err := onChange(context.Background(), []string{config.ProjectFileName}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(errOut.String(), "!") {
		t.Errorf("stderr = %q after the config was fixed", errOut.String())
	}
}
