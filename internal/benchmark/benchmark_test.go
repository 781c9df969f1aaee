// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pwcc/wplint/internal/config"
	"github.com/pwcc/wplint/internal/report"
	"github.com/pwcc/wplint/internal/testutil"
	"github.com/pwcc/wplint/internal/validator"
	"github.com/pwcc/wplint/pkg/filedata"
	"github.com/pwcc/wplint/pkg/header"
	"github.com/pwcc/wplint/pkg/types"
)

// sampleConfig is a representative wplint.cue exercising every section.
const sampleConfig = `
readme: "readme.txt"
assets_dir: ".wordpress-org"
concurrency: 8

version: {
	constant_file: "inc/namespace.php"
	constant_name: "PLUGIN_VERSION"
}

banner: {
	prefix: "banner-"
	high_res: "1544x500"
	low_res: "772x250"
}

rules: {
	readme: {
		"Donate link": "required"
		"Tags": "forbidden"
	}
	plugin: {
		"Update URI": "required"
	}
}

output: format: "json"
watch: debounce: "250ms"
`

// BenchmarkConfigLoad benchmarks CUE schema compilation, unification and decoding.
func BenchmarkConfigLoad(b *testing.B) {
	dir := b.TempDir()
	path := testutil.MustWriteFile(b, dir, config.ProjectFileName, sampleConfig)
	provider := config.NewProvider()
	opts := config.LoadOptions{ConfigFilePath: path, ConfigDirPath: dir}

	b.ResetTimer()
	for b.Loop() {
		if _, _, err := provider.Load(context.Background(), opts); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

// BenchmarkHeaderExtraction benchmarks scanning a plugin file header block.
func BenchmarkHeaderExtraction(b *testing.B) {
	// Pad the file body so the scan limit is reached.
	data := []byte(testutil.DemoPluginPHP + strings.Repeat("// filler line\n", 1024))
	names := header.DefaultRules().RequestedNames(header.FilePlugin)

	b.ResetTimer()
	for b.Loop() {
		if got := filedata.ParseBytes(data, names); len(got) == 0 {
			b.Fatal("no headers extracted")
		}
	}
}

// BenchmarkValidate benchmarks the full pipeline: discovery, parsing and every check.
func BenchmarkValidate(b *testing.B) {
	dir := testutil.NewDemoPlugin(b)
	testutil.MustWriteFile(b, dir, "package.json", `{"name": "demo", "version": "1.2.0"}`)
	testutil.MustWriteFile(b, dir, "composer.json", `{"name": "pwcc/demo"}`)
	testutil.MustWriteFile(b, dir, ".wordpress-org/banner-1544x500.png", "png")
	testutil.MustWriteFile(b, dir, ".wordpress-org/banner-772x250.png", "png")

	opts, err := validator.OptionsFromConfig(dir, config.DefaultConfig())
	if err != nil {
		b.Fatalf("OptionsFromConfig failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		r, err := validator.Run(context.Background(), opts)
		if err != nil {
			b.Fatalf("Run failed: %v", err)
		}
		if r.Failed() {
			b.Fatal("demo plugin failed validation")
		}
	}
}

// BenchmarkReport benchmarks rendering a report in each output format.
func BenchmarkReport(b *testing.B) {
	opts, err := validator.OptionsFromConfig(testutil.NewDemoPlugin(b), config.DefaultConfig())
	if err != nil {
		b.Fatalf("OptionsFromConfig failed: %v", err)
	}
	r, err := validator.Run(context.Background(), opts)
	if err != nil {
		b.Fatalf("Run failed: %v", err)
	}

	for _, format := range types.OutputFormats() {
		b.Run(format.String(), func(b *testing.B) {
			for b.Loop() {
				if err := report.Write(io.Discard, r, report.Options{Format: format, Verbose: true, NoColor: true}); err != nil {
					b.Fatalf("Write failed: %v", err)
				}
			}
		})
	}
}
