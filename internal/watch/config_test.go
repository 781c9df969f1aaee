// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"slices"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    Config
		wantOK bool
	}{
		{name: "zero value is valid", cfg: Config{}, wantOK: true},
		{
			name: "plugin metadata patterns",
			cfg: Config{
				Patterns: []string{"readme.txt", "*.php", "inc/**/*.php", ".wordpress-org/**"},
				Ignore:   []string{"**/build/**"},
				BaseDir:  "/srv/plugins/demo",
			},
			wantOK: true,
		},
		{name: "empty pattern", cfg: Config{Patterns: []string{""}}},
		{name: "whitespace ignore", cfg: Config{Ignore: []string{"  "}}},
		{name: "unterminated class", cfg: Config{Patterns: []string{"banner-[1544"}}},
		{name: "blank base dir", cfg: Config{BaseDir: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if (err == nil) != tt.wantOK {
				t.Errorf("Validate() error = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}

func TestConfigValidate_MultipleFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Patterns: []string{"", "readme.txt", ""},
		Ignore:   []string{"[x"},
		BaseDir:  "   ",
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidWatchConfig) {
		t.Fatalf("error should wrap ErrInvalidWatchConfig, got: %v", err)
	}

	var configErr *InvalidWatchConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("error should be *InvalidWatchConfigError, got: %T", err)
	}
	// 2 empty patterns + 1 malformed ignore + 1 blank base dir
	if len(configErr.FieldErrors) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(configErr.FieldErrors), configErr.FieldErrors)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{BaseDir: t.TempDir(), Patterns: []string{"[bad"}})
	if !errors.Is(err, ErrInvalidWatchConfig) {
		t.Errorf("New() error = %v, want ErrInvalidWatchConfig", err)
	}
}

func TestPluginPatterns(t *testing.T) {
	t.Parallel()

	got := PluginPatterns(
		[]string{"readme.txt", "./demo.php", "", "inc/namespace.php", "readme.txt", "package.json"},
		[]string{".wordpress-org/", ""},
	)
	want := []string{"readme.txt", "demo.php", "inc/namespace.php", "package.json", ".wordpress-org/**"}
	if !slices.Equal(got, want) {
		t.Errorf("PluginPatterns() = %v, want %v", got, want)
	}
}
