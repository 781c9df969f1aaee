// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pwcc/wplint/pkg/header"
	"github.com/pwcc/wplint/pkg/types"
)

var (
	// ErrInvalidDimension is the sentinel error wrapped by InvalidDimensionError.
	ErrInvalidDimension = errors.New("invalid banner dimension")
	// ErrInvalidConcurrency is the sentinel error wrapped by InvalidConcurrencyError.
	ErrInvalidConcurrency = errors.New("invalid concurrency")
	// ErrInvalidBannerConfig is the sentinel error wrapped by InvalidBannerConfigError.
	ErrInvalidBannerConfig = errors.New("invalid banner config")
	// ErrInvalidRulesConfig is the sentinel error wrapped by InvalidRulesConfigError.
	ErrInvalidRulesConfig = errors.New("invalid rules config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	dimensionPattern = regexp.MustCompile(`^[0-9]+x[0-9]+$`)
)

type (
	// Dimension is a banner pixel-size token such as "1544x500".
	Dimension string

	// InvalidDimensionError is returned when a Dimension is not WIDTHxHEIGHT.
	InvalidDimensionError struct {
		Value Dimension
	}

	// InvalidConcurrencyError is returned when the worker limit is not positive.
	InvalidConcurrencyError struct {
		Value int
	}

	// InvalidBannerConfigError collects field errors of a BannerConfig.
	InvalidBannerConfigError struct {
		FieldErrors []error
	}

	// InvalidRulesConfigError collects field errors of a RulesConfig.
	InvalidRulesConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Readme is the readme file name relative to the plugin directory.
		Readme string `json:"readme" mapstructure:"readme"`
		// PluginFile is the main plugin file name. Empty means auto-detect:
		// <directory name>.php, falling back to plugin.php.
		PluginFile string `json:"plugin_file" mapstructure:"plugin_file"`
		// AssetsDir holds the plugin directory assets (banners, icons).
		AssetsDir string `json:"assets_dir" mapstructure:"assets_dir"`
		// Concurrency bounds how many checks run at once.
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		// Baseline is the accepted-findings TOML file. Empty disables it.
		Baseline string `json:"baseline" mapstructure:"baseline"`
		// Version locates the canonical plugin version.
		Version VersionConfig `json:"version" mapstructure:"version"`
		// Artifacts names the optional package descriptors.
		Artifacts ArtifactsConfig `json:"artifacts" mapstructure:"artifacts"`
		// Banner configures banner pairing.
		Banner BannerConfig `json:"banner" mapstructure:"banner"`
		// Rules overrides header requirement levels.
		Rules RulesConfig `json:"rules" mapstructure:"-"`
		// Output configures report rendering.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// Watch configures validate --watch.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// VersionConfig locates the canonical plugin version.
	VersionConfig struct {
		// Canonical, when set, is used verbatim.
		Canonical string `json:"canonical" mapstructure:"canonical"`
		// ConstantFile is the PHP file declaring the version constant.
		ConstantFile string `json:"constant_file" mapstructure:"constant_file"`
		// ConstantName is the PHP constant name.
		ConstantName string `json:"constant_name" mapstructure:"constant_name"`
	}

	// ArtifactsConfig names the optional package descriptors. An empty name
	// disables the corresponding check.
	ArtifactsConfig struct {
		PackageJSON  string `json:"package_json" mapstructure:"package_json"`
		PackageLock  string `json:"package_lock" mapstructure:"package_lock"`
		ComposerJSON string `json:"composer_json" mapstructure:"composer_json"`
	}

	// BannerConfig configures banner discovery.
	BannerConfig struct {
		Prefix  string    `json:"prefix" mapstructure:"prefix"`
		HighRes Dimension `json:"high_res" mapstructure:"high_res"`
		LowRes  Dimension `json:"low_res" mapstructure:"low_res"`
	}

	// RulesConfig overrides header levels per file kind. Keys are header names,
	// matched exactly.
	RulesConfig struct {
		Readme map[string]header.Level `json:"readme"`
		Plugin map[string]header.Level `json:"plugin"`
	}

	// OutputConfig configures report rendering.
	OutputConfig struct {
		// Format selects text, json, or yaml.
		Format types.OutputFormat `json:"format" mapstructure:"format"`
		// Verbose also lists passing and skipped checks.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures validate --watch.
	WatchConfig struct {
		// Debounce is the quiet period before re-running validation.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore lists extra doublestar patterns to ignore.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}
)

// String returns the string representation of the Dimension.
func (d Dimension) String() string { return string(d) }

// IsValid returns whether the Dimension has the WIDTHxHEIGHT form.
func (d Dimension) IsValid() (bool, []error) {
	if !dimensionPattern.MatchString(string(d)) {
		return false, []error{&InvalidDimensionError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDimensionError.
func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid banner dimension %q (expected WIDTHxHEIGHT, e.g. 1544x500)", e.Value)
}

// Unwrap returns ErrInvalidDimension for errors.Is() compatibility.
func (e *InvalidDimensionError) Unwrap() error { return ErrInvalidDimension }

// Error implements the error interface for InvalidConcurrencyError.
func (e *InvalidConcurrencyError) Error() string {
	return fmt.Sprintf("invalid concurrency %d (must be at least 1)", e.Value)
}

// Unwrap returns ErrInvalidConcurrency for errors.Is() compatibility.
func (e *InvalidConcurrencyError) Unwrap() error { return ErrInvalidConcurrency }

// IsValid returns whether the BannerConfig has valid fields.
func (c BannerConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Prefix) == "" {
		errs = append(errs, fmt.Errorf("banner prefix must be non-empty: %w", ErrInvalidBannerConfig))
	}
	if valid, fieldErrs := c.HighRes.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.LowRes.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidBannerConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBannerConfigError.
func (e *InvalidBannerConfigError) Error() string {
	return fmt.Sprintf("invalid banner config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidBannerConfig and the field errors for errors.Is() compatibility.
func (e *InvalidBannerConfigError) Unwrap() []error {
	return append([]error{ErrInvalidBannerConfig}, e.FieldErrors...)
}

// IsValid returns whether every override level is valid.
func (c RulesConfig) IsValid() (bool, []error) {
	var errs []error
	for kind, levels := range map[header.FileKind]map[string]header.Level{
		header.FileReadme: c.Readme,
		header.FilePlugin: c.Plugin,
	} {
		for name, level := range levels {
			if strings.TrimSpace(name) == "" {
				errs = append(errs, fmt.Errorf("%s rule with empty header name", kind))
				continue
			}
			if valid, fieldErrs := level.IsValid(); !valid {
				errs = append(errs, fmt.Errorf("%s rule %q: %w", kind, name, fieldErrs[0]))
			}
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidRulesConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRulesConfigError.
func (e *InvalidRulesConfigError) Error() string {
	return fmt.Sprintf("invalid rules config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidRulesConfig and the field errors for errors.Is() compatibility.
func (e *InvalidRulesConfigError) Unwrap() []error {
	return append([]error{ErrInvalidRulesConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
// It delegates to the sub-configs that carry value types.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Readme) == "" {
		errs = append(errs, fmt.Errorf("readme must be non-empty: %w", ErrInvalidConfig))
	}
	if c.Concurrency < 1 {
		errs = append(errs, &InvalidConcurrencyError{Value: c.Concurrency})
	}
	if valid, fieldErrs := c.Banner.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Rules.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Output.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Readme:      "readme.txt",
		PluginFile:  "", // <directory name>.php, then plugin.php
		AssetsDir:   ".wordpress-org",
		Concurrency: 4,
		Baseline:    "",
		Version: VersionConfig{
			ConstantFile: "inc/namespace.php",
			ConstantName: "PLUGIN_VERSION",
		},
		Artifacts: ArtifactsConfig{
			PackageJSON:  "package.json",
			PackageLock:  "package-lock.json",
			ComposerJSON: "composer.json",
		},
		Banner: BannerConfig{
			Prefix:  "banner-",
			HighRes: "1544x500",
			LowRes:  "772x250",
		},
		Rules: RulesConfig{
			Readme: map[string]header.Level{},
			Plugin: map[string]header.Level{},
		},
		Output: OutputConfig{
			Format:  types.FormatText,
			Verbose: false,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
			Ignore:   []string{},
		},
	}
}

// HeaderRules applies the configured overrides to the default rule tables.
func (c Config) HeaderRules() (header.Rules, error) {
	return header.DefaultRules().WithOverrides(c.Rules.Readme, c.Rules.Plugin)
}
