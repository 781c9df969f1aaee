// SPDX-License-Identifier: MPL-2.0

// Package versionsync verifies that the canonical plugin version agrees with
// every manifest that declares a version.
//
// The readme Stable tag and the plugin Version header are mandatory. The npm
// package.json and package-lock.json are optional and checked only when they
// exist. composer.json, when present, must not declare a version at all because
// Packagist derives versions from VCS tags.
package versionsync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pwcc/wplint/pkg/filedata"

	"github.com/goccy/go-json"
)

const (
	// OutcomeChecked means the artifact existed and was evaluated.
	OutcomeChecked Outcome = iota
	// OutcomeSkipped means an optional artifact does not exist.
	OutcomeSkipped
)

type (
	// Outcome tells a checked artifact apart from an absent optional one.
	Outcome int

	// Paths locates the artifacts to compare. Empty optional paths are skipped.
	Paths struct {
		Readme       string
		Plugin       string
		PackageJSON  string
		PackageLock  string
		ComposerJSON string
	}

	// Check is one independent version comparison.
	Check struct {
		// Name is a human-readable label for reports.
		Name string
		// Artifact is the file the check inspects.
		Artifact string
		// Run performs the comparison. Violations are returned as errors that
		// implement violation.Violation; other errors are read or decode failures.
		Run func() (Outcome, []error)
	}

	// CanonicalSource describes where the canonical version is declared.
	CanonicalSource struct {
		// Explicit, when set, is used verbatim.
		Explicit string
		// ConstantFile is a PHP file declaring the version constant.
		ConstantFile string
		// ConstantName is the PHP constant holding the version.
		ConstantName string
		// PluginFile is the fallback: its Version header.
		PluginFile string
	}

	// Canonical is the resolved version and where it came from.
	Canonical struct {
		Version string
		Origin  string
	}

	packageJSON struct {
		Version *string `json:"version"`
	}

	packageLock struct {
		Version  *string                `json:"version"`
		Packages map[string]packageJSON `json:"packages"`
	}
)

// String returns a lowercase label for the Outcome.
func (o Outcome) String() string {
	if o == OutcomeSkipped {
		return "skipped"
	}
	return "checked"
}

// ResolveCanonical determines the canonical version: an explicit value, else the
// PHP constant in ConstantFile, else the plugin file's Version header. A missing
// constant file falls through; a constant file that exists but does not declare
// the constant is an error.
func ResolveCanonical(src CanonicalSource) (Canonical, error) {
	if src.Explicit != "" {
		return Canonical{Version: src.Explicit, Origin: "configuration"}, nil
	}

	if src.ConstantFile != "" {
		data, err := os.ReadFile(src.ConstantFile)
		switch {
		case err == nil:
			v, ok := findConstant(data, src.ConstantName)
			if !ok {
				return Canonical{}, fmt.Errorf("%s: constant %s not declared: %w", src.ConstantFile, src.ConstantName, ErrNoCanonicalVersion)
			}
			return Canonical{Version: v, Origin: src.ConstantFile + " (" + src.ConstantName + ")"}, nil
		case !errors.Is(err, os.ErrNotExist):
			return Canonical{}, fmt.Errorf("read %s: %w", src.ConstantFile, err)
		}
	}

	if src.PluginFile != "" {
		h, err := filedata.Parse(src.PluginFile, []string{"Version"})
		if err != nil {
			return Canonical{}, err
		}
		if v := h["Version"]; v != "" {
			return Canonical{Version: v, Origin: filepath.Base(src.PluginFile) + " (Version header)"}, nil
		}
	}

	return Canonical{}, ErrNoCanonicalVersion
}

func findConstant(data []byte, name string) (string, bool) {
	q := regexp.QuoteMeta(name)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?m)\bconst\s+` + q + `\s*=\s*['"]([^'"]*)['"]`),
		regexp.MustCompile(`(?m)\bdefine\(\s*['"](?:[\w\\]*\\)?` + q + `['"]\s*,\s*['"]([^'"]*)['"]`),
	}
	for _, re := range patterns {
		if m := re.FindSubmatch(data); m != nil {
			return string(m[1]), true
		}
	}
	return "", false
}

// Checks returns the version comparisons for p in a fixed order.
func Checks(canonical string, p Paths) []Check {
	return []Check{
		{
			Name:     "Stable tag matches plugin version",
			Artifact: filepath.Base(p.Readme),
			Run: func() (Outcome, []error) {
				return OutcomeChecked, single(CheckHeader(canonical, p.Readme, "Stable tag"))
			},
		},
		{
			Name:     "Version header matches plugin version",
			Artifact: filepath.Base(p.Plugin),
			Run: func() (Outcome, []error) {
				return OutcomeChecked, single(CheckHeader(canonical, p.Plugin, "Version"))
			},
		},
		{
			Name:     "package.json version matches plugin version",
			Artifact: "package.json",
			Run:      func() (Outcome, []error) { return CheckPackageJSON(canonical, p.PackageJSON) },
		},
		{
			Name:     "package-lock.json version matches plugin version",
			Artifact: "package-lock.json",
			Run:      func() (Outcome, []error) { return CheckPackageLock(canonical, p.PackageLock) },
		},
		{
			Name:     "composer.json has no version key",
			Artifact: "composer.json",
			Run: func() (Outcome, []error) {
				o, err := CheckComposer(p.ComposerJSON)
				return o, single(err)
			},
		},
	}
}

// CheckHeader compares a metadata header of a mandatory file with canonical.
func CheckHeader(canonical, path, name string) error {
	h, err := filedata.Parse(path, []string{name})
	if err != nil {
		return err
	}
	got, ok := h[name]
	if !ok || got == "" {
		return &VersionMismatchError{Artifact: filepath.Base(path), Field: name, Want: canonical, Missing: true}
	}
	if got != canonical {
		return &VersionMismatchError{Artifact: filepath.Base(path), Field: name, Want: canonical, Got: got}
	}
	return nil
}

// CheckPackageJSON compares package.json "version" with canonical.
func CheckPackageJSON(canonical, path string) (Outcome, []error) {
	var pkg packageJSON
	if ok, err := readJSON(path, &pkg); !ok {
		return OutcomeSkipped, nil
	} else if err != nil {
		return OutcomeChecked, []error{err}
	}
	return OutcomeChecked, single(compare("package.json", "version", canonical, pkg.Version))
}

// CheckPackageLock compares package-lock.json "version" and, when the root
// package entry is present, packages[""].version with canonical.
func CheckPackageLock(canonical, path string) (Outcome, []error) {
	var lock packageLock
	if ok, err := readJSON(path, &lock); !ok {
		return OutcomeSkipped, nil
	} else if err != nil {
		return OutcomeChecked, []error{err}
	}

	var errs []error
	if err := compare("package-lock.json", "version", canonical, lock.Version); err != nil {
		errs = append(errs, err)
	}
	if root, ok := lock.Packages[""]; ok {
		if err := compare("package-lock.json", `packages[""].version`, canonical, root.Version); err != nil {
			errs = append(errs, err)
		}
	}
	return OutcomeChecked, errs
}

// CheckComposer fails when composer.json declares a version key, whatever its value.
func CheckComposer(path string) (Outcome, error) {
	var doc map[string]json.RawMessage
	if ok, err := readJSON(path, &doc); !ok {
		return OutcomeSkipped, nil
	} else if err != nil {
		return OutcomeChecked, err
	}
	if raw, ok := doc["version"]; ok {
		return OutcomeChecked, &UnexpectedVersionKeyError{Artifact: "composer.json", Value: string(raw)}
	}
	return OutcomeChecked, nil
}

// readJSON decodes path into v. It reports ok=false when path is empty or the
// file does not exist.
func readJSON(path string, v any) (ok bool, err error) {
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return true, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

func compare(artifact, field, want string, got *string) error {
	if got == nil {
		return &VersionMismatchError{Artifact: artifact, Field: field, Want: want, Missing: true}
	}
	if *got != want {
		return &VersionMismatchError{Artifact: artifact, Field: field, Want: want, Got: *got}
	}
	return nil
}

func single(err error) []error {
	if err == nil {
		return nil
	}
	return []error{err}
}
