// SPDX-License-Identifier: MPL-2.0

// Package assets checks the plugin directory assets for banner pairing.
//
// The plugin directory only accepts a high-resolution (retina) banner when a
// low-resolution banner with the same base name is also present. Any file
// extension satisfies the pairing, so banner-772x250.png and banner-772x250.jpg
// are both valid partners for banner-1544x500.png.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pwcc/wplint/pkg/violation"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrMissingLowResAsset is the sentinel error wrapped by MissingLowResAssetError.
var ErrMissingLowResAsset = errors.New("missing low resolution asset")

type (
	// BannerRule configures banner discovery.
	BannerRule struct {
		// Prefix starts every banner file name (e.g. "banner-").
		Prefix string
		// HighRes is the dimension token of retina banners (e.g. "1544x500").
		HighRes string
		// LowRes is the dimension token of standard banners (e.g. "772x250").
		LowRes string
	}

	// Obligation is a high-resolution banner that needs a low-resolution partner.
	Obligation struct {
		// Banner is the high-resolution file name.
		Banner string
		// LowResPrefix is the file name prefix a partner must start with.
		LowResPrefix string
	}

	// MissingLowResAssetError reports a high-resolution banner without a partner.
	MissingLowResAssetError struct {
		Banner       string
		LowResPrefix string
	}
)

// DefaultBannerRule returns the plugin directory banner dimensions.
func DefaultBannerRule() BannerRule {
	return BannerRule{Prefix: "banner-", HighRes: "1544x500", LowRes: "772x250"}
}

// Error implements the error interface.
func (e *MissingLowResAssetError) Error() string {
	return fmt.Sprintf("low resolution banner file for '%s' does not exist (expected %s*)", e.Banner, e.LowResPrefix)
}

// Unwrap returns ErrMissingLowResAsset for errors.Is() compatibility.
func (e *MissingLowResAssetError) Unwrap() error { return ErrMissingLowResAsset }

// Code implements violation.Violation.
func (e *MissingLowResAssetError) Code() violation.Code { return violation.CodeMissingLowResAsset }

// Subject implements violation.Violation.
func (e *MissingLowResAssetError) Subject() string { return e.Banner }

// Obligations lists the high-resolution banners in the root of fsys, sorted by
// name. A missing or empty directory yields no obligations.
func Obligations(fsys fs.FS, rule BannerRule) ([]Obligation, error) {
	highPrefix := rule.Prefix + rule.HighRes
	matches, err := doublestar.Glob(fsys, escape(highPrefix)+"*", doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan banners: %w", err)
	}
	slices.Sort(matches)

	obligations := make([]Obligation, 0, len(matches))
	for _, name := range matches {
		base := strings.TrimSuffix(name, path.Ext(name)) + "."
		obligations = append(obligations, Obligation{
			Banner:       name,
			LowResPrefix: strings.Replace(base, rule.HighRes, rule.LowRes, 1),
		})
	}
	return obligations, nil
}

// CheckObligation fails when no entry in the root of fsys starts with the
// obligation's low-resolution prefix.
func CheckObligation(fsys fs.FS, o Obligation) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("list assets: %w", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), o.LowResPrefix) {
			return nil
		}
	}
	return &MissingLowResAssetError{Banner: o.Banner, LowResPrefix: o.LowResPrefix}
}

// CheckBanners evaluates every obligation in fsys.
func CheckBanners(fsys fs.FS, rule BannerRule) ([]Obligation, []error) {
	obligations, err := Obligations(fsys, rule)
	if err != nil {
		return nil, []error{err}
	}
	var errs []error
	for _, o := range obligations {
		if err := CheckObligation(fsys, o); err != nil {
			errs = append(errs, err)
		}
	}
	return obligations, errs
}

// escape quotes glob metacharacters so the prefix matches literally.
func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
