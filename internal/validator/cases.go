// SPDX-License-Identifier: MPL-2.0

package validator

import (
	"fmt"
	"io/fs"

	"github.com/pwcc/wplint/pkg/assets"
	"github.com/pwcc/wplint/pkg/header"
	"github.com/pwcc/wplint/pkg/versionsync"
)

type (
	// Case is one independent, named check. Run reports skipped=true when the
	// case inspects an optional artifact that is absent.
	Case struct {
		Name  string
		Group Group
		Run   func() (skipped bool, errs []error)
	}

	// Inputs is everything the cases read. Readme and Plugin are parsed once;
	// version and asset cases read their own artifacts.
	Inputs struct {
		Readme header.Extracted
		Plugin header.Extracted

		// Canonical is the resolved canonical version. CanonicalErr, when set,
		// turns every version case into an error verdict.
		Canonical    versionsync.Canonical
		CanonicalErr error
		VersionPaths versionsync.Paths

		// Assets is the plugin directory asset folder. A nil FS has no banners.
		Assets     fs.FS
		BannerRule assets.BannerRule
	}
)

// Cases expands the rule tables into one case per table entry, in a fixed
// order: readme requirements, plugin requirements, deprecated aliases of both
// files, common headers, version checks, banner obligations.
func Cases(rules header.Rules, in Inputs) []Case {
	var cases []Case
	cases = append(cases, requirementCases(GroupReadme, rules.Readme, in.Readme)...)
	cases = append(cases, requirementCases(GroupPlugin, rules.Plugin, in.Plugin)...)
	cases = append(cases, deprecatedCases(header.FileReadme, rules.Deprecated, in.Readme)...)
	cases = append(cases, deprecatedCases(header.FilePlugin, rules.Deprecated, in.Plugin)...)
	cases = append(cases, commonCases(rules.Common, in.Plugin, in.Readme)...)
	cases = append(cases, versionCases(in)...)
	cases = append(cases, bannerCases(in.Assets, in.BannerRule)...)
	return cases
}

func requirementCases(group Group, spec header.Spec, h header.Extracted) []Case {
	file := spec.Kind()
	var cases []Case
	for _, name := range spec.WithLevel(header.LevelRequired) {
		cases = append(cases, Case{
			Name:  fmt.Sprintf("%s requires %s", file, name),
			Group: group,
			Run: func() (bool, []error) {
				return false, single(header.CheckRequiredHeader(file, name, h))
			},
		})
	}
	for _, name := range spec.WithLevel(header.LevelForbidden) {
		cases = append(cases, Case{
			Name:  fmt.Sprintf("%s forbids %s", file, name),
			Group: group,
			Run: func() (bool, []error) {
				return false, single(header.CheckForbiddenHeader(file, name, h))
			},
		})
	}
	return cases
}

func deprecatedCases(file header.FileKind, aliases []header.Alias, h header.Extracted) []Case {
	cases := make([]Case, 0, len(aliases))
	for _, alias := range aliases {
		cases = append(cases, Case{
			Name:  fmt.Sprintf("%s - %s", file, alias.Deprecated),
			Group: GroupDeprecated,
			Run: func() (bool, []error) {
				return false, single(header.CheckDeprecatedHeader(file, alias, h))
			},
		})
	}
	return cases
}

func commonCases(pairs []header.CommonPair, plugin, readme header.Extracted) []Case {
	cases := make([]Case, 0, len(pairs))
	for _, pair := range pairs {
		cases = append(cases, Case{
			Name:  pair.Name(),
			Group: GroupCommon,
			Run: func() (bool, []error) {
				return false, single(header.CheckCommonMatch(pair, plugin, readme))
			},
		})
	}
	return cases
}

func versionCases(in Inputs) []Case {
	checks := versionsync.Checks(in.Canonical.Version, in.VersionPaths)
	cases := make([]Case, 0, len(checks))
	for _, check := range checks {
		c := Case{Name: check.Name, Group: GroupVersion}
		if in.CanonicalErr != nil {
			err := in.CanonicalErr
			c.Run = func() (bool, []error) { return false, []error{err} }
		} else {
			c.Run = func() (bool, []error) {
				outcome, errs := check.Run()
				return outcome == versionsync.OutcomeSkipped, errs
			}
		}
		cases = append(cases, c)
	}
	return cases
}

func bannerCases(fsys fs.FS, rule assets.BannerRule) []Case {
	if fsys == nil {
		return nil
	}
	obligations, err := assets.Obligations(fsys, rule)
	if err != nil {
		return []Case{{
			Name:  "banner assets",
			Group: GroupAssets,
			Run:   func() (bool, []error) { return false, []error{err} },
		}}
	}
	cases := make([]Case, 0, len(obligations))
	for _, o := range obligations {
		cases = append(cases, Case{
			Name:  o.Banner,
			Group: GroupAssets,
			Run: func() (bool, []error) {
				return false, single(assets.CheckObligation(fsys, o))
			},
		})
	}
	return cases
}

func single(err error) []error {
	if err == nil {
		return nil
	}
	return []error{err}
}
