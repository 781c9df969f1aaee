// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/pwcc/wplint/pkg/violation"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	MissingHeaderId Id = iota + 1
	EmptyHeaderId
	ForbiddenHeaderId
	DeprecatedHeaderId
	HeaderMismatchId
	VersionMismatchId
	UnexpectedVersionKeyId
	MissingLowResAssetId
	PluginFileNotFoundId
	MandatoryFileUnreadableId
	NoCanonicalVersionId
	ConfigLoadFailedId
	BaselineInvalidId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id             // ID used to lookup the issue
		slug     string         // name accepted by 'wplint explain'
		code     violation.Code // rule the issue documents, empty for operational issues
		mdMsg    MarkdownMsg    // Markdown text that will be rendered
		docLinks []HttpLink     // upstream documentation for the rule
		extLinks []HttpLink     // external links that might be useful for the user
	}
)

const (
	headersDoc  HttpLink = "https://developer.wordpress.org/plugins/plugin-basics/header-requirements/"
	readmeDoc   HttpLink = "https://developer.wordpress.org/plugins/wordpress-org/how-your-readme-txt-works/"
	assetsDoc   HttpLink = "https://developer.wordpress.org/plugins/wordpress-org/plugin-assets/"
	composerDoc HttpLink = "https://getcomposer.org/doc/04-schema.md#version"
)

func (i *Issue) Id() Id {
	return i.id
}

// Slug returns the name 'wplint explain' accepts for the issue.
func (i *Issue) Slug() string {
	return i.slug
}

// Code returns the violation code the issue documents, or "" for issues
// about the run itself.
func (i *Issue) Code() violation.Code {
	return i.code
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue with the glamour style at stylePath ("dark",
// "light", "notty", "auto", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	missingHeaderIssue = &Issue{
		id:   MissingHeaderId,
		slug: string(violation.CodeMissingHeader),
		code: violation.CodeMissingHeader,
		mdMsg: `
# Required header is missing

A header marked **required** for this file kind was not found in the file's
metadata block.

## Things you can try
- Add the header as a ` + "`Name: value`" + ` line:
~~~
Requires PHP: 8.0
~~~
- For the plugin file, headers live in the first PHP docblock.
- For readme.txt, headers follow the ` + "`=== Plugin Name ===`" + ` title line.
- Run ` + "`wplint rules`" + ` to see every required header.`,
		docLinks: []HttpLink{headersDoc, readmeDoc},
	}

	emptyHeaderIssue = &Issue{
		id:   EmptyHeaderId,
		slug: string(violation.CodeEmptyHeader),
		code: violation.CodeEmptyHeader,
		mdMsg: `
# Required header is empty

The header is declared but carries no value. WordPress ignores blank headers,
so the plugin directory treats it as missing.

## Things you can try
- Fill in the value, or remove the line and add it back with content.
- Check for a stray ` + "`*/`" + ` or ` + "`?>`" + ` on the same line; both end the value.`,
		docLinks: []HttpLink{headersDoc},
	}

	forbiddenHeaderIssue = &Issue{
		id:   ForbiddenHeaderId,
		slug: string(violation.CodeForbiddenHeader),
		code: violation.CodeForbiddenHeader,
		mdMsg: `
# Header belongs in the other file

The header is **forbidden** for this file kind: it is read from the other
metadata file and a copy here is either ignored or conflicts with it.

## Typical moves
| Header | Belongs in |
|---|---|
| Version, Requires at least, Requires PHP, Author | plugin file |
| Stable tag, Tested up to, Contributors, Tags | readme.txt |

## Things you can try
- Move the header to the file that owns it.
- If your project deliberately keeps it, relax the rule in wplint.cue:
~~~cue
rules: readme: "Requires PHP": "optional"
~~~`,
		docLinks: []HttpLink{headersDoc, readmeDoc},
	}

	deprecatedHeaderIssue = &Issue{
		id:   DeprecatedHeaderId,
		slug: string(violation.CodeDeprecatedHeader),
		code: violation.CodeDeprecatedHeader,
		mdMsg: `
# Deprecated header name

The header uses a retired name. It is reported even when the modern name is
also present.

| Deprecated | Use instead |
|---|---|
| Tested | Tested up to |
| Requires | Requires at least |

## Things you can try
- Rename the header, or delete it if the modern name is already declared.`,
		docLinks: []HttpLink{readmeDoc},
	}

	headerMismatchIssue = &Issue{
		id:   HeaderMismatchId,
		slug: string(violation.CodeHeaderMismatch),
		code: violation.CodeHeaderMismatch,
		mdMsg: `
# Header values disagree between files

A header declared in both the plugin file and readme.txt has different values.
The comparison is exact: case and whitespace differences count. The plugin
` + "`Version`" + ` is compared with the readme ` + "`Stable tag`" + `.

## Things you can try
- Copy the value from the file you consider authoritative.
- Headers declared in only one file are not compared.`,
		docLinks: []HttpLink{headersDoc, readmeDoc},
	}

	versionMismatchIssue = &Issue{
		id:   VersionMismatchId,
		slug: string(violation.CodeVersionMismatch),
		code: violation.CodeVersionMismatch,
		mdMsg: `
# Version is out of sync

An artifact declares a version different from the canonical plugin version.
The canonical version comes from, in order: ` + "`version.canonical`" + ` in
wplint.cue, the PHP constant in ` + "`version.constant_file`" + `, or the plugin
file's ` + "`Version`" + ` header.

## Things you can try
- Bump every artifact together: readme Stable tag, plugin Version,
  package.json and package-lock.json.
- Regenerate the lockfile after editing package.json:
~~~
$ npm install --package-lock-only
~~~`,
		docLinks: []HttpLink{readmeDoc},
	}

	unexpectedVersionKeyIssue = &Issue{
		id:   UnexpectedVersionKeyId,
		slug: string(violation.CodeUnexpectedVersionKey),
		code: violation.CodeUnexpectedVersionKey,
		mdMsg: `
# composer.json pins a version

Packagist infers package versions from VCS tags. A ` + "`version`" + ` key in
composer.json overrides the tag and drifts out of date on the next release.

## Things you can try
- Remove the ` + "`version`" + ` key and tag releases instead:
~~~
$ git tag 1.2.0 && git push --tags
~~~`,
		docLinks: []HttpLink{composerDoc},
	}

	missingLowResAssetIssue = &Issue{
		id:   MissingLowResAssetId,
		slug: string(violation.CodeMissingLowResAsset),
		code: violation.CodeMissingLowResAsset,
		mdMsg: `
# High resolution banner without a low resolution partner

The plugin directory only shows a retina banner (` + "`banner-1544x500.*`" + `)
when the standard banner with the same base name (` + "`banner-772x250.*`" + `)
exists too. Any image extension satisfies the pairing.

## Things you can try
- Export a 772x250 version of the banner next to the retina one.
- RTL variants pair separately: ` + "`banner-1544x500-rtl.png`" + ` needs
  ` + "`banner-772x250-rtl.*`" + `.`,
		docLinks: []HttpLink{assetsDoc},
	}

	pluginFileNotFoundIssue = &Issue{
		id:   PluginFileNotFoundId,
		slug: "plugin-file-not-found",
		mdMsg: `
# Plugin file not found

wplint looks for the main plugin file as ` + "`<directory name>.php`" + `, then
` + "`plugin.php`" + `.

## Things you can try
- Run wplint from, or point it at, the plugin root directory.
- Name the file explicitly in wplint.cue:
~~~cue
plugin_file: "my-plugin.php"
~~~`,
		docLinks: []HttpLink{headersDoc},
	}

	mandatoryFileUnreadableIssue = &Issue{
		id:   MandatoryFileUnreadableId,
		slug: "mandatory-file-unreadable",
		mdMsg: `
# A mandatory metadata file could not be read

readme.txt and the main plugin file are required for every check. Without
them there is nothing to validate, so the run stops.

## Things you can try
- Check the file exists and is readable.
- Override the readme name with ` + "`readme:`" + ` in wplint.cue if it differs.`,
		docLinks: []HttpLink{readmeDoc},
	}

	noCanonicalVersionIssue = &Issue{
		id:   NoCanonicalVersionId,
		slug: "no-canonical-version",
		mdMsg: `
# No canonical plugin version

None of the version sources produced a value, so the version checks cannot
run.

## Things you can try
- Declare the constant in the configured file:
~~~php
const PLUGIN_VERSION = '1.2.0';
~~~
- Or set it explicitly:
~~~cue
version: canonical: "1.2.0"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		slug: "config-load-failed",
		mdMsg: `
# Failed to load configuration

The configuration file has invalid CUE syntax or values outside the schema.

## Things you can try
- Print the defaults as a starting point:
~~~
$ wplint config show
~~~
- Check which file is being loaded:
~~~
$ wplint config path
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	baselineInvalidIssue = &Issue{
		id:   BaselineInvalidId,
		slug: "baseline-invalid",
		mdMsg: `
# Baseline file is invalid

The baseline must be TOML with one table per violation code.

## Things you can try
- Regenerate it from the current findings:
~~~
$ wplint baseline write
~~~`,
		extLinks: []HttpLink{"https://toml.io/en/v1.0.0"},
	}

	issues = map[Id]*Issue{
		missingHeaderIssue.Id():           missingHeaderIssue,
		emptyHeaderIssue.Id():             emptyHeaderIssue,
		forbiddenHeaderIssue.Id():         forbiddenHeaderIssue,
		deprecatedHeaderIssue.Id():        deprecatedHeaderIssue,
		headerMismatchIssue.Id():          headerMismatchIssue,
		versionMismatchIssue.Id():         versionMismatchIssue,
		unexpectedVersionKeyIssue.Id():    unexpectedVersionKeyIssue,
		missingLowResAssetIssue.Id():      missingLowResAssetIssue,
		pluginFileNotFoundIssue.Id():      pluginFileNotFoundIssue,
		mandatoryFileUnreadableIssue.Id(): mandatoryFileUnreadableIssue,
		noCanonicalVersionIssue.Id():      noCanonicalVersionIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		baselineInvalidIssue.Id():         baselineInvalidIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForCode returns the issue documenting a violation code.
func ForCode(code violation.Code) *Issue {
	for _, i := range issues {
		if i.code == code && code != "" {
			return i
		}
	}
	return nil
}

// Lookup finds an issue by slug, case-insensitively.
func Lookup(slug string) *Issue {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, i := range issues {
		if i.slug == slug {
			return i
		}
	}
	return nil
}
