// SPDX-License-Identifier: MPL-2.0

// Package report renders validation reports as styled text, JSON or YAML.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pwcc/wplint/internal/validator"
	"github.com/pwcc/wplint/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Options controls rendering.
type Options struct {
	Format types.OutputFormat
	// Verbose lists passing, skipped and suppressed checks in text output.
	Verbose bool
	// NoColor disables ANSI styling in text output.
	NoColor bool
}

// Write renders r to w in the requested format.
func Write(w io.Writer, r *validator.Report, opts Options) error {
	format := opts.Format
	if format == "" {
		format = types.FormatText
	}
	if ok, errs := format.IsValid(); !ok {
		return errs[0]
	}

	switch format {
	case types.FormatJSON:
		return writeJSON(w, r)
	case types.FormatYAML:
		return writeYAML(w, r)
	default:
		return writeText(w, r, opts)
	}
}

func writeJSON(w io.Writer, r *validator.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report as JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeYAML(w io.Writer, r *validator.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report as YAML: %w", err)
	}
	return enc.Close()
}

// styles is the text palette bound to one output renderer.
type styles struct {
	title   lipgloss.Style
	group   lipgloss.Style
	muted   lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	warn    lipgloss.Style
	code    lipgloss.Style
	summary lipgloss.Style
}

func newStyles(w io.Writer, noColor bool) styles {
	re := lipgloss.NewRenderer(w)
	if noColor {
		re.SetColorProfile(termenv.Ascii)
	}
	return styles{
		title:   re.NewStyle().Bold(true).Foreground(ColorPrimary),
		group:   re.NewStyle().Bold(true).Foreground(ColorHighlight),
		muted:   re.NewStyle().Foreground(ColorMuted),
		pass:    re.NewStyle().Foreground(ColorSuccess),
		fail:    re.NewStyle().Bold(true).Foreground(ColorError),
		warn:    re.NewStyle().Foreground(ColorWarning),
		code:    re.NewStyle().Foreground(ColorVerbose),
		summary: re.NewStyle().Bold(true),
	}
}

func writeText(w io.Writer, r *validator.Report, opts Options) error {
	s := newStyles(w, opts.NoColor)
	var sb strings.Builder

	sb.WriteString(s.title.Render("wplint") + " " + s.muted.Render(r.Dir) + "\n")
	fmt.Fprintf(&sb, "%s %s\n", s.muted.Render("Plugin file:"), filepath.Base(r.PluginFile))
	if r.CanonicalVersion != "" {
		fmt.Fprintf(&sb, "%s %s %s\n", s.muted.Render("Canonical version:"), r.CanonicalVersion, s.muted.Render("from "+r.CanonicalOrigin))
	}

	for _, g := range validator.Groups() {
		var lines []string
		for _, v := range r.ByGroup(g) {
			if !opts.Verbose && !notable(v.Status) {
				continue
			}
			lines = append(lines, verdictLines(s, v)...)
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString("\n" + s.group.Render(g.String()) + "\n")
		for _, l := range lines {
			sb.WriteString(l + "\n")
		}
	}

	sb.WriteString("\n" + summaryLine(s, r.Summary) + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// notable statuses are shown without --verbose.
func notable(status validator.Status) bool {
	return status == validator.StatusFail || status == validator.StatusError
}

func verdictLines(s styles, v validator.Verdict) []string {
	var icon string
	switch v.Status {
	case validator.StatusPass:
		icon = s.pass.Render("✓")
	case validator.StatusFail:
		icon = s.fail.Render("✗")
	case validator.StatusError:
		icon = s.fail.Render("!")
	case validator.StatusSkip:
		icon = s.muted.Render("-")
	case validator.StatusSuppressed:
		icon = s.warn.Render("~")
	}

	lines := []string{fmt.Sprintf("  %s %s", icon, v.Check)}
	if v.Message != "" && v.Status != validator.StatusPass {
		lines = append(lines, "      "+s.muted.Render(v.Message))
	}
	for _, f := range v.Findings {
		tag := s.code.Render("[" + f.Code.String() + "]")
		if f.Suppressed {
			tag += " " + s.warn.Render("(baseline)")
		}
		lines = append(lines, fmt.Sprintf("      %s %s", tag, f.Message))
	}
	return lines
}

func summaryLine(s styles, sum validator.Summary) string {
	parts := []string{
		s.pass.Render(fmt.Sprintf("%d passed", sum.Passed)),
		fmt.Sprintf("%d failed", sum.Failed),
		fmt.Sprintf("%d skipped", sum.Skipped),
		fmt.Sprintf("%d errored", sum.Errored),
	}
	if sum.Failed > 0 {
		parts[1] = s.fail.Render(parts[1])
	}
	if sum.Errored > 0 {
		parts[3] = s.fail.Render(parts[3])
	}
	if sum.Suppressed > 0 {
		parts = append(parts, s.warn.Render(fmt.Sprintf("%d suppressed", sum.Suppressed)))
	}
	return s.summary.Render(fmt.Sprintf("%d checks:", sum.Total)) + " " + strings.Join(parts, ", ")
}
