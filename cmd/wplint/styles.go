// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/pwcc/wplint/internal/report"

	"github.com/charmbracelet/lipgloss"
)

// Base styles built from the shared report palette.
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(report.ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(report.ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(report.ColorWarning)

	// CmdStyle is for command names, header names and code.
	CmdStyle = lipgloss.NewStyle().
			Foreground(report.ColorHighlight)

	// VerboseHighlightStyle is for emphasized items within progress output.
	VerboseHighlightStyle = lipgloss.NewStyle().
				Foreground(report.ColorHighlight)

	// levelStyles colors requirement levels in 'wplint rules'.
	levelStyles = map[string]lipgloss.Style{
		"required":  lipgloss.NewStyle().Foreground(report.ColorSuccess),
		"optional":  lipgloss.NewStyle().Foreground(report.ColorMuted),
		"forbidden": lipgloss.NewStyle().Foreground(report.ColorError),
	}
)
