// SPDX-License-Identifier: MPL-2.0

package report

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the report renderer and the CLI.
// These colors are designed for dark terminal backgrounds with good contrast.
const (
	// ColorPrimary is purple - used for titles and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for paths, secondary text and skipped checks.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - used for passing checks.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for failing checks and errors.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for baseline-suppressed findings.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for group headings and commands.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is light gray - used for violation codes.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)
