// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for all CLI output, tuned for dark terminals.
const (
	// ColorPrimary is teal, for titles and section headers.
	ColorPrimary = lipgloss.Color("#00B8A9")

	// ColorMuted is gray, for descriptions and secondary text.
	ColorMuted = lipgloss.Color("#7D8590")

	// ColorSuccess is green, for completed steps and positive outcomes.
	ColorSuccess = lipgloss.Color("#3FB950")

	// ColorError is red, for failures.
	ColorError = lipgloss.Color("#F85149")

	// ColorWarning is amber, for warnings and confirmation gates.
	ColorWarning = lipgloss.Color("#D29922")

	// ColorHighlight is blue, for command text.
	ColorHighlight = lipgloss.Color("#58A6FF")
)

// Styles built from the palette, shared by every subcommand.
var (
	// TitleStyle renders headings.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle renders descriptions and de-emphasized detail.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle renders success markers.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle renders failure markers.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle renders warnings and confirm markers.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle renders command text.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)
