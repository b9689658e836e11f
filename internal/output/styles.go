package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. These are the single source of truth; never use inline
// lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: file paths, stage names, bundles.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "written" file status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for warnings and the "copied" file status.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for errors and the "failed" status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (paths, stage names, bundles).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (copying, compiling, archiving).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, source excerpts).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleDiagError styles the location of a compiler error.
	StyleDiagError = lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)

	// StyleDiagWarning styles the location of a compiler warning.
	StyleDiagWarning = lipgloss.NewStyle().Foreground(ColorYellow)
)

// File status constants.
const (
	StatusCopied    = "copied"
	StatusWritten   = "written"
	StatusCompiled  = "compiled"
	StatusRewritten = "rewritten"
	StatusFailed    = "failed"
)

// StatusStyle returns the lipgloss style for a file status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCopied:
		return lipgloss.NewStyle().Faint(true)
	case StatusWritten, StatusCompiled:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusRewritten:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minFileColumnWidth keeps status words aligned for typical extension paths.
const minFileColumnWidth = 40

// FormatFileLine renders a file path with a right-aligned, color-coded
// status suffix.
//
// Format: f:<path>  <status>
func FormatFileLine(path, status string) string {
	padding := minFileColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("f:") + StyleNoun.Render(path) +
		strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatUnitLine renders a compilation unit summary.
func FormatUnitLine(unit string, files int, bundle string) string {
	return fmt.Sprintf("%s %s %s %s",
		StyleAction.Render("compile"),
		StyleNoun.Render(unit),
		StyleDim.Render(fmt.Sprintf("(%d files) ->", files)),
		StyleNoun.Render(bundle))
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
