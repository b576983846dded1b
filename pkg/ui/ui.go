// Package ui centralizes terminal presentation: the color palette, severity
// styles, and the HTTP User-Agent string every probe sends.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/finding"
)

// Color palette. Kept small and muted so output stays readable on both
// light and dark terminals.
var (
	ColorCritical = lipgloss.Color("#FF5F87")
	ColorHigh     = lipgloss.Color("#FF8700")
	ColorMedium   = lipgloss.Color("#FFD700")
	ColorLow      = lipgloss.Color("#5FAFFF")
	ColorInfo     = lipgloss.Color("#8A8A8A")
	ColorAccent   = lipgloss.Color("#5FD7AF")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	DimStyle   = lipgloss.NewStyle().Foreground(ColorInfo)

	severityStyles = map[finding.Severity]lipgloss.Style{
		finding.Critical: lipgloss.NewStyle().Bold(true).Foreground(ColorCritical),
		finding.High:     lipgloss.NewStyle().Bold(true).Foreground(ColorHigh),
		finding.Medium:   lipgloss.NewStyle().Foreground(ColorMedium),
		finding.Low:      lipgloss.NewStyle().Foreground(ColorLow),
		finding.Info:     DimStyle,
	}
)

// SeverityStyle returns the render style for a severity, defaulting to the
// dim style for unknown values.
func SeverityStyle(s finding.Severity) lipgloss.Style {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return DimStyle
}

// RenderSeverity renders a severity label with its style.
func RenderSeverity(s finding.Severity) string {
	return SeverityStyle(s).Render(string(s))
}

// UserAgent returns the User-Agent header value for all outbound requests.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", defaults.ToolName, defaults.Version)
}

// IsTTY reports whether stdout is an interactive terminal. Color output
// and progress rendering are disabled when it is not.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColorProfile returns the detected terminal color capability.
func ColorProfile() termenv.Profile {
	if !IsTTY() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
