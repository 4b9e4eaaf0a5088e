// Package tui renders the live request board in the terminal using the
// Charm Bubble Tea framework.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	accentColor  = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")

	fgColor     = lipgloss.Color("#CDD6F4")
	mutedColor  = lipgloss.Color("#6C7086")
	borderColor = lipgloss.Color("#45475A")
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(fgColor).
	Background(primaryColor).
	Padding(0, 2).
	MarginBottom(1)

var columnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(accentColor)

var rowStyle = lipgloss.NewStyle().
	Foreground(fgColor)

var mutedStyle = lipgloss.NewStyle().
	Foreground(mutedColor)

var errorStyle = lipgloss.NewStyle().
	Foreground(errorColor).
	Bold(true)

var helpStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	MarginTop(1)

var boardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(borderColor).
	Padding(0, 1)

var statusStyles = map[string]lipgloss.Style{
	"Pending":     lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	"In Progress": lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
	"Resolved":    lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
}

func styleStatus(label string) string {
	if style, ok := statusStyles[label]; ok {
		return style.Render(label)
	}
	return mutedStyle.Render(label)
}
