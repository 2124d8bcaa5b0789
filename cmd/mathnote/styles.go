package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette: chalkboard greens with a chalk-white accent.
var (
	colorChalk   = lipgloss.Color("#F2F0E6")
	colorBoard   = lipgloss.Color("#3E8E6A")
	colorLeaf    = lipgloss.Color("#6CC49A")
	colorSlate   = lipgloss.Color("#5B6B66")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
)

var styles = struct {
	Title   lipgloss.Style
	Active  lipgloss.Style
	ID      lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Note    lipgloss.Style
	Key     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorLeaf),
	Active:  lipgloss.NewStyle().Bold(true).Foreground(colorChalk),
	ID:      lipgloss.NewStyle().Foreground(colorBoard),
	Muted:   lipgloss.NewStyle().Foreground(colorSlate),
	Success: lipgloss.NewStyle().Foreground(colorLeaf),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Note: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBoard).
		Padding(0, 1),
	Key: lipgloss.NewStyle().Foreground(colorChalk).Bold(true).Width(12),
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styles.Success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styles.Warning.Render("⚠")+" "+fmt.Sprintf(format, args...))
}
