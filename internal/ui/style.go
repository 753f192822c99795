package ui

import "github.com/charmbracelet/lipgloss"

// Colors for Badge.
const (
	ColorGreen  = "2"
	ColorYellow = "3"
	ColorRed    = "1"
	ColorGray   = "8"
)

// Badge renders text in color when stdout supports ANSI output.
func Badge(text, color string) string {
	if text == "" || !ansiEnabled() {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// Header renders a bold heading when stdout supports ANSI output.
func Header(text string) string {
	if !ansiEnabled() {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}
