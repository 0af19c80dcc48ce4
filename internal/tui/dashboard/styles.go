package dashboard

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPass   = lipgloss.Color("76")  // green
	colorFail   = lipgloss.Color("196") // bright red
	colorWarn   = lipgloss.Color("214") // orange
	colorMuted  = lipgloss.Color("242") // gray
	colorAccent = lipgloss.Color("39")  // blue
	colorWhite  = lipgloss.Color("15")
)

// Styles for the dashboard TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	failStyle = lipgloss.NewStyle().
			Foreground(colorFail)

	probeNameStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPass)

	urlStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	confirmStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarn)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)
