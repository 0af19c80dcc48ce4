package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Icons used by probe reports and the dashboard.
const (
	IconPass = "✓"
	IconFail = "✗"
	IconWarn = "!"
	TreeLast = "└─ "
)

// Semantic styles shared by the doctor report and the dashboard.
var (
	PassStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("76"))  // green
	FailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // bright red
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // orange
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242")) // gray
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

func init() {
	// Force lipgloss to honor the NO_COLOR/CLICOLOR conventions rather
	// than its own TTY sniffing, which misfires under test runners.
	if !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// RenderPassIcon returns the styled pass indicator.
func RenderPassIcon() string {
	return PassStyle.Render(IconPass)
}

// RenderFailIcon returns the styled fail indicator.
func RenderFailIcon() string {
	return FailStyle.Render(IconFail)
}

// RenderWarnIcon returns the styled warning indicator.
func RenderWarnIcon() string {
	return WarnStyle.Render(IconWarn)
}

// RenderPass renders text in the pass color.
func RenderPass(s string) string {
	return PassStyle.Render(s)
}

// RenderFail renders text in the fail color.
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders de-emphasized text.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderSeparator renders a horizontal rule sized for report output.
func RenderSeparator() string {
	return MutedStyle.Render(strings.Repeat("─", 46))
}

// WrapText wraps s at width, breaking on spaces. Words longer than the
// width are left intact on their own line.
func WrapText(s string, width int) string {
	if width <= 0 {
		return s
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(s) {
		if i > 0 {
			if lineLen+1+len(word) > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}
