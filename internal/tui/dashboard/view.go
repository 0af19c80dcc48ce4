package dashboard

import (
	"fmt"
	"strings"

	"github.com/watchpost/watchpost/internal/tunnel"
	"github.com/watchpost/watchpost/internal/ui"
)

// renderView renders the entire view from model state alone.
func (m *Model) renderView() string {
	var b strings.Builder

	if m.width > 0 && (m.width < ui.MinWidth || m.height < ui.MinHeight) {
		return "Terminal too small. Please resize."
	}

	b.WriteString(titleStyle.Render("watchpost"))
	b.WriteString("\n")

	// Probe lines
	for _, r := range m.snap.Results {
		if r.OK {
			b.WriteString("  " + ui.RenderPassIcon() + " " + probeNameStyle.Render(r.Description))
		} else {
			b.WriteString("  " + ui.RenderFailIcon() + " " + probeNameStyle.Render(r.Description))
			b.WriteString("  " + hintStyle.Render(fmt.Sprintf("[%s to fix]", r.FixKey)))
		}
		b.WriteString("\n")
	}

	// Tunnel line
	b.WriteString("\n")
	b.WriteString(m.renderTunnelLine())
	b.WriteString("\n")

	// Status banner
	b.WriteString("\n")
	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	// Notification, wrapped so long failure text stays on screen
	if m.noteVisible() {
		b.WriteString("\n")
		b.WriteString(noteStyle.Render(ui.WrapText(m.note.text, m.width-2)))
		b.WriteString("\n")
	}

	// Quit confirmation prompt
	if m.confirmQuit {
		b.WriteString("\n")
		b.WriteString(confirmStyle.Render("Stop the tunnel before exiting? [y/N]"))
		b.WriteString("\n")
	}

	// Help
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.View(m.keys))
	} else {
		b.WriteString(helpStyle.Render("1-7: fix  r: refresh  ?: help  q: quit"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderTunnelLine shows the public endpoint or why there is none.
func (m *Model) renderTunnelLine() string {
	switch m.tstate.Origin {
	case tunnel.OriginSelf:
		if m.capturing {
			return statusStyle.Render(fmt.Sprintf("  tunnel starting… (%d/%d)", m.attempt, captureAttempts))
		}
		if m.tstate.URL != "" {
			return "  public URL: " + urlStyle.Render(m.tstate.URL)
		}
		return statusStyle.Render("  tunnel running, URL unknown")
	case tunnel.OriginExternal:
		return "  " + ui.RenderWarnIcon() + statusStyle.Render(
			fmt.Sprintf(" tunnel running outside this session (pid %d)", m.tstate.PID))
	default:
		return statusStyle.Render("  no tunnel active")
	}
}

// renderBanner summarizes pass counts, with a go-flag when everything is up.
func (m *Model) renderBanner() string {
	if m.snap.Total() == 0 {
		return statusStyle.Render("  checking…")
	}
	counts := fmt.Sprintf("  %d/%d checks passing", m.snap.Passing(), m.snap.Total())
	if m.snap.AllOK() {
		return bannerStyle.Render(counts + "  ALL SYSTEMS GO")
	}
	if m.snap.Passing() == 0 {
		return failStyle.Render(counts)
	}
	return probeNameStyle.Render(counts)
}
