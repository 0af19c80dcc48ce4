package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/watchpost/watchpost/internal/tunnel"
	"github.com/watchpost/watchpost/internal/ui"
)

func TestViewShowsFixHintsForFailingProbes(t *testing.T) {
	m := testModel(&fakeTunnel{}, &fakeActions{})
	m.snap = registryWith(7, 2).RunAll(context.Background())

	out := m.View()
	if !strings.Contains(out, "2/7 checks passing") {
		t.Errorf("missing pass count in:\n%s", out)
	}
	if strings.Contains(out, "ALL SYSTEMS GO") {
		t.Error("go-banner must not show with failing checks")
	}
	// First failing probe is #3; its fix hint must be present.
	if !strings.Contains(out, "[3 to fix]") {
		t.Errorf("missing fix hint in:\n%s", out)
	}
	// Passing probes carry no hint.
	if strings.Contains(out, "[1 to fix]") {
		t.Error("passing probe must not show a fix hint")
	}
}

func TestViewAllSystemsGo(t *testing.T) {
	m := testModel(&fakeTunnel{}, &fakeActions{})
	m.snap = registryWith(7, 7).RunAll(context.Background())

	out := m.View()
	if !strings.Contains(out, "7/7 checks passing") || !strings.Contains(out, "ALL SYSTEMS GO") {
		t.Errorf("missing go-banner in:\n%s", out)
	}
}

func TestViewTunnelStates(t *testing.T) {
	tests := []struct {
		name  string
		state tunnel.State
		want  string
	}{
		{
			"self-managed with URL",
			tunnel.State{Origin: tunnel.OriginSelf, PID: 42, URL: "https://blue-fox.trycloudflare.com"},
			"https://blue-fox.trycloudflare.com",
		},
		{
			"external",
			tunnel.State{Origin: tunnel.OriginExternal, PID: 99},
			ui.IconWarn + " tunnel running outside this session (pid 99)",
		},
		{"none", tunnel.State{Origin: tunnel.OriginNone}, "no tunnel active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(&fakeTunnel{}, &fakeActions{})
			m.tstate = tt.state

			out := m.View()
			if !strings.Contains(out, tt.want) {
				t.Errorf("want %q in:\n%s", tt.want, out)
			}
		})
	}
}

func TestViewCaptureProgress(t *testing.T) {
	m := testModel(&fakeTunnel{}, &fakeActions{})
	m.tstate = tunnel.State{Origin: tunnel.OriginSelf, PID: 42}
	m.capturing = true
	m.attempt = 4

	out := m.View()
	if !strings.Contains(out, "(4/15)") {
		t.Errorf("missing capture progress in:\n%s", out)
	}
}

func TestViewNotificationLifecycle(t *testing.T) {
	m := testModel(&fakeTunnel{}, &fakeActions{})
	base := time.Now()
	m.now = func() time.Time { return base }

	m.setNote("model loaded")
	if !strings.Contains(m.View(), "model loaded") {
		t.Error("fresh notification should render")
	}

	base = base.Add(noteTTL + time.Second)
	if strings.Contains(m.View(), "model loaded") {
		t.Error("expired notification must not render")
	}
}

func TestViewWrapsLongNotification(t *testing.T) {
	m := testModel(&fakeTunnel{}, &fakeActions{})
	m.setNote(strings.TrimSpace(strings.Repeat("wrapword ", 30)))

	noteLines := 0
	for _, line := range strings.Split(m.View(), "\n") {
		if strings.Contains(line, "wrapword") {
			noteLines++
		}
	}
	if noteLines < 2 {
		t.Errorf("long notification should wrap onto multiple lines, got %d", noteLines)
	}
}

func TestViewQuitPrompt(t *testing.T) {
	m := testModel(&fakeTunnel{self: true}, &fakeActions{})
	m.Update(keyMsg("q"))

	out := m.View()
	if !strings.Contains(out, "[y/N]") {
		t.Errorf("missing teardown prompt in:\n%s", out)
	}
}

func TestViewTooSmall(t *testing.T) {
	m := testModel(&fakeTunnel{}, &fakeActions{})
	m.width = 40
	m.height = 10

	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("undersized terminal should get the resize message")
	}
}
