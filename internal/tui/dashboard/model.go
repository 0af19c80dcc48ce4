// Package dashboard is the interactive supervisor TUI. It polls the probe
// registry on a fixed interval, renders the stack's health, and maps the
// number keys to corrective actions.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/watchpost/watchpost/internal/action"
	"github.com/watchpost/watchpost/internal/probe"
	"github.com/watchpost/watchpost/internal/tunnel"
)

const (
	// refreshInterval is how often the probe snapshot is rebuilt.
	refreshInterval = 3 * time.Second

	// captureAttempts and captureInterval bound the tunnel URL capture
	// loop after a self-managed start.
	captureAttempts = 15
	captureInterval = 1 * time.Second

	// noteTTL is how long a notification stays on screen.
	noteTTL = 10 * time.Second
)

// Actions dispatches keyed corrective operations. *action.Dispatcher is the
// real implementation; tests substitute a fake.
type Actions interface {
	Dispatch(ctx context.Context, key string, snap probe.Snapshot) (action.Result, bool)
	Titles() []struct{ Key, Title string }
}

// Tunnel is the managed tunnel process surface the dashboard drives.
// *tunnel.Manager is the real implementation.
type Tunnel interface {
	Start() (already bool, err error)
	TryCapture() (string, bool)
	State() tunnel.State
	SelfManaged() bool
}

// notification is the single transient message slot. A new notification
// replaces the old one outright.
type notification struct {
	text string
	at   time.Time
}

// Model is the bubbletea model for the dashboard TUI.
type Model struct {
	// Dimensions
	width  int
	height int

	// Collaborators
	registry *probe.Registry
	tun      Tunnel
	actions  Actions
	logger   *slog.Logger

	// Data: replaced wholesale on every refresh
	snap   probe.Snapshot
	tstate tunnel.State

	// UI state
	keys     KeyMap
	help     help.Model
	showHelp bool
	note     notification

	// Capture loop state
	capturing bool
	attempt   int

	// Quit confirmation
	confirmQuit bool
	killOnExit  bool

	// now is injectable for notification expiry tests.
	now func() time.Time
}

// New creates a dashboard model.
func New(registry *probe.Registry, tun Tunnel, actions Actions, logger *slog.Logger) *Model {
	h := help.New()
	h.ShowAll = false

	return &Model{
		registry: registry,
		tun:      tun,
		actions:  actions,
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     h,
		now:      time.Now,
	}
}

// KillOnExit reports whether the user asked for the self-managed tunnel to
// be stopped on quit. Read after the program returns.
func (m *Model) KillOnExit() bool {
	return m.killOnExit
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refresh(),
		m.scheduleRefresh(),
		tea.SetWindowTitle("watchpost"),
	)
}

// snapshotMsg carries a freshly built probe snapshot and tunnel state.
type snapshotMsg struct {
	snap   probe.Snapshot
	tstate tunnel.State
}

// tickMsg is sent on each refresh interval.
type tickMsg time.Time

// actionDoneMsg is sent when a dispatched action finishes.
type actionDoneMsg struct {
	res   action.Result
	found bool
	key   string
}

// tunnelStartedMsg is sent after a tunnel start request.
type tunnelStartedMsg struct {
	already bool
	err     error
}

// captureTickMsg drives one URL capture attempt.
type captureTickMsg struct {
	attempt int
}

// refresh rebuilds the snapshot off the UI goroutine.
func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshInterval)
		defer cancel()
		return snapshotMsg{
			snap:   m.registry.RunAll(ctx),
			tstate: m.tun.State(),
		}
	}
}

// scheduleRefresh arms the next poll tick.
func (m *Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// dispatch runs the action bound to a number key.
func (m *Model) dispatch(keyStr string) tea.Cmd {
	snap := m.snap
	return func() tea.Msg {
		res, found := m.actions.Dispatch(context.Background(), keyStr, snap)
		return actionDoneMsg{res: res, found: found, key: keyStr}
	}
}

// startTunnel launches the managed tunnel process.
func (m *Model) startTunnel() tea.Cmd {
	return func() tea.Msg {
		already, err := m.tun.Start()
		return tunnelStartedMsg{already: already, err: err}
	}
}

// scheduleCapture arms the next URL capture attempt.
func scheduleCapture(attempt int) tea.Cmd {
	return tea.Tick(captureInterval, func(time.Time) tea.Msg {
		return captureTickMsg{attempt: attempt}
	})
}

// setNote replaces the notification slot.
func (m *Model) setNote(text string) {
	m.note = notification{text: text, at: m.now()}
}

// noteVisible reports whether the notification is still within its TTL.
func (m *Model) noteVisible() bool {
	return m.note.text != "" && m.now().Sub(m.note.at) < noteTTL
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		// Quit confirmation swallows all input until answered.
		if m.confirmQuit {
			return m.handleConfirmQuit(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.tun.SelfManaged() {
				m.confirmQuit = true
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp

		case key.Matches(msg, m.keys.Refresh):
			cmds = append(cmds, m.refresh())

		default:
			matched := false
			for i, b := range m.keys.fixBindings() {
				if key.Matches(msg, b) {
					keyStr := fmt.Sprintf("%d", i+1)
					m.setNote("running: " + m.titleFor(keyStr))
					cmds = append(cmds, m.dispatch(keyStr))
					matched = true
					break
				}
			}
			if !matched {
				m.setNote("no action bound to key " + msg.String())
			}
		}

	case snapshotMsg:
		m.snap = msg.snap
		m.tstate = msg.tstate

	case tickMsg:
		cmds = append(cmds, m.refresh())
		cmds = append(cmds, m.scheduleRefresh())

	case actionDoneMsg:
		if !msg.found {
			m.setNote("no action bound to key " + msg.key)
			break
		}
		if msg.res.StartTunnel {
			m.setNote("starting tunnel…")
			cmds = append(cmds, m.startTunnel())
			break
		}
		m.setNote(msg.res.Note)
		cmds = append(cmds, m.refresh())

	case tunnelStartedMsg:
		switch {
		case msg.err != nil:
			m.logger.Warn("tunnel start failed", "err", msg.err)
			m.setNote(fmt.Sprintf("start tunnel failed: %v", msg.err))
		case msg.already:
			m.setNote("tunnel already active")
		default:
			m.capturing = true
			m.attempt = 1
			m.setNote(fmt.Sprintf("waiting for tunnel URL… (1/%d)", captureAttempts))
			cmds = append(cmds, scheduleCapture(1))
		}
		cmds = append(cmds, m.refresh())

	case captureTickMsg:
		if !m.capturing {
			break
		}
		if url, ok := m.tun.TryCapture(); ok {
			m.capturing = false
			m.setNote("tunnel live at " + url)
			cmds = append(cmds, m.refresh())
			break
		}
		if msg.attempt >= captureAttempts {
			m.capturing = false
			if m.tun.SelfManaged() {
				m.setNote("tunnel running but no URL captured; check the tunnel log")
			} else {
				m.setNote("tunnel exited before a URL was captured; check the tunnel log")
			}
			cmds = append(cmds, m.refresh())
			break
		}
		m.attempt = msg.attempt + 1
		m.setNote(fmt.Sprintf("waiting for tunnel URL… (%d/%d)", m.attempt, captureAttempts))
		cmds = append(cmds, scheduleCapture(m.attempt))
	}

	return m, tea.Batch(cmds...)
}

// handleConfirmQuit interprets the teardown prompt. Default is to leave the
// tunnel running.
func (m *Model) handleConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.killOnExit = true
		return m, tea.Quit
	case "n", "N", "enter", "q":
		m.killOnExit = false
		return m, tea.Quit
	case "esc":
		m.confirmQuit = false
		return m, nil
	}
	return m, nil
}

// titleFor looks up the action title for a key, for the in-flight note.
func (m *Model) titleFor(keyStr string) string {
	for _, t := range m.actions.Titles() {
		if t.Key == keyStr {
			return t.Title
		}
	}
	return "action " + keyStr
}

// View renders the TUI.
func (m *Model) View() string {
	return m.renderView()
}
