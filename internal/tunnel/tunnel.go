// Package tunnel supervises the single background tunnel process and
// extracts its public URL from the process's own output.
//
// At most one self-managed tunnel exists at a time. A tunnel started
// outside watchpost is still detected (by scanning the process table for
// the tunnel command) but its output stream is not owned here, so its URL
// is opaque and it cannot be stopped.
package tunnel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Origin says who owns a live tunnel process.
type Origin int

const (
	// OriginNone means no tunnel process is known.
	OriginNone Origin = iota
	// OriginSelf means this supervisor started the process and owns its log sink.
	OriginSelf
	// OriginExternal means a matching process was detected on the system
	// but is not owned here: URL unknown, not stoppable.
	OriginExternal
)

// String returns a human-readable origin.
func (o Origin) String() string {
	switch o {
	case OriginSelf:
		return "self-managed"
	case OriginExternal:
		return "externally-detected"
	default:
		return "none"
	}
}

// State is the tunnel's contribution to a dashboard snapshot.
type State struct {
	Origin Origin
	PID    int
	URL    string // empty until captured; always empty for external tunnels
}

// Config describes the tunnel command.
type Config struct {
	Binary string // tunnel executable, e.g. cloudflared
	Target string // local URL the tunnel exposes
	Domain string // public hostname suffix the URL is captured from
	Dir    string // sink directory; os.TempDir() when empty
}

// Manager owns the lifecycle of the tunnel child process.
type Manager struct {
	cfg     Config
	logger  *slog.Logger
	matcher *URLMatcher

	mu       sync.Mutex
	cmd      *exec.Cmd
	exited   bool // set by the wait goroutine once the child is reaped
	url      string
	sinkPath string

	detect func(binary string) (int, bool)
}

// New creates a manager. The log sink gets a run-scoped name so stale
// sinks from a crashed run are never picked up.
func New(cfg Config, logger *slog.Logger) *Manager {
	dir := cfg.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		matcher:  NewURLMatcher(cfg.Domain),
		sinkPath: filepath.Join(dir, fmt.Sprintf("watchpost-tunnel-%s.log", uuid.NewString())),
		detect:   detectByCommand,
	}
}

// SinkPath returns the log sink location.
func (m *Manager) SinkPath() string {
	return m.sinkPath
}

// Start launches the tunnel child detached, with combined output redirected
// into the (truncated) log sink. Returns already=true without side effects
// when a self-managed or externally-detected tunnel is live.
//
// The lock spans the liveness check and the launch: two concurrent starts
// must never both observe not-alive, or the second child would orphan the
// first.
func (m *Manager) Start() (already bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.aliveLocked() {
		return true, nil
	}

	sink, err := os.OpenFile(m.sinkPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return false, fmt.Errorf("creating log sink: %w", err)
	}

	cmd := exec.Command(m.cfg.Binary, "tunnel", "--url", m.cfg.Target)
	cmd.Stdout = sink
	cmd.Stderr = sink
	cmd.Stdin = nil
	// Own process group: the tunnel must survive the supervisor unless the
	// operator explicitly chooses otherwise.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		sink.Close()
		return false, fmt.Errorf("starting %s: %w", m.cfg.Binary, err)
	}

	m.cmd = cmd
	m.exited = false
	m.url = ""

	m.logger.Info("tunnel started", "pid", cmd.Process.Pid, "sink", m.sinkPath)

	// Reap the child so exit is detected, not assumed.
	go func() {
		_ = cmd.Wait()
		sink.Close()
		m.mu.Lock()
		m.exited = true
		m.mu.Unlock()
		m.logger.Info("tunnel exited", "pid", cmd.Process.Pid)
	}()

	return false, nil
}

// TryCapture reads the accumulated log sink and applies the URL pattern.
// The first match is recorded and returned on every later call.
func (m *Manager) TryCapture() (string, bool) {
	m.mu.Lock()
	if m.url != "" {
		url := m.url
		m.mu.Unlock()
		return url, true
	}
	m.mu.Unlock()

	data, err := os.ReadFile(m.sinkPath)
	if err != nil {
		return "", false
	}
	url, ok := m.matcher.Extract(string(data))
	if !ok {
		return "", false
	}

	m.mu.Lock()
	m.url = url
	m.mu.Unlock()
	m.logger.Info("tunnel url captured", "url", url)
	return url, true
}

// Alive reports whether a tunnel process is live: either our own child,
// or an externally started one matching the tunnel command. A dead child
// handle is cleared here, the instant the exit is observed.
func (m *Manager) Alive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aliveLocked()
}

// aliveLocked is Alive with m.mu already held.
func (m *Manager) aliveLocked() bool {
	if m.cmd != nil {
		if !m.exited {
			return true
		}
		// Exit detected: drop the handle and the stale URL.
		m.cmd = nil
		m.url = ""
	}

	_, found := m.detect(m.cfg.Binary)
	return found
}

// AliveCtx adapts Alive to the probe function shape. Liveness detection
// is a local process-table scan, so the context is not consulted.
func (m *Manager) AliveCtx(ctx context.Context) bool {
	return m.Alive()
}

// State returns the snapshot fields for the current tick.
func (m *Manager) State() State {
	m.mu.Lock()
	if m.cmd != nil && !m.exited {
		st := State{Origin: OriginSelf, PID: m.cmd.Process.Pid, URL: m.url}
		m.mu.Unlock()
		return st
	}
	m.mu.Unlock()

	if pid, found := m.detect(m.cfg.Binary); found {
		// Output stream not owned here; the URL stays opaque.
		return State{Origin: OriginExternal, PID: pid}
	}
	return State{Origin: OriginNone}
}

// SelfManaged reports whether a live self-managed child exists.
func (m *Manager) SelfManaged() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cmd != nil && !m.exited
}

// Stop terminates a self-managed tunnel with SIGTERM. Externally detected
// tunnels cannot be stopped from here.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil || m.exited {
		return fmt.Errorf("no self-managed tunnel to stop")
	}
	// Negative pid: signal the whole process group we created at start.
	if err := unix.Kill(-m.cmd.Process.Pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("stopping tunnel: %w", err)
	}
	m.logger.Info("tunnel stop requested", "pid", m.cmd.Process.Pid)
	return nil
}

// Teardown runs at supervisor shutdown: terminate the self-managed child
// only when the operator asked for it, and remove the log sink regardless
// of the process's fate.
func (m *Manager) Teardown(kill bool) {
	if kill && m.SelfManaged() {
		if err := m.Stop(); err != nil {
			m.logger.Warn("teardown stop failed", "err", err)
		}
	}
	m.RemoveSink()
}

// RemoveSink deletes the log sink file.
func (m *Manager) RemoveSink() {
	_ = os.Remove(m.sinkPath)
}
