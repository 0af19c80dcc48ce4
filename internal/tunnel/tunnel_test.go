package tunnel

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/watchpost/watchpost/internal/logging"
)

// fakeTunnelBinary writes a shell script that prints the given output and
// then sleeps, standing in for the real tunnel command. The script ignores
// the "tunnel --url ..." arguments it is invoked with.
func fakeTunnelBinary(t *testing.T, output string, sleep bool) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "faketunnel")
	script := "#!/bin/sh\necho '" + output + "'\n"
	if sleep {
		script += "sleep 60\n"
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestManager(t *testing.T, binary string) *Manager {
	t.Helper()
	m := New(Config{
		Binary: binary,
		Target: "http://127.0.0.1:11434",
		Domain: "trycloudflare.com",
		Dir:    t.TempDir(),
	}, logging.Discard())
	// No external tunnels in tests unless a test installs its own stub.
	m.detect = func(string) (int, bool) { return 0, false }
	return m
}

// waitFor polls cond for up to two seconds.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStartAndCapture(t *testing.T) {
	bin := fakeTunnelBinary(t, "INF +  https://brave-otter-42.trycloudflare.com  +", true)
	m := newTestManager(t, bin)
	defer m.Teardown(true)

	already, err := m.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if already {
		t.Fatal("first Start reported already active")
	}
	if !m.Alive() {
		t.Fatal("tunnel should be alive after Start")
	}

	waitFor(t, "url capture", func() bool {
		_, ok := m.TryCapture()
		return ok
	})

	url, _ := m.TryCapture()
	if url != "https://brave-otter-42.trycloudflare.com" {
		t.Errorf("captured %q", url)
	}

	st := m.State()
	if st.Origin != OriginSelf {
		t.Errorf("Origin = %v, want self-managed", st.Origin)
	}
	if st.URL != url {
		t.Errorf("State.URL = %q, want %q", st.URL, url)
	}
	if st.PID == 0 {
		t.Error("State.PID not set for self-managed tunnel")
	}
}

func TestStartIsIdempotentWhileLive(t *testing.T) {
	bin := fakeTunnelBinary(t, "starting", true)
	m := newTestManager(t, bin)
	defer m.Teardown(true)

	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	firstPID := m.State().PID

	already, err := m.Start()
	if err != nil {
		t.Fatalf("second Start errored: %v", err)
	}
	if !already {
		t.Error("second Start should report already active")
	}
	if m.State().PID != firstPID {
		t.Error("second Start disturbed the original handle")
	}
}

func TestConcurrentStartsLaunchOneChild(t *testing.T) {
	// Two dispatches can race a Start before the next snapshot refresh.
	// Exactly one may launch; the rest must see it as already active.
	bin := fakeTunnelBinary(t, "starting", true)
	m := newTestManager(t, bin)
	defer m.Teardown(true)

	const racers = 8
	var wg sync.WaitGroup
	alreadyCount := make(chan bool, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			already, err := m.Start()
			if err != nil {
				t.Errorf("Start errored: %v", err)
			}
			alreadyCount <- already
		}()
	}
	wg.Wait()
	close(alreadyCount)

	launches := 0
	for already := range alreadyCount {
		if !already {
			launches++
		}
	}
	if launches != 1 {
		t.Errorf("launches = %d, want exactly 1", launches)
	}
	if !m.SelfManaged() {
		t.Error("the surviving child should be self-managed")
	}
}

func TestExitIsDetected(t *testing.T) {
	// Script exits immediately: liveness must flip on the next poll.
	bin := fakeTunnelBinary(t, "dying", false)
	m := newTestManager(t, bin)
	defer m.RemoveSink()

	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "exit detection", func() bool { return !m.Alive() })

	if st := m.State(); st.Origin != OriginNone {
		t.Errorf("Origin after exit = %v, want none", st.Origin)
	}
	if m.SelfManaged() {
		t.Error("SelfManaged true after exit")
	}
}

func TestExternalDetection(t *testing.T) {
	m := newTestManager(t, "cloudflared")
	m.detect = func(binary string) (int, bool) { return 4242, true }

	if !m.Alive() {
		t.Error("externally detected tunnel should count as alive")
	}
	st := m.State()
	if st.Origin != OriginExternal {
		t.Errorf("Origin = %v, want externally-detected", st.Origin)
	}
	if st.URL != "" {
		t.Errorf("external tunnel URL must be opaque, got %q", st.URL)
	}
	if st.PID != 4242 {
		t.Errorf("PID = %d, want 4242", st.PID)
	}

	// External tunnels cannot be stopped from here.
	if err := m.Stop(); err == nil {
		t.Error("Stop should refuse for non-self-managed tunnels")
	}
}

func TestStartNoOpWhenExternalLive(t *testing.T) {
	m := newTestManager(t, "cloudflared")
	m.detect = func(binary string) (int, bool) { return 999, true }

	already, err := m.Start()
	if err != nil {
		t.Fatalf("Start errored: %v", err)
	}
	if !already {
		t.Error("Start should be a no-op while an external tunnel is live")
	}
}

func TestStopTerminatesChild(t *testing.T) {
	bin := fakeTunnelBinary(t, "running", true)
	m := newTestManager(t, bin)
	defer m.RemoveSink()

	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	waitFor(t, "child termination", func() bool { return !m.Alive() })
}

func TestTeardownRemovesSink(t *testing.T) {
	bin := fakeTunnelBinary(t, "hello sink", false)
	m := newTestManager(t, bin)

	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "sink written", func() bool {
		data, err := os.ReadFile(m.SinkPath())
		return err == nil && len(data) > 0
	})

	m.Teardown(false)

	if _, err := os.Stat(m.SinkPath()); !os.IsNotExist(err) {
		t.Error("sink file still present after teardown")
	}
}

func TestSinkTruncatedOnRestart(t *testing.T) {
	bin := fakeTunnelBinary(t, "https://stale-url-1.trycloudflare.com", false)
	m := newTestManager(t, bin)
	defer m.RemoveSink()

	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "first run exit", func() bool { return !m.Alive() })

	// Second start truncates the sink; the stale URL must be gone before
	// the new process writes anything.
	quiet := fakeTunnelBinary(t, "", true)
	m.cfg.Binary = quiet
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Teardown(true)

	if _, ok := m.TryCapture(); ok {
		t.Error("stale URL captured from un-truncated sink")
	}
}
