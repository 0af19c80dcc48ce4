package cmd

import (
	"strings"
	"testing"

	"github.com/watchpost/watchpost/internal/exitcode"
)

// Test binaries never run on a TTY, so the watch preconditions are
// exercised directly.
func TestWatchRefusesNonTerminal(t *testing.T) {
	err := runWatch(watchCmd, nil)
	if err == nil {
		t.Fatal("expected an error off-terminal")
	}
	if code := exitcode.Code(err); code != exitcode.ErrNoTerminal {
		t.Errorf("exit code = %d, want %d", code, exitcode.ErrNoTerminal)
	}
}

func TestStateDirIsNamespaced(t *testing.T) {
	if !strings.Contains(stateDir(), "watchpost") {
		t.Errorf("stateDir = %q, want a watchpost-specific directory", stateDir())
	}
	if !strings.HasSuffix(lockPath(), "watchpost.lock") {
		t.Errorf("lockPath = %q", lockPath())
	}
}
