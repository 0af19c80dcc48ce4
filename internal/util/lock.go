// lock.go provides cross-process file locking using flock(2).
// Two supervisors must never share one tunnel log sink.

package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// InstanceLock guards a resource against concurrent watchpost instances.
// Unlike sync.Mutex it provides mutual exclusion across processes.
type InstanceLock struct {
	path string
	fl   *flock.Flock
}

// NewInstanceLock creates a lock backed by the given file path.
// The lock file is created on first acquisition if it doesn't exist.
func NewInstanceLock(path string) *InstanceLock {
	return &InstanceLock{path: path, fl: flock.New(path)}
}

// Path returns the lock file path.
func (l *InstanceLock) Path() string {
	return l.path
}

// TryAcquire attempts to take the lock without blocking.
// Returns false if another process already holds it.
func (l *InstanceLock) TryAcquire() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("creating lock directory: %w", err)
	}
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquiring lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock. Safe to call when not held.
func (l *InstanceLock) Release() error {
	return l.fl.Unlock()
}
