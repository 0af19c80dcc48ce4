package util

import (
	"path/filepath"
	"testing"
)

func TestInstanceLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "watchpost.lock")

	l1 := NewInstanceLock(path)
	ok, err := l1.TryAcquire()
	if err != nil {
		t.Fatalf("TryAcquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected first acquisition to succeed")
	}
	defer func() { _ = l1.Release() }()

	if l1.Path() != path {
		t.Errorf("Path() = %q, want %q", l1.Path(), path)
	}
}

func TestInstanceLockRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchpost.lock")

	l := NewInstanceLock(path)
	if ok, err := l.TryAcquire(); err != nil || !ok {
		t.Fatalf("TryAcquire: ok=%v err=%v", ok, err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	// Re-acquire after release.
	if ok, err := l.TryAcquire(); err != nil || !ok {
		t.Fatalf("re-acquire after release: ok=%v err=%v", ok, err)
	}
	_ = l.Release()
}
