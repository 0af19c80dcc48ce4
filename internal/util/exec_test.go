package util

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestExecWithOutputContext(t *testing.T) {
	ctx := context.Background()

	// Test successful command
	output, err := ExecWithOutputContext(ctx, ".", "echo", "hello")
	if err != nil {
		t.Fatalf("ExecWithOutputContext failed: %v", err)
	}
	if output != "hello" {
		t.Errorf("expected 'hello', got %q", output)
	}

	// Test command that fails
	_, err = ExecWithOutputContext(ctx, ".", "false")
	if err == nil {
		t.Error("expected error for failing command")
	}
}

func TestExecRunContext(t *testing.T) {
	ctx := context.Background()

	// Test successful command
	err := ExecRunContext(ctx, ".", "true")
	if err != nil {
		t.Fatalf("ExecRunContext failed: %v", err)
	}

	// Test command that fails
	err = ExecRunContext(ctx, ".", "false")
	if err == nil {
		t.Error("expected error for failing command")
	}
}

func TestExecWithOutputContext_WorkDir(t *testing.T) {
	// Create a temp directory
	tmpDir, err := os.MkdirTemp("", "exec-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// Test that workDir is respected
	output, err := ExecWithOutputContext(context.Background(), tmpDir, "pwd")
	if err != nil {
		t.Fatalf("ExecWithOutputContext failed: %v", err)
	}
	if !strings.Contains(output, tmpDir) && !strings.Contains(tmpDir, output) {
		t.Errorf("expected output to contain %q, got %q", tmpDir, output)
	}
}

func TestExecWithOutputContext_StderrInError(t *testing.T) {
	// Test that stderr is captured in error
	_, err := ExecWithOutputContext(context.Background(), ".", "sh", "-c", "echo 'error message' >&2; exit 1")
	if err == nil {
		t.Error("expected error")
	}
	if !strings.Contains(err.Error(), "error message") {
		t.Errorf("expected error to contain stderr, got %q", err.Error())
	}
}

func TestExecWithOutputContext_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ExecWithOutputContext(ctx, ".", "sleep", "5")
	if err == nil {
		t.Error("expected error for timed-out command")
	}
}
