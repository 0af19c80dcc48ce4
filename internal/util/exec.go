// Package util provides small shared helpers: command execution and the
// single-instance lock.
package util

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExecWithOutputContext runs a command in workDir and returns its trimmed
// stdout. On failure the error includes anything the command wrote to
// stderr, so callers can surface it directly in a notification.
func ExecWithOutputContext(ctx context.Context, workDir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// ExecRunContext runs a command in workDir, discarding output. The error
// carries stderr the same way ExecWithOutputContext does.
func ExecRunContext(ctx context.Context, workDir, name string, args ...string) error {
	_, err := ExecWithOutputContext(ctx, workDir, name, args...)
	return err
}
