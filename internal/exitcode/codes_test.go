package exitcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, Success},
		{"plain error", errors.New("boom"), ErrGeneral},
		{"coded error", New(ErrNoTerminal, "no tty"), ErrNoTerminal},
		{"wrapped coded error", fmt.Errorf("outer: %w", New(ErrLockHeld, "locked")), ErrLockHeld},
		{"double wrapped", fmt.Errorf("a: %w", fmt.Errorf("b: %w", Newf(ErrChecksFailed, "%d failed", 3))), ErrChecksFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(ErrInternal, "starting tunnel", errors.New("fork failed"))
	if err.Error() != "starting tunnel: fork failed" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, err.Cause) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestIs(t *testing.T) {
	err := SmallDisplay(40, 10, 80, 24)
	if !Is(err, ErrSmallDisplay) {
		t.Errorf("expected ErrSmallDisplay, got code %d", Code(err))
	}
	if Is(err, ErrNoTerminal) {
		t.Error("SmallDisplay should not match ErrNoTerminal")
	}
}
