// Package exitcode defines structured exit codes for watchpost commands.
// Scripts wrapping watchpost can branch on the code instead of parsing
// error text.
//
// # Exit Code Ranges
//
//   - 0: Success
//   - 1-9: General errors (usage, internal)
//   - 10-19: Environment errors (terminal unusable, lock held)
//   - 20-29: Probe/state errors (doctor found failures)
package exitcode

import (
	"errors"
	"fmt"
)

// Exit codes for watchpost commands.
const (
	// Success indicates the command completed successfully.
	Success = 0

	// General errors (1-9)
	ErrGeneral  = 1 // General/unknown error
	ErrUsage    = 2 // Invalid arguments or usage
	ErrInternal = 3 // Internal error (bug)

	// Environment errors (10-19)
	ErrNoTerminal   = 10 // stdout is not an interactive terminal
	ErrSmallDisplay = 11 // terminal smaller than the dashboard minimum
	ErrLockHeld     = 12 // another watchpost instance holds the lock

	// Probe/state errors (20-29)
	ErrChecksFailed = 20 // doctor run found failing probes
)

// Error wraps an error with a specific exit code.
type Error struct {
	Code    int
	Message string
	Cause   error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new coded error.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new coded error with printf-style formatting.
func Newf(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Code extracts the exit code from an error.
// Returns ErrGeneral (1) if the error doesn't carry a code.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrGeneral
}

// Is checks if an error has a specific exit code.
func Is(err error, code int) bool {
	return Code(err) == code
}

// NoTerminal returns the error for a non-interactive control surface.
func NoTerminal() *Error {
	return New(ErrNoTerminal, "stdout is not a terminal; the dashboard needs an interactive session")
}

// SmallDisplay returns the error for an undersized terminal.
func SmallDisplay(w, h, minW, minH int) *Error {
	return Newf(ErrSmallDisplay, "terminal %dx%d is below the %dx%d minimum", w, h, minW, minH)
}

// LockHeld returns the error for a second concurrent instance.
func LockHeld(path string) *Error {
	return Newf(ErrLockHeld, "another watchpost instance is running (lock %s)", path)
}
