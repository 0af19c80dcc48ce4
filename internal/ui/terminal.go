// Package ui provides terminal detection and shared rendering helpers.
package ui

import (
	"os"

	"golang.org/x/term"
)

// Minimum control surface for the dashboard. Below this no partial view
// is drawn; startup aborts instead.
const (
	MinWidth  = 80
	MinHeight = 24
)

// IsTerminal returns true if stdout is connected to a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Size returns the current terminal dimensions for stdout.
func Size() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ShouldUseColor determines if ANSI color codes should be used.
// Respects NO_COLOR (https://no-color.org/), CLICOLOR, and CLICOLOR_FORCE conventions.
func ShouldUseColor() bool {
	// NO_COLOR takes precedence - any value disables color
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	// CLICOLOR=0 disables color
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	// CLICOLOR_FORCE enables color even in non-TTY
	if _, exists := os.LookupEnv("CLICOLOR_FORCE"); exists {
		return true
	}

	// default: use color only if stdout is a TTY
	return IsTerminal()
}
