package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalSize returns the width and height of the terminal behind f,
// or the fallback values when f is not a terminal.
func TerminalSize(f *os.File, fallbackWidth, fallbackHeight int) (int, int) {
	if f == nil {
		return fallbackWidth, fallbackHeight
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}
