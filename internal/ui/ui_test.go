package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Plain output keeps assertions independent of the terminal
	lipgloss.SetColorProfile(termenv.Ascii)
}
