package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication, as ANSI codes for broad terminal
// compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Accent colors shared with the dashboard palette
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonPurple  lipgloss.Color = "#BF40FF"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorNeonGreen   lipgloss.Color = "#39FF14"
)

// GradientColors is the color cycle for animated indicators.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}
