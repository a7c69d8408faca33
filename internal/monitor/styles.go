package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for metrics
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	// Rate colors for the disk and network views
	ColorRead  = lipgloss.Color("#00FFFF")
	ColorWrite = lipgloss.Color("#BF40FF")
)

// Default thresholds for metric severity levels, in percent.
const (
	WarningThreshold  = 70
	CriticalThreshold = 90
)

// Thresholds are the warning and critical percentages used to color
// CPU and memory values.
type Thresholds struct {
	CPUWarning     int
	CPUCritical    int
	MemoryWarning  int
	MemoryCritical int
}

// DefaultThresholds returns 70/90 for both CPU and memory.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUWarning:     WarningThreshold,
		CPUCritical:    CriticalThreshold,
		MemoryWarning:  WarningThreshold,
		MemoryCritical: CriticalThreshold,
	}
}

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	UnavailableStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)
)

// MetricColorWithThresholds returns the color for a percentage-based metric
// using the provided warning and critical threshold values.
func MetricColorWithThresholds(percent float64, warning, critical int) lipgloss.Color {
	switch {
	case percent >= float64(critical):
		return ColorCritical
	case percent >= float64(warning):
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// MetricStyleWithThresholds returns a style with the foreground color for the metric.
func MetricStyleWithThresholds(percent float64, warning, critical int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MetricColorWithThresholds(percent, warning, critical))
}

// ThinProgressBarWithThresholds renders a line-based progress bar.
// Uses ━ for filled segments and ─ for empty segments.
func ThinProgressBarWithThresholds(width int, percent float64, warning, critical int) string {
	if width < 1 {
		width = 1
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
	return lipgloss.NewStyle().Foreground(MetricColorWithThresholds(percent, warning, critical)).Render(bar)
}

// SectionHeader renders a section title line with a value on the right.
// Format: ╭─ Title ──────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// "╭─ " + title + " " on the left, " " + value + " ╮" on the right
	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	valueStyle := lipgloss.NewStyle().Foreground(ColorRead).Bold(true)

	return borderStyle.Render("╭─ ") +
		TitleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", fillWidth)+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders,
// padded to width.
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	// "│ " on the left and " │" on the right
	if lipgloss.Width(content) > width-4 {
		content = lipgloss.NewStyle().MaxWidth(width - 4).Render(content)
	}
	padding := width - 4 - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
