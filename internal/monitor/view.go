package monitor

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Default frame width when the terminal size is not known yet.
const defaultWidth = 80

// minWidth is the narrowest layout the renderer attempts.
const minWidth = 40

// Frame is everything needed to draw one screen. RenderFrame is a pure
// function of a Frame, which lets the snapshot command reuse it outside
// Bubble Tea.
type Frame struct {
	View     ViewMode
	Sample   *Sample
	TopN     int
	Interval time.Duration
	// Elapsed is how long the monitor has been running.
	Elapsed time.Duration
	Now     time.Time
	Width   int

	History    *History
	Thresholds Thresholds

	// Mark wraps a clickable region. Nil renders plain text.
	Mark func(id, content string) string
}

// RenderFrame renders the header, overview, body for the active view and
// footer as a single string.
func RenderFrame(f Frame) string {
	if f.Width <= 0 {
		f.Width = defaultWidth
	}
	if f.Width < minWidth {
		f.Width = minWidth
	}
	if f.TopN <= 0 {
		f.TopN = 1
	}
	if f.Thresholds == (Thresholds{}) {
		f.Thresholds = DefaultThresholds()
	}

	sections := []string{
		renderHeader(f),
		renderTabs(f),
		renderOverview(f),
		renderBody(f),
		renderFooter(),
	}
	// Narrow terminals clip rather than wrap
	return lipgloss.NewStyle().MaxWidth(f.Width).Render(strings.Join(sections, "\n"))
}

// renderHeader renders the title line: app, host, refresh interval,
// monitor elapsed time and wall clock.
func renderHeader(f Frame) string {
	host := ""
	if f.Sample != nil && f.Sample.System.Hostname != "" {
		host = f.Sample.System.Hostname
	}

	left := TitleStyle.Render("sysmon")
	if host != "" {
		left += LabelStyle.Render(" @ ") + ValueStyle.Render(host)
	}

	clock := ""
	if !f.Now.IsZero() {
		clock = f.Now.Format("15:04:05")
	}
	right := LabelStyle.Render("every "+formatInterval(f.Interval)) +
		MutedStyle.Render(" │ ") +
		LabelStyle.Render("running "+FormatClock(f.Elapsed))
	if clock != "" {
		right += MutedStyle.Render(" │ ") + ValueStyle.Render(clock)
	}

	// Padding(0, 1) on HeaderStyle takes two columns
	gap := f.Width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return HeaderStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// tabZoneID is the bubblezone id of a view's tab.
func tabZoneID(v ViewMode) string {
	return "tab-" + v.Name()
}

// renderTabs renders the numbered view tabs, highlighting the active one.
func renderTabs(f Frame) string {
	tabs := make([]string, 0, len(AllViews))
	for i, v := range AllViews {
		label := string(rune('1'+i)) + " " + v.String()
		style := TabStyle
		if v == f.View {
			style = TabActiveStyle
		}
		tab := style.Render(label)
		if f.Mark != nil {
			tab = f.Mark(tabZoneID(v), tab)
		}
		tabs = append(tabs, tab)
	}
	return " " + strings.Join(tabs, " ")
}

// renderFooter renders the keyboard hint line.
func renderFooter() string {
	hints := []string{
		"1-5 / c m d n u views",
		"r refresh",
		"? help",
		"q quit",
	}
	return FooterStyle.Render(strings.Join(hints, " │ "))
}

// padRight pads s with spaces to width visible cells.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// padLeft right-aligns s within width visible cells.
func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

// section wraps body lines in a titled box of the given width.
func section(title, value string, width int, lines []string) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, SectionHeader(title, value, width))
	for _, l := range lines {
		out = append(out, SectionContentLine(l, width))
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}
