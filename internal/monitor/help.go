package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelp renders the keyboard shortcut box.
func renderHelp() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))

	for _, b := range keys.FullHelp() {
		h := b.Help()
		lines = append(lines, helpKeyStyle.Render(h.Key)+helpDescStyle.Render(h.Desc))
	}

	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Mouse: click a tab to switch views"))
	lines = append(lines, LabelStyle.Render("Press ? or esc to close"))

	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderHelpOverlay centers the help box over the screen.
func (m Model) renderHelpOverlay() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = lipgloss.Height(renderHelp())
	}

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		renderHelp(),
		lipgloss.WithWhitespaceChars(" "),
	)
}
