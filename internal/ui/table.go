package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle provides consistent styling for tables across the CLI.
type TableStyle struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
}

// DefaultTableStyle returns the default table styling.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Cell: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Border: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// TableColumn defines a table column with name and width.
// Numeric columns set AlignRight.
type TableColumn struct {
	Title      string
	Width      int
	AlignRight bool
}

// RenderSimpleTable renders a non-interactive table string: a header row,
// a rule, then one line per row. Cells wider than their column are
// truncated with an ellipsis so every row stays on one line.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	return RenderTable(columns, rows, DefaultTableStyle())
}

// RenderTable is RenderSimpleTable with explicit styles.
func RenderTable(columns []TableColumn, rows [][]string, style TableStyle) string {
	if len(columns) == 0 {
		return ""
	}

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = Truncate(c.Title, c.Width)
	}

	fitted := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(columns))
		for i := range columns {
			if i < len(row) {
				cells[i] = Truncate(row[i], columns[i].Width)
			}
		}
		fitted[r] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.Border).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(fitted...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			if row == table.HeaderRow {
				s = style.Header
			} else {
				s = style.Cell
			}
			if col < 0 || col >= len(columns) {
				return s
			}
			// One space of gutter between columns
			s = s.Width(columns[col].Width + 1).PaddingRight(1)
			if columns[col].AlignRight {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	return strings.TrimRight(t.String(), "\n")
}

// Truncate shortens s to at most width cells, marking the cut with an
// ellipsis. Width is measured in terminal cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return SymbolEllipsis
	}

	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width-1 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	b.WriteString(SymbolEllipsis)
	return b.String()
}
