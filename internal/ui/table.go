package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one line of an object table
type Row struct {
	Cells    []string
	Disabled bool
}

// Table renders config objects as aligned columns
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates a table with the given column titles
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// AddRow appends a row; disabled rows are rendered muted
func (t *Table) AddRow(disabled bool, cells ...string) *Table {
	t.Rows = append(t.Rows, Row{Cells: cells, Disabled: disabled})
	return t
}

// Render returns the table; the last column takes the remaining width and
// is truncated to fit
func (t *Table) Render(width int) string {
	width = clampWidth(width)
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, r := range t.Rows {
		for i := 0; i < len(r.Cells) && i < len(widths); i++ {
			if w := lipgloss.Width(r.Cells[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const gap = 2
	if n := len(widths); n > 0 {
		used := 2 // indent
		for _, w := range widths[:n-1] {
			used += w + gap
		}
		if rest := width - used; rest > 0 && widths[n-1] > rest {
			widths[n-1] = rest
		}
	}

	var b strings.Builder
	b.WriteString(t.renderLine(t.Columns, widths, TableHeaderStyle))
	for _, r := range t.Rows {
		b.WriteString("\n")
		style := TableCellStyle
		if r.Disabled {
			style = TableMutedStyle
		}
		b.WriteString(t.renderLine(r.Cells, widths, style))
	}
	return b.String()
}

func (t *Table) renderLine(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = truncate(cells[i], widths[i])
		}
		pad := widths[i] - lipgloss.Width(cell)
		if i < len(widths)-1 {
			pad += 2
		} else {
			pad = 0
		}
		parts[i] = style.Render(cell) + strings.Repeat(" ", pad)
	}
	return "  " + strings.Join(parts, "")
}

// truncate shortens s to width runes, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
