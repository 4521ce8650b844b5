package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable renders a simple aligned table with a header separator line.
// Column widths account for embedded ANSI sequences by measuring visible
// width.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const colGap = 2
	pad := func(cell string, width int) string {
		gap := width - lipgloss.Width(cell)
		if gap < 0 {
			gap = 0
		}
		return cell + strings.Repeat(" ", gap)
	}

	var b strings.Builder
	for i, h := range headers {
		cell := pad(StyleHeader.Render(h), widths[i])
		if i == cols-1 {
			cell = strings.TrimRight(cell, " ")
		} else {
			cell += strings.Repeat(" ", colGap)
		}
		b.WriteString(cell)
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cell = pad(cell, widths[i])
			if i == cols-1 {
				cell = strings.TrimRight(cell, " ")
			} else {
				cell += strings.Repeat(" ", colGap)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}
