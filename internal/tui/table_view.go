package tui

import (
	"strings"

	"sheets-cli/internal/ws"
)

const (
	tableColMin = 6
	tableColMax = 30
)

// renderTableBlock renders a bundle table: a checkbox column, the schema
// columns, and per-row focus/selection highlighting. State cells are colored
// by lifecycle phase.
func (m *appModel) renderTableBlock(index int, b ws.Block, width int) string {
	t := b.Table
	if t == nil {
		return ""
	}

	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, h := range t.Header {
			if w := len(plainCell(row[h])); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < tableColMin {
			widths[i] = tableColMin
		}
		if widths[i] > tableColMax {
			widths[i] = tableColMax
		}
	}

	mask := m.checks[index]
	focusedBlock := m.pane == paneSheet && index == m.focusIndex

	var sb strings.Builder

	// Header row: the checkbox column reflects the block's aggregate state.
	header := "[" + checkGlyph(m.blockCheckState(index)) + "] "
	for i, h := range t.Header {
		header += padRight(h, widths[i]) + "  "
	}
	sb.WriteString(truncateLine(styleFieldLabel().Render(strings.TrimRight(header, " ")), width-2))
	sb.WriteByte('\n')

	if len(t.Rows) == 0 {
		if t.Status.Code == ws.StatusBrieflyLoaded {
			sb.WriteString(m.spin.View() + styleMuted().Render(" loading rows…"))
		} else {
			sb.WriteString(styleMuted().Render("(no rows)"))
		}
		return sb.String()
	}

	for r, row := range t.Rows {
		check := " "
		if r < len(mask) && mask[r] {
			check = "x"
		}
		line := "[" + check + "] "
		for i, h := range t.Header {
			cell := truncateLine(plainCell(row[h]), widths[i])
			if h == "state" {
				cell = stateStyle(plainCell(row[h])).Render(padRight(cell, widths[i]))
			} else {
				cell = padRight(cell, widths[i])
			}
			line += cell + "  "
		}
		line = truncateLine(strings.TrimRight(line, " "), width-2)
		if focusedBlock && r == m.subFocusIndex {
			line = styleSelected().Render(line)
		}
		sb.WriteString(line)
		if r < len(t.Rows)-1 {
			sb.WriteByte('\n')
		}
	}

	if t.Status.Code == ws.StatusBrieflyLoaded {
		sb.WriteByte('\n')
		sb.WriteString(m.spin.View() + styleMuted().Render(" refreshing cells…"))
	}
	return sb.String()
}

func checkGlyph(st checkState) string {
	switch st {
	case checkedAll:
		return "x"
	case checkedSome:
		return "-"
	default:
		return " "
	}
}
