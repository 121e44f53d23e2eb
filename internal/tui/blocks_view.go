package tui

import (
	"fmt"
	"strings"

	"sheets-cli/internal/ws"

	"github.com/charmbracelet/lipgloss"
)

// renderBlock renders one block at its display width. focused marks the whole
// block; row focus inside tables and listings is handled per row.
func (m *appModel) renderBlock(index int, b ws.Block, width int) string {
	focused := m.pane == paneSheet && index == m.focusIndex

	var body string
	switch b.Mode {
	case ws.ModeMarkup:
		body = m.renderMarkupBlock(b, width)
	case ws.ModeTable:
		body = m.renderTableBlock(index, b, width)
	case ws.ModeContents:
		body = m.renderContentsBlock(b, width)
	case ws.ModeRecord:
		body = m.renderRecordBlock(index, b, width)
	case ws.ModeImage:
		body = renderImageBlock(b, width)
	case ws.ModeGraph:
		body = renderGraphBlock(b, width)
	case ws.ModeSubworksheets:
		body = m.renderSubworksheetsBlock(index, b, width)
	case ws.ModeSchema:
		body = renderSchemaBlock(b, width)
	case ws.ModePlaceholder:
		body = m.renderPlaceholderBlock(b, width)
	default:
		body = styleError().Render(fmt.Sprintf("(unsupported block mode: %s)", b.Mode))
	}

	gutter := "  "
	if focused {
		gutter = lipgloss.NewStyle().Foreground(colorAccent).Render("▌ ")
	}
	lines := strings.Split(body, "\n")
	for i, ln := range lines {
		lines[i] = gutter + ln
	}
	return strings.Join(lines, "\n")
}

func (m *appModel) renderMarkupBlock(b ws.Block, width int) string {
	if b.Markup == nil {
		return ""
	}
	if b.Dummy || strings.TrimSpace(b.Markup.Text) == "" {
		if b.Dummy {
			return styleMuted().Render("(empty worksheet — press n to add text)")
		}
		return ""
	}
	if b.Markup.Error {
		return styleError().Render(b.Markup.Text)
	}
	return renderMarkdown(b.Markup.Text, width-2)
}

func (m *appModel) renderContentsBlock(b ws.Block, width int) string {
	if b.Contents == nil {
		return ""
	}
	var lines []string
	if fb := b.FirstBundle(); fb != nil {
		lines = append(lines, styleSectionHeader().Render("▸ "+fb.Name()))
	}
	if len(b.Contents.Lines) == 0 {
		lines = append(lines, styleMuted().Render("(no content)"))
	}
	for _, ln := range b.Contents.Lines {
		lines = append(lines, truncateLine(ln, width-2))
	}
	return strings.Join(lines, "\n")
}

func (m *appModel) renderRecordBlock(index int, b ws.Block, width int) string {
	if b.Record == nil || len(b.Record.Header) < 2 {
		return ""
	}
	keyCol, valCol := b.Record.Header[0], b.Record.Header[1]
	var lines []string
	for i, row := range b.Record.Rows {
		key := plainCell(row[keyCol])
		val := plainCell(row[valCol])
		line := styleFieldLabel().Render(padRight(key, 24)) + " " + val
		line = truncateLine(line, width-2)
		if m.pane == paneSheet && index == m.focusIndex && i == m.subFocusIndex {
			line = styleSelected().Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderImageBlock(b ws.Block, width int) string {
	if b.Image == nil {
		return ""
	}
	name := "image"
	if fb := b.FirstBundle(); fb != nil {
		name = fb.Name()
	}
	label := fmt.Sprintf("[image] %s", name)
	if b.Image.Width > 0 || b.Image.Height > 0 {
		label += fmt.Sprintf(" (%dx%d)", b.Image.Width, b.Image.Height)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1).
		Render(truncateLine(label, width-6))
}

func renderGraphBlock(b ws.Block, width int) string {
	if b.Graph == nil {
		return ""
	}
	title := "[graph]"
	if b.Graph.YLabel != "" || b.Graph.XLabel != "" {
		title = fmt.Sprintf("[graph] %s vs %s", b.Graph.YLabel, b.Graph.XLabel)
	}
	lines := []string{styleSectionHeader().Render(title)}
	for _, t := range b.Graph.Trajectories {
		name := t.DisplayName
		if name == "" {
			name = shortUUID(t.UUID)
		}
		lines = append(lines, truncateLine("  • "+name, width-2))
	}
	return strings.Join(lines, "\n")
}

func (m *appModel) renderSubworksheetsBlock(index int, b ws.Block, width int) string {
	if b.Subworksheets == nil {
		return ""
	}
	var lines []string
	for i, info := range b.Subworksheets.Infos {
		label := info.Name
		if info.Title != "" {
			label += "  " + styleMuted().Render(info.Title)
		}
		line := truncateLine("⇒ "+label, width-2)
		if m.pane == paneSheet && index == m.focusIndex && i == m.subFocusIndex {
			line = styleSelected().Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderSchemaBlock(b ws.Block, width int) string {
	if b.Schema == nil {
		return ""
	}
	lines := []string{styleSectionHeader().Render("schema " + b.Schema.SchemaName)}
	for _, row := range b.Schema.FieldRows {
		var cells []string
		for _, col := range b.Schema.Header {
			cells = append(cells, padRight(plainCell(row[col]), 18))
		}
		lines = append(lines, truncateLine("  "+strings.Join(cells, " "), width-2))
	}
	return strings.Join(lines, "\n")
}

func (m *appModel) renderPlaceholderBlock(b ws.Block, width int) string {
	if b.Placeholder == nil {
		return ""
	}
	d := b.Placeholder.Directive
	if msg, failed := m.resolveFail[d]; failed {
		out := styleError().Render("Error loading item.")
		if msg != "" {
			out += "\n" + styleMuted().Render(truncateLine(msg, width-2))
		}
		return out
	}
	if m.noResults[d] {
		return styleMuted().Render("(no results)")
	}
	return m.spin.View() + styleMuted().Render(" "+d)
}

func plainCell(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}
