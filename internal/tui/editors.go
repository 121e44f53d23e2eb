package tui

import (
	"context"
	"fmt"
	"strings"

	"sheets-cli/internal/rest"
	"sheets-cli/internal/ws"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type editorKind int

const (
	editorText editorKind = iota
	editorSchema
)

// editorState backs the text and schema editors. Both edit raw source lines:
// saving replaces the block's line ids, or inserts fresh lines after
// afterSortKey when creating.
type editorState struct {
	body         textarea.Model
	kind         editorKind
	forIndex     int // -1 when creating
	ids          []int
	afterSortKey *float64
}

func newEditorState() editorState {
	ta := textarea.New()
	ta.Placeholder = "Write…"
	ta.CharLimit = 0
	ta.SetWidth(72)
	ta.SetHeight(10)
	ta.ShowLineNumbers = false
	return editorState{body: ta, forIndex: -1}
}

func (e *editorState) close() {
	e.body.SetValue("")
	e.body.Blur()
	e.forIndex = -1
	e.ids = nil
	e.afterSortKey = nil
}

func (m *appModel) openTextEditor(index int) {
	bs := m.blocks()
	if index < 0 || index >= len(bs) {
		return
	}
	b := bs[index]
	if b.Mode != ws.ModeMarkup || b.Markup == nil {
		return
	}
	m.editor.kind = editorText
	if b.Dummy {
		// The synthetic empty-worksheet block has no backing source lines;
		// editing it inserts at the top.
		m.editor.forIndex = -1
		m.editor.ids = nil
		k := -1.0
		m.editor.afterSortKey = &k
	} else {
		m.editor.forIndex = index
		m.editor.ids = b.IDs
		m.editor.afterSortKey = nil
	}
	m.editor.body.SetValue(b.Markup.Text)
	m.editor.body.Focus()
	m.modal = modalEditText
}

func (m *appModel) openNewTextEditor() {
	m.editor.kind = editorText
	m.editor.forIndex = -1
	m.editor.ids = nil
	m.editor.afterSortKey = m.afterSortKeyForFocus()
	m.editor.body.SetValue("")
	m.editor.body.Focus()
	m.modal = modalNewText
}

func (m *appModel) openSchemaEditor(index int) {
	bs := m.blocks()
	if index < 0 || index >= len(bs) {
		return
	}
	b := bs[index]
	if b.Mode != ws.ModeSchema || b.Schema == nil {
		return
	}
	m.editor.kind = editorSchema
	m.editor.forIndex = index
	m.editor.ids = b.IDs
	m.editor.afterSortKey = nil
	m.editor.body.SetValue(schemaSourceLines(b.Schema))
	m.editor.body.Focus()
	m.modal = modalEditSchema
}

// schemaSourceLines reconstructs the directive lines a schema block was
// parsed from, so the editor round-trips them.
func schemaSourceLines(s *ws.SchemaBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%% schema %s\n", s.SchemaName)
	for _, row := range s.FieldRows {
		parts := []string{"% add"}
		for _, col := range s.Header {
			if v, ok := row[col]; ok && v != nil {
				if str := fmt.Sprint(v); str != "" {
					parts = append(parts, str)
				}
			}
		}
		sb.WriteString(strings.Join(parts, " "))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

// saveEditor builds the add-items request for the open editor. Replacements
// send the old line ids; inserts carry a leading blank line so the new block
// renders separated from the one above it.
func (m *appModel) saveEditor() tea.Cmd {
	text := m.editor.body.Value()
	creating := m.editor.forIndex < 0

	if creating && strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	req := rest.AddItemsRequest{IDs: m.editor.ids}
	if creating {
		req.Items = append([]string{""}, lines...)
		req.AfterSortKey = m.editor.afterSortKey
	} else {
		req.Items = lines
	}

	moveTo := m.editor.forIndex
	if creating {
		moveTo = m.focusIndex + 1
	}

	gw := m.gw
	uuid := m.sheet.UUID
	return func() tea.Msg {
		err := gw.AddItems(context.Background(), uuid, req)
		return itemsSavedMsg{moveFocusTo: moveTo, err: err}
	}
}
