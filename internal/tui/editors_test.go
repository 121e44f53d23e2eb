package tui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sheets-cli/internal/ws"
)

func TestNewTextInsertsAfterFocusedSortKey(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(
		markupBlock("a", []int{1}, key(3)),
		markupBlock("b", []int{2}, key(7)),
	))
	m.setFocus(0, 0)

	mAny, _ := m.Update(keyRunes('n'))
	m = mAny.(appModel)
	if m.modal != modalNewText {
		t.Fatalf("modal = %v, want modalNewText", m.modal)
	}
	if m.editor.afterSortKey == nil || *m.editor.afterSortKey != 3 {
		t.Fatalf("afterSortKey = %v, want 3", m.editor.afterSortKey)
	}

	m.editor.body.SetValue("hello\nworld")
	cmd := (&m).saveEditor()
	if cmd == nil {
		t.Fatal("saveEditor returned no command")
	}
	msg := cmd()

	if len(gw.addItemsReqs) != 1 {
		t.Fatalf("addItems calls = %d, want 1", len(gw.addItemsReqs))
	}
	req := gw.addItemsReqs[0]
	// Inserts carry a leading blank line to separate the new block.
	if want := []string{"", "hello", "world"}; !reflect.DeepEqual(req.Items, want) {
		t.Fatalf("items = %v, want %v", req.Items, want)
	}
	if len(req.IDs) != 0 {
		t.Fatalf("ids = %v, want none for an insert", req.IDs)
	}
	if req.AfterSortKey == nil || *req.AfterSortKey != 3 {
		t.Fatalf("after_sort_key = %v, want 3", req.AfterSortKey)
	}

	saved, ok := msg.(itemsSavedMsg)
	if !ok || saved.err != nil {
		t.Fatalf("msg = %#v, want a clean itemsSavedMsg", msg)
	}
	if saved.moveFocusTo != 1 {
		t.Fatalf("moveFocusTo = %d, want the slot after the focused block", saved.moveFocusTo)
	}
}

func TestNewTextWithHeaderFocusAppendsAtTail(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(markupBlock("a", []int{1}, key(0))))
	m.setFocus(-1, 0)

	(&m).openNewTextEditor()
	if m.editor.afterSortKey != nil {
		t.Fatalf("afterSortKey = %v, want nil (append at tail)", *m.editor.afterSortKey)
	}

	m.editor.body.SetValue("tail text")
	cmd := (&m).saveEditor()
	_ = cmd()
	if req := gw.addItemsReqs[0]; req.AfterSortKey != nil {
		t.Fatalf("after_sort_key = %v, want absent", *req.AfterSortKey)
	}
}

func TestEditTextReplacesSourceLines(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(markupBlock("old text", []int{5, 6}, key(0), key(1))))
	m.setFocus(0, 0)

	mAny, _ := m.Update(keyRunes('e'))
	m = mAny.(appModel)
	if m.modal != modalEditText {
		t.Fatalf("modal = %v, want modalEditText", m.modal)
	}
	if m.editor.body.Value() != "old text" {
		t.Fatalf("editor preloaded %q, want the block text", m.editor.body.Value())
	}

	m.editor.body.SetValue("new text")
	cmd := (&m).saveEditor()
	msg := cmd()

	req := gw.addItemsReqs[0]
	if want := []int{5, 6}; !reflect.DeepEqual(req.IDs, want) {
		t.Fatalf("ids = %v, want %v", req.IDs, want)
	}
	if want := []string{"new text"}; !reflect.DeepEqual(req.Items, want) {
		t.Fatalf("items = %v, want %v", req.Items, want)
	}
	if req.AfterSortKey != nil {
		t.Fatalf("after_sort_key = %v, want absent for a replacement", *req.AfterSortKey)
	}
	if saved := msg.(itemsSavedMsg); saved.moveFocusTo != 0 {
		t.Fatalf("moveFocusTo = %d, want the edited slot", saved.moveFocusTo)
	}
}

func TestEditDummyBlockInsertsAtTop(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith())
	m.setFocus(0, 0)

	mAny, _ := m.Update(keyRunes('e'))
	m = mAny.(appModel)
	if m.modal != modalEditText {
		t.Fatalf("modal = %v, want modalEditText", m.modal)
	}
	if m.editor.forIndex != -1 {
		t.Fatalf("forIndex = %d, want -1 (insert, not replace)", m.editor.forIndex)
	}
	if m.editor.afterSortKey == nil || *m.editor.afterSortKey != -1 {
		t.Fatalf("afterSortKey = %v, want -1 (top of source)", m.editor.afterSortKey)
	}
	if len(m.editor.ids) != 0 {
		t.Fatal("dummy block carried source line ids")
	}
}

func TestSaveEmptyNewTextIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(markupBlock("a", []int{1}, key(0))))
	(&m).openNewTextEditor()
	m.editor.body.SetValue("   \n  ")
	if cmd := (&m).saveEditor(); cmd != nil {
		t.Fatal("blank insert produced a request")
	}
}

func TestEditBlockedWithoutPermission(t *testing.T) {
	gw := &fakeGateway{}
	sheet := sheetWith(markupBlock("a", []int{1}, key(0)))
	sheet.EditPermission = false
	m := loadedModel(gw, sheet)
	m.setFocus(0, 0)

	for _, k := range []rune{'e', 'n', 'R', 'U'} {
		mAny, _ := m.Update(keyRunes(k))
		got := mAny.(appModel)
		if got.modal != modalNone {
			t.Fatalf("key %q opened modal %v on a read-only worksheet", k, got.modal)
		}
	}
}

func TestSchemaEditorRoundTripsDirectiveLines(t *testing.T) {
	gw := &fakeGateway{}
	schema := ws.Block{
		Mode:     ws.ModeSchema,
		SortKeys: []*float64{key(0)},
		IDs:      []int{11, 12, 13},
		Schema: &ws.SchemaBlock{
			SchemaName: "metrics",
			Header:     []string{"field", "generalized-path", "post-processor"},
			FieldRows: []map[string]any{
				{"field": "uuid", "generalized-path": "uuid", "post-processor": "[0:8]"},
				{"field": "acc", "generalized-path": "/results:accuracy"},
			},
		},
	}
	m := loadedModel(gw, sheetWith(schema))
	m.setFocus(0, 0)

	mAny, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)
	if m.modal != modalEditSchema {
		t.Fatalf("modal = %v, want modalEditSchema", m.modal)
	}

	want := "% schema metrics\n% add uuid uuid [0:8]\n% add acc /results:accuracy"
	if got := m.editor.body.Value(); got != want {
		t.Fatalf("editor body:\n got: %q\nwant: %q", got, want)
	}

	cmd := (&m).saveEditor()
	_ = cmd()
	req := gw.addItemsReqs[0]
	if want := []int{11, 12, 13}; !reflect.DeepEqual(req.IDs, want) {
		t.Fatalf("ids = %v, want %v", req.IDs, want)
	}
}

func TestCloseModalResetsEditorState(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(markupBlock("a", []int{1}, key(0))))
	m.setFocus(0, 0)
	(&m).openTextEditor(0)
	m.editor.body.SetValue("draft")

	m.closeModal()
	if m.modal != modalNone {
		t.Fatalf("modal = %v, want modalNone", m.modal)
	}
	if m.editor.body.Value() != "" || m.editor.ids != nil {
		t.Fatal("editor state survived closeModal")
	}
}
