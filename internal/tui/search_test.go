package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sheets-cli/internal/rest"
)

func TestSearchDebounceDropsStaleTicks(t *testing.T) {
	gw := &fakeGateway{searchRefs: []rest.WorksheetRef{{UUID: "0xhit", Name: "hit"}}}
	m := loadedModel(gw, sheetWith(markupBlock("a", []int{1}, key(0))))

	mAny, _ := m.Update(keyRunes('/'))
	m = mAny.(appModel)
	if m.modal != modalSearchWorksheets {
		t.Fatalf("modal = %v, want modalSearchWorksheets", m.modal)
	}

	m.search.input.SetValue("mnist")
	_ = (&m).bumpSearch()
	staleSeq := m.search.seq
	_ = (&m).bumpSearch()

	// The older tick fires first and must not query.
	mAny, cmd := m.Update(searchDebounceMsg{seq: staleSeq})
	m = mAny.(appModel)
	if cmd != nil {
		t.Fatal("stale debounce tick triggered a search")
	}

	mAny, cmd = m.Update(searchDebounceMsg{seq: m.search.seq})
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatal("current debounce tick did not search")
	}
	if !m.search.searching {
		t.Fatal("searching flag not set")
	}

	msg := cmd()
	mAny, _ = m.Update(msg)
	m = mAny.(appModel)
	if len(m.search.refs) != 1 || m.search.refs[0].UUID != "0xhit" {
		t.Fatalf("refs = %v, want the fake's hit", m.search.refs)
	}
	if m.search.searching {
		t.Fatal("searching flag not cleared")
	}
}

func TestSearchEnterOpensSelection(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(markupBlock("a", []int{1}, key(0))))
	(&m).openSearch()
	m.search.refs = []rest.WorksheetRef{
		{UUID: "0xfirst", Name: "first"},
		{UUID: "0xsecond", Name: "second"},
	}
	seqBefore := m.wsSeq

	mAny, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = mAny.(appModel)
	if m.search.sel != 1 {
		t.Fatalf("sel = %d, want 1", m.search.sel)
	}

	mAny, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)
	if m.wsSpec != "0xsecond" {
		t.Fatalf("wsSpec = %q, want the selected hit", m.wsSpec)
	}
	if m.modal != modalNone {
		t.Fatalf("modal = %v, want closed", m.modal)
	}
	if m.wsSeq != seqBefore+1 || cmd == nil {
		t.Fatal("selection did not reload the worksheet")
	}
}

func TestStaleSearchResultsDropped(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(markupBlock("a", []int{1}, key(0))))
	(&m).openSearch()
	m.search.seq = 5

	mAny, _ := m.Update(searchResultsMsg{seq: 4, refs: []rest.WorksheetRef{{UUID: "0xold"}}})
	m = mAny.(appModel)
	if len(m.search.refs) != 0 {
		t.Fatalf("refs = %v, want stale results dropped", m.search.refs)
	}
}
