package tui

import (
	"context"
	"strings"
	"time"

	"sheets-cli/internal/rest"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const searchDebounce = 250 * time.Millisecond

// searchState backs the worksheet picker: a keyword input with debounced
// server-side search and a selectable result list.
type searchState struct {
	input     textinput.Model
	seq       int
	refs      []rest.WorksheetRef
	sel       int
	searching bool
}

func newSearchState() searchState {
	in := textinput.New()
	in.Placeholder = "search worksheets (keywords, .mine, name=…)"
	in.CharLimit = 200
	in.Width = 48
	return searchState{input: in}
}

func (s *searchState) close() {
	s.input.SetValue("")
	s.input.Blur()
	s.refs = nil
	s.sel = 0
	s.searching = false
}

func (m *appModel) openSearch() {
	m.search.close()
	m.search.input.Focus()
	m.modal = modalSearchWorksheets
}

// bumpSearch schedules a debounced search for the current input. Older ticks
// are dropped by seq, so only the final keystroke in a burst queries.
func (m *appModel) bumpSearch() tea.Cmd {
	m.search.seq++
	seq := m.search.seq
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func (m appModel) onSearchDebounce(msg searchDebounceMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalSearchWorksheets || msg.seq != m.search.seq {
		return m, nil
	}
	keywords := strings.Fields(m.search.input.Value())
	if len(keywords) == 0 {
		m.search.refs = nil
		m.search.sel = 0
		return m, nil
	}
	m.search.searching = true
	seq := m.search.seq
	gw := m.gw
	return m, func() tea.Msg {
		refs, err := gw.SearchWorksheets(context.Background(), keywords)
		return searchResultsMsg{seq: seq, refs: refs, err: err}
	}
}

func (m appModel) onSearchResults(msg searchResultsMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalSearchWorksheets || msg.seq != m.search.seq {
		return m, nil
	}
	m.search.searching = false
	if msg.err != nil {
		return m, (&m).showSnackbar("Search failed: " + msg.err.Error())
	}
	m.search.refs = msg.refs
	if m.search.sel >= len(msg.refs) {
		m.search.sel = 0
	}
	return m, nil
}

// openSelectedSearchResult navigates to the highlighted worksheet.
func (m *appModel) openSelectedSearchResult() tea.Cmd {
	if m.search.sel < 0 || m.search.sel >= len(m.search.refs) {
		return nil
	}
	m.wsSpec = m.search.refs[m.search.sel].UUID
	m.closeModal()
	m.panel = panelState{}
	m.pane = paneSheet
	m.setFocus(-1, 0)
	return m.reloadWorksheet()
}
