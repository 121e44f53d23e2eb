package tui

import (
	"context"

	"sheets-cli/internal/ws"

	tea "github.com/charmbracelet/bubbletea"
)

// reloadWorksheet kicks off a full (re)interpretation of the current
// worksheet. It bumps wsSeq so every async result from the previous
// generation is dropped on arrival.
func (m *appModel) reloadWorksheet() tea.Cmd {
	m.wsSeq++
	m.loading = true
	m.resolving = map[string]bool{}
	m.resolveFail = map[string]string{}
	m.noResults = map[string]bool{}
	m.tableFetching = map[int]bool{}
	return m.loadWorksheetCmd(m.wsSeq)
}

func (m *appModel) loadWorksheetCmd(seq int) tea.Cmd {
	spec := m.wsSpec
	gw := m.gw
	return func() tea.Msg {
		sheet, err := gw.FetchWorksheet(context.Background(), spec, nil)
		return worksheetMsg{seq: seq, ws: sheet, err: err}
	}
}

// scheduleResolves scans the current block sequence and starts one fetch per
// unresolved placeholder and per briefly-loaded table, capped by the shared
// limiter. Already-failed and no-result directives stay terminal until the
// next full reload.
func (m *appModel) scheduleResolves() tea.Cmd {
	var cmds []tea.Cmd
	for i, b := range m.blocks() {
		switch b.Mode {
		case ws.ModePlaceholder:
			if b.Placeholder == nil {
				continue
			}
			d := b.Placeholder.Directive
			if m.resolving[d] || m.noResults[d] {
				continue
			}
			if _, failed := m.resolveFail[d]; failed {
				continue
			}
			m.resolving[d] = true
			cmds = append(cmds, m.resolvePlaceholderCmd(d))
		case ws.ModeTable:
			if b.Table == nil || b.Table.Status.Code != ws.StatusBrieflyLoaded {
				continue
			}
			if m.tableFetching[i] {
				continue
			}
			m.tableFetching[i] = true
			cmds = append(cmds, m.fetchTableContentsCmd(i, b.Table.Rows))
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *appModel) resolvePlaceholderCmd(directive string) tea.Cmd {
	seq := m.wsSeq
	gw := m.gw
	lim := m.fetches
	uuid := m.sheet.UUID
	return func() tea.Msg {
		ctx := context.Background()
		if err := lim.Acquire(ctx); err != nil {
			return blockResolvedMsg{seq: seq, directive: directive, err: err}
		}
		defer lim.Release()
		blocks, err := gw.FetchInterpretedBlock(ctx, uuid, directive)
		return blockResolvedMsg{seq: seq, directive: directive, interpreted: blocks, err: err}
	}
}

func (m *appModel) fetchTableContentsCmd(index int, rows []map[string]any) tea.Cmd {
	seq := m.wsSeq
	gw := m.gw
	lim := m.fetches
	uuid := m.sheet.UUID
	return func() tea.Msg {
		ctx := context.Background()
		if err := lim.Acquire(ctx); err != nil {
			return tableContentsMsg{seq: seq, index: index, err: err}
		}
		defer lim.Release()
		out, err := gw.FetchAsyncTableContents(ctx, uuid, rows)
		return tableContentsMsg{seq: seq, index: index, rows: out, err: err}
	}
}

// applyResolved reconciles one placeholder resolution into the sheet. The
// placeholder is located by directive because fold-ups from earlier
// resolutions may have shifted indices since the fetch was scheduled.
func (m *appModel) applyResolved(msg blockResolvedMsg) {
	delete(m.resolving, msg.directive)
	if msg.err != nil {
		m.resolveFail[msg.directive] = msg.err.Error()
		return
	}
	idx := m.placeholderIndex(msg.directive)
	if idx < 0 {
		return
	}
	r := ws.ResolvePlaceholder(m.sheet.Blocks[idx], idx, msg.interpreted)
	if r.NoResults {
		m.noResults[msg.directive] = true
		return
	}
	m.sheet.Blocks = ws.ApplyResolved(m.sheet.Blocks, idx, r)
	if r.FoldUp {
		// Indices after idx shifted down by one; selection state keyed by
		// index is no longer trustworthy past this point.
		m.shiftChecksAfterDrop(idx)
		if m.focusIndex >= idx {
			m.setFocus(m.focusIndex-1, m.subFocusIndex)
		}
	}
}

func (m *appModel) placeholderIndex(directive string) int {
	for i, b := range m.blocks() {
		if b.Mode == ws.ModePlaceholder && b.Placeholder != nil && b.Placeholder.Directive == directive {
			return i
		}
	}
	return -1
}

// applyTableContents swaps async rows into a briefly-loaded table. A stale
// index (the block moved or was replaced) leaves the sheet untouched; the
// table re-triggers on the next reload.
func (m *appModel) applyTableContents(msg tableContentsMsg) {
	delete(m.tableFetching, msg.index)
	if msg.err != nil {
		return
	}
	bs := m.blocks()
	if msg.index < 0 || msg.index >= len(bs) {
		return
	}
	b := &m.sheet.Blocks[msg.index]
	if b.Mode != ws.ModeTable || b.Table == nil || b.Table.Status.Code != ws.StatusBrieflyLoaded {
		return
	}
	b.Table.Rows = msg.rows
	b.Table.Status = ws.BlockStatus{Code: ws.StatusReady}
	m.syncChecks(msg.index)
}
