package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sheets-cli/internal/ws"

	tea "github.com/charmbracelet/bubbletea"
)

// Row selection for bulk actions. checks[blockIndex][row] mirrors the block's
// current row count; a mask whose length no longer matches is discarded
// rather than guessed at.

func (m *appModel) syncChecks(index int) {
	bs := m.blocks()
	if index < 0 || index >= len(bs) || !checkable(bs[index]) {
		delete(m.checks, index)
		return
	}
	if mask, ok := m.checks[index]; ok && len(mask) != bs[index].RowCount() {
		delete(m.checks, index)
	}
}

// syncChecksAfterReload keeps selection across reloads that did not change a
// block's shape; only masks whose row count no longer matches are dropped.
func (m *appModel) syncChecksAfterReload() {
	for i := range m.checks {
		m.syncChecks(i)
	}
}

func (m *appModel) clearChecks() {
	m.checks = map[int][]bool{}
}

// shiftChecksAfterDrop renumbers masks after the block at dropped was removed
// (placeholder fold-up).
func (m *appModel) shiftChecksAfterDrop(dropped int) {
	next := map[int][]bool{}
	for i, mask := range m.checks {
		switch {
		case i < dropped-1:
			next[i] = mask
		case i == dropped-1 || i == dropped:
			// The merged slot got new content; its old mask is meaningless.
		default:
			next[i-1] = mask
		}
	}
	m.checks = next
}

func (m *appModel) toggleCheck() {
	b := m.focusedBlock()
	if b == nil || !checkable(*b) {
		return
	}
	mask := m.checks[m.focusIndex]
	if len(mask) != b.RowCount() {
		mask = make([]bool, b.RowCount())
	}
	if m.subFocusIndex >= 0 && m.subFocusIndex < len(mask) {
		mask[m.subFocusIndex] = !mask[m.subFocusIndex]
	}
	m.checks[m.focusIndex] = mask
}

// toggleCheckAll checks every row of the focused block, or clears them all if
// every row is already checked.
func (m *appModel) toggleCheckAll() {
	b := m.focusedBlock()
	if b == nil || !checkable(*b) {
		return
	}
	mask := m.checks[m.focusIndex]
	if len(mask) != b.RowCount() {
		mask = make([]bool, b.RowCount())
	}
	all := true
	for _, v := range mask {
		if !v {
			all = false
			break
		}
	}
	for i := range mask {
		mask[i] = !all
	}
	m.checks[m.focusIndex] = mask
}

func checkable(b ws.Block) bool {
	switch b.Mode {
	case ws.ModeTable, ws.ModeMarkup, ws.ModeContents, ws.ModeImage, ws.ModeRecord, ws.ModeGraph, ws.ModeSchema:
		return !b.Dummy
	}
	return false
}

// checkState summarizes a block's mask for the header checkbox: all rows,
// some rows (indeterminate), or none.
type checkState int

const (
	checkedNone checkState = iota
	checkedSome
	checkedAll
)

func (m *appModel) blockCheckState(index int) checkState {
	mask := m.checks[index]
	if len(mask) == 0 {
		return checkedNone
	}
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	switch n {
	case 0:
		return checkedNone
	case len(mask):
		return checkedAll
	default:
		return checkedSome
	}
}

// selectedIDs collects the source-line ids behind every checked row, for bulk
// deletion. Table rows map positionally onto the block's ids.
func (m *appModel) selectedIDs() []int {
	var ids []int
	for i, mask := range m.checks {
		bs := m.blocks()
		if i < 0 || i >= len(bs) {
			continue
		}
		b := bs[i]
		for row, checked := range mask {
			if !checked {
				continue
			}
			if row < len(b.IDs) {
				ids = append(ids, b.IDs[row])
			}
		}
	}
	return ids
}

// selectedBundles collects the bundles behind checked table rows, newest
// block first is not guaranteed; callers treat the set as unordered.
func (m *appModel) selectedBundles() []ws.BundleInfo {
	var out []ws.BundleInfo
	for i, mask := range m.checks {
		bs := m.blocks()
		if i < 0 || i >= len(bs) {
			continue
		}
		b := bs[i]
		if b.Mode != ws.ModeTable || b.Table == nil {
			continue
		}
		for row, checked := range mask {
			if !checked {
				continue
			}
			if row < len(b.Table.BundlesSpec.BundleInfos) {
				out = append(out, b.Table.BundlesSpec.BundleInfos[row])
			}
		}
	}
	return out
}

func (m *appModel) anyChecked() bool {
	for _, mask := range m.checks {
		for _, v := range mask {
			if v {
				return true
			}
		}
	}
	return false
}

// copySelected writes "uuid  name" lines for every checked bundle to the
// clipboard.
func (m *appModel) copySelected() string {
	bundles := m.selectedBundles()
	if len(bundles) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, b := range bundles {
		fmt.Fprintf(&sb, "%s  %s\n", b.UUID, b.Name())
	}
	return sb.String()
}

// contentRef ties a checked table row's bundle to its raw source position,
// first_bundle_source_index + rowIndex, so bulk actions walk rows in
// worksheet source order even across tables.
type contentRef struct {
	rawIndex int
	uuid     string
	name     string
}

func (m *appModel) selectedContentRefs() []contentRef {
	var refs []contentRef
	bs := m.blocks()
	for i, mask := range m.checks {
		if i < 0 || i >= len(bs) {
			continue
		}
		b := bs[i]
		if b.Mode != ws.ModeTable || b.Table == nil {
			continue
		}
		for row, checked := range mask {
			if !checked || row >= len(b.Table.BundlesSpec.BundleInfos) {
				continue
			}
			info := b.Table.BundlesSpec.BundleInfos[row]
			refs = append(refs, contentRef{
				rawIndex: b.Table.FirstBundleSourceIndex + row,
				uuid:     info.UUID,
				name:     info.Name(),
			})
		}
	}
	sort.Slice(refs, func(a, b int) bool { return refs[a].rawIndex < refs[b].rawIndex })
	return refs
}

// showContentsCmd fetches the root listing of every checked bundle, in raw
// source order, and opens one aggregated listing. With nothing checked it
// falls back to the focused row's bundle.
func (m *appModel) showContentsCmd() tea.Cmd {
	refs := m.selectedContentRefs()
	if len(refs) == 0 {
		if b := m.focusedBundle(); b != nil {
			refs = []contentRef{{uuid: b.UUID, name: b.Name()}}
		}
	}
	if len(refs) == 0 {
		return nil
	}
	seq := m.wsSeq
	gw := m.gw
	lim := m.fetches
	return func() tea.Msg {
		ctx := context.Background()
		var sb strings.Builder
		for _, ref := range refs {
			if err := lim.Acquire(ctx); err != nil {
				return bulkContentsMsg{seq: seq, err: err}
			}
			info, err := gw.FetchBundleContents(ctx, ref.uuid, "")
			lim.Release()
			if err != nil {
				return bulkContentsMsg{seq: seq, err: err}
			}
			fmt.Fprintf(&sb, "%s  %s\n", ref.name, ref.uuid)
			if info == nil || len(info.Contents) == 0 {
				sb.WriteString("  (no contents)\n\n")
				continue
			}
			for _, it := range info.Contents {
				line := "  " + it.Name
				if it.Type == "directory" {
					line += "/"
				} else if it.Size > 0 {
					line += "  " + ws.RenderSize(float64(it.Size))
				}
				sb.WriteString(line + "\n")
			}
			sb.WriteString("\n")
		}
		return bulkContentsMsg{seq: seq, listing: strings.TrimRight(sb.String(), "\n")}
	}
}

// detachSelectedCmd removes the checked bundles from this worksheet without
// deleting them, through the server-side detach command.
func (m *appModel) detachSelectedCmd() tea.Cmd {
	if !m.canEdit() {
		return m.showSnackbar("No edit permission")
	}
	refs := m.selectedContentRefs()
	if len(refs) == 0 {
		return nil
	}
	parts := []string{"detach"}
	for _, ref := range refs {
		parts = append(parts, ref.uuid)
	}
	command := strings.Join(parts, " ")
	m.clearChecks()
	gw := m.gw
	uuid := m.sheet.UUID
	return func() tea.Msg {
		res, err := gw.ExecuteCommand(context.Background(), uuid, command)
		return commandDoneMsg{command: command, result: res, err: err}
	}
}
