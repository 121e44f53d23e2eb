package tui

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"sheets-cli/internal/ws"
)

func TestToggleCheckAndBlockState(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(tableBlockRows(3, "ready", key(0), key(1), key(2))))
	m.setFocus(0, 1)

	m.toggleCheck()
	if got := m.blockCheckState(0); got != checkedSome {
		t.Fatalf("state = %v, want checkedSome", got)
	}
	if !m.checks[0][1] {
		t.Fatal("row 1 not checked")
	}

	m.toggleCheck()
	if got := m.blockCheckState(0); got != checkedNone {
		t.Fatalf("state = %v, want checkedNone after untoggle", got)
	}
}

func TestToggleCheckAllFlipsBetweenAllAndNone(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(tableBlockRows(3, "ready", key(0), key(1), key(2))))
	m.setFocus(0, 0)

	m.toggleCheckAll()
	if got := m.blockCheckState(0); got != checkedAll {
		t.Fatalf("state = %v, want checkedAll", got)
	}

	m.toggleCheckAll()
	if got := m.blockCheckState(0); got != checkedNone {
		t.Fatalf("state = %v, want checkedNone", got)
	}

	// A partially checked block fills up rather than clearing.
	m.toggleCheck()
	m.toggleCheckAll()
	if got := m.blockCheckState(0); got != checkedAll {
		t.Fatalf("state = %v, want checkedAll from partial", got)
	}
}

func TestCheckableExcludesDummyAndPlaceholder(t *testing.T) {
	if checkable(ws.DummyMarkupBlock()) {
		t.Fatal("dummy block must not be checkable")
	}
	if checkable(placeholderBlock("% display table")) {
		t.Fatal("placeholder must not be checkable")
	}
	if !checkable(markupBlock("text", []int{1}, key(0))) {
		t.Fatal("markup block should be checkable")
	}
}

func TestSelectedIDsMapsRowsPositionally(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(
		markupBlock("header", []int{7}, key(0)),
		tableBlockRows(3, "ready", key(1), key(2), key(3)),
	))

	m.setFocus(1, 0)
	m.toggleCheck()
	m.setFocus(1, 2)
	m.toggleCheck()

	ids := m.selectedIDs()
	sort.Ints(ids)
	if want := []int{100, 102}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestSelectedBundlesAndCopyText(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(tableBlockRows(2, "ready", key(0), key(1))))

	m.setFocus(0, 1)
	m.toggleCheck()

	bundles := m.selectedBundles()
	if len(bundles) != 1 || bundles[0].UUID != "0xbundleb" {
		t.Fatalf("bundles = %+v, want the second row's bundle", bundles)
	}

	out := m.copySelected()
	if !strings.Contains(out, "0xbundleb") || !strings.Contains(out, "bb") {
		t.Fatalf("copy text = %q, want uuid and name", out)
	}
}

func TestMaskDiscardedWhenRowCountChanges(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(tableBlockRows(3, "ready", key(0), key(1), key(2))))

	m.setFocus(0, 0)
	m.toggleCheck()

	// Rows changed shape out from under the mask.
	m.sheet.Blocks[0].Table.Rows = m.sheet.Blocks[0].Table.Rows[:2]
	m.syncChecks(0)
	if _, ok := m.checks[0]; ok {
		t.Fatal("stale mask survived a row count change")
	}
}

func TestShiftChecksAfterDrop(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(
		tableBlockRows(1, "ready", key(0)),
		markupBlock("x", []int{1}, key(1)),
		tableBlockRows(2, "ready", key(2), key(3)),
	))
	m.checks = map[int][]bool{
		0: {true},
		1: {true},
		2: {true, false},
	}

	// Block 1 merged into block 0; block 2 became block 1.
	m.shiftChecksAfterDrop(1)

	if _, ok := m.checks[0]; ok {
		t.Fatal("merged slot kept its stale mask")
	}
	if got, ok := m.checks[1]; !ok || !reflect.DeepEqual(got, []bool{true, false}) {
		t.Fatalf("checks[1] = %v, want shifted mask [true false]", got)
	}
	if len(m.checks) != 1 {
		t.Fatalf("checks = %v, want exactly one surviving mask", m.checks)
	}
}

func TestChecksSurviveSameShapeReload(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(tableBlockRows(2, "ready", key(0), key(1))))
	m.setFocus(0, 0)
	m.toggleCheck()
	if !m.anyChecked() {
		t.Fatal("setup: nothing checked")
	}

	// A reload that leaves the block's shape alone keeps the mask.
	mAny, _ := m.Update(worksheetMsg{seq: m.wsSeq, ws: sheetWith(tableBlockRows(2, "ready", key(0), key(1)))})
	m = mAny.(appModel)
	if !m.anyChecked() {
		t.Fatal("selection dropped on a same-shape reload")
	}

	// A reload that changes the row count drops it.
	mAny, _ = m.Update(worksheetMsg{seq: m.wsSeq, ws: sheetWith(tableBlockRows(3, "ready", key(0), key(1), key(2)))})
	m = mAny.(appModel)
	if m.anyChecked() {
		t.Fatal("stale mask survived a row count change")
	}
}

func TestSelectedContentRefsFollowRawSourceOrder(t *testing.T) {
	gw := &fakeGateway{}
	first := tableBlockRows(2, "ready", key(0), key(1))
	first.Table.FirstBundleSourceIndex = 10
	second := tableBlockRows(1, "ready", key(3))
	second.Table.FirstBundleSourceIndex = 2
	m := loadedModel(gw, sheetWith(first, markupBlock("between", []int{5}, key(2)), second))

	m.setFocus(0, 1)
	m.toggleCheck()
	m.setFocus(2, 0)
	m.toggleCheck()

	refs := m.selectedContentRefs()
	if len(refs) != 2 {
		t.Fatalf("refs = %+v, want 2", refs)
	}
	if refs[0].rawIndex != 2 || refs[0].uuid != "0xbundlea" {
		t.Fatalf("refs[0] = %+v, want the later table's row first (raw index 2)", refs[0])
	}
	if refs[1].rawIndex != 11 || refs[1].uuid != "0xbundleb" {
		t.Fatalf("refs[1] = %+v, want raw index 11", refs[1])
	}
}

func TestShowContentsAggregatesCheckedRows(t *testing.T) {
	gw := &fakeGateway{
		contents: map[string]*ws.ContentsInfo{
			"0xbundlea": {Name: "", Type: "directory", Contents: []ws.ContentsItem{
				{Name: "train.csv", Type: "file", Size: 2048},
				{Name: "results", Type: "directory"},
			}},
		},
	}
	m := loadedModel(gw, sheetWith(tableBlockRows(2, "ready", key(0), key(1))))
	m.setFocus(0, 0)
	m.toggleCheck()
	m.setFocus(0, 1)
	m.toggleCheck()

	mAny, cmd := m.Update(keyRunes('o'))
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatal("no command issued for show contents")
	}
	raw := cmd()
	msg, ok := raw.(bulkContentsMsg)
	if !ok {
		t.Fatalf("msg = %T, want bulkContentsMsg", raw)
	}
	mAny, _ = m.Update(msg)
	m = mAny.(appModel)

	if m.modal != modalCommandOutput {
		t.Fatalf("modal = %v, want command output", m.modal)
	}
	for _, want := range []string{"train.csv", "results/", "0xbundlea", "0xbundleb", "(no contents)"} {
		if !strings.Contains(m.commandOutput, want) {
			t.Errorf("listing missing %q:\n%s", want, m.commandOutput)
		}
	}
	if len(gw.contentsReqs) != 2 {
		t.Fatalf("contents requests = %v, want one per checked row", gw.contentsReqs)
	}
}

func TestDetachSelectedRunsDetachCommand(t *testing.T) {
	gw := &fakeGateway{}
	m := loadedModel(gw, sheetWith(tableBlockRows(2, "ready", key(0), key(1))))
	m.setFocus(0, 0)
	m.toggleCheck()
	m.setFocus(0, 1)
	m.toggleCheck()

	mAny, cmd := m.Update(keyRunes('D'))
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatal("no command issued for detach")
	}
	drainCmd(cmd)

	if len(gw.commands) != 1 || gw.commands[0] != "detach 0xbundlea 0xbundleb" {
		t.Fatalf("commands = %v", gw.commands)
	}
	if m.anyChecked() {
		t.Fatal("selection survived the detach")
	}
}

func TestDetachRequiresEditPermission(t *testing.T) {
	gw := &fakeGateway{}
	sheet := sheetWith(tableBlockRows(1, "ready", key(0)))
	sheet.EditPermission = false
	m := loadedModel(gw, sheet)
	m.checks = map[int][]bool{0: {true}}

	mAny, _ := m.Update(keyRunes('D'))
	m = mAny.(appModel)
	if len(gw.commands) != 0 {
		t.Fatalf("commands = %v, want none without edit permission", gw.commands)
	}
	if m.snackbarText == "" {
		t.Fatal("expected a permission snackbar")
	}
}
