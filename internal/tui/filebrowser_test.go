package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sheets-cli/internal/ws"
)

func dirInfo(items ...ws.ContentsItem) *ws.ContentsInfo {
	return &ws.ContentsInfo{Name: "", Type: "directory", Contents: items}
}

func browserModel(t *testing.T, gw *fakeGateway, root *ws.ContentsInfo) appModel {
	t.Helper()
	m := loadedModel(gw, sheetWith(tableBlockRows(1, "ready", key(0))))
	m.setFocus(0, 0)

	mAny, cmd := m.Update(keyRunes('f'))
	m = mAny.(appModel)
	if m.modal != modalFileBrowser || !m.browser.open {
		t.Fatalf("browser not opened: modal=%v open=%v", m.modal, m.browser.open)
	}
	if cmd == nil {
		t.Fatal("opening the browser fetched nothing")
	}

	mAny, _ = m.Update(bundleContentsMsg{seq: m.browser.seq, path: "", info: root})
	return mAny.(appModel)
}

func TestBrowserDescendsIntoDirectories(t *testing.T) {
	gw := &fakeGateway{}
	m := browserModel(t, gw, dirInfo(
		ws.ContentsItem{Name: "results", Type: "directory"},
		ws.ContentsItem{Name: "stdout", Type: "file", Size: 512},
	))

	mAny, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)
	if m.browser.path != "results" {
		t.Fatalf("path = %q, want the selected directory", m.browser.path)
	}
	if !m.browser.loading || cmd == nil {
		t.Fatal("descending did not fetch the child listing")
	}

	mAny, _ = m.Update(bundleContentsMsg{seq: m.browser.seq, path: "results", info: dirInfo(
		ws.ContentsItem{Name: "metrics.json", Type: "file", Size: 64},
	)})
	m = mAny.(appModel)
	if len(m.browser.info.Contents) != 1 || m.browser.info.Contents[0].Name != "metrics.json" {
		t.Fatalf("contents = %+v, want the child listing", m.browser.info)
	}

	// Backspace walks back up to the root.
	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = mAny.(appModel)
	if m.browser.path != "" {
		t.Fatalf("path = %q, want the root", m.browser.path)
	}
}

func TestBrowserPreviewsFiles(t *testing.T) {
	gw := &fakeGateway{}
	m := browserModel(t, gw, dirInfo(
		ws.ContentsItem{Name: "stdout", Type: "file", Size: 512},
	))

	mAny, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatal("file selection did not fetch a summary")
	}

	mAny, _ = m.Update(fileSummaryMsg{seq: m.browser.seq, path: "stdout", summary: "epoch 1: 0.91"})
	m = mAny.(appModel)
	if m.browser.summary != "epoch 1: 0.91" || m.browser.summaryPath != "stdout" {
		t.Fatalf("summary = %q (%q), want the preview", m.browser.summary, m.browser.summaryPath)
	}

	// esc leaves the preview first, then closes the browser.
	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mAny.(appModel)
	if m.browser.summary != "" || !m.browser.open {
		t.Fatal("esc should drop the preview but keep the browser open")
	}
	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mAny.(appModel)
	if m.browser.open || m.modal != modalNone {
		t.Fatal("second esc should close the browser")
	}
}

func TestBrowserNilContentsIsEmptyNotError(t *testing.T) {
	gw := &fakeGateway{}
	m := browserModel(t, gw, nil)

	if m.browser.err != "" {
		t.Fatalf("err = %q, want deleted content shown as empty", m.browser.err)
	}
	if m.browser.loading {
		t.Fatal("browser stuck loading")
	}
}

func TestBrowserStaleListingDropped(t *testing.T) {
	gw := &fakeGateway{}
	m := browserModel(t, gw, dirInfo(ws.ContentsItem{Name: "a", Type: "file"}))

	mAny, _ := m.Update(bundleContentsMsg{seq: m.browser.seq - 1, path: "old", info: dirInfo(
		ws.ContentsItem{Name: "stale", Type: "file"},
	)})
	m = mAny.(appModel)
	if m.browser.info.Contents[0].Name != "a" {
		t.Fatal("stale listing replaced the current one")
	}
}

func TestParentAndJoinPathHelpers(t *testing.T) {
	if got := parentPath("a/b/c"); got != "a/b" {
		t.Fatalf("parentPath = %q, want a/b", got)
	}
	if got := parentPath("a"); got != "" {
		t.Fatalf("parentPath = %q, want root", got)
	}
	if got := joinBundlePath("", "x"); got != "x" {
		t.Fatalf("join = %q, want x", got)
	}
	if got := joinBundlePath("a/b", "x"); got != "a/b/x" {
		t.Fatalf("join = %q, want a/b/x", got)
	}
}
