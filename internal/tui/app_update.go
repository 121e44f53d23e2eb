package tui

import (
	"context"
	"strings"

	"sheets-cli/internal/rest"
	"sheets-cli/internal/ws"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadWorksheetCmd(m.wsSeq), m.fetchUserCmd())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.resizeComponents()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case worksheetMsg:
		if msg.seq != m.wsSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.sheet = nil
			m.notFound = rest.IsNotFound(msg.err)
			m.sheetErr = msg.err.Error()
			return m, nil
		}
		m.sheetErr = ""
		m.notFound = false
		m.sheet = msg.ws
		m.sheet.EnsureRenderable()
		(&m).syncChecksAfterReload()
		if m.pendingFocus >= 0 {
			m.setFocus(m.pendingFocus, 0)
			m.pendingFocus = -1
		} else {
			m.clampFocus()
		}
		return m, (&m).scheduleResolves()

	case blockResolvedMsg:
		if msg.seq != m.wsSeq || m.sheet == nil {
			return m, nil
		}
		(&m).applyResolved(msg)
		(&m).clampFocus()
		// A substituted block can itself be a briefly-loaded table.
		return m, (&m).scheduleResolves()

	case tableContentsMsg:
		if msg.seq != m.wsSeq || m.sheet == nil {
			return m, nil
		}
		(&m).applyTableContents(msg)
		return m, nil

	case bundleMsg:
		return m.onBundleMsg(msg)

	case bundleContentsMsg:
		return m.onBundleContentsMsg(msg)

	case fileSummaryMsg:
		return m.onFileSummaryMsg(msg)

	case bundleStoresMsg:
		return m.onBundleStoresMsg(msg)

	case metadataSavedMsg:
		return m.onMetadataSaved(msg)

	case itemsSavedMsg:
		if msg.err != nil {
			return m, (&m).showSnackbar("Save failed: " + msg.err.Error())
		}
		if msg.moveFocusTo >= 0 {
			m.pendingFocus = msg.moveFocusTo
		}
		return m, (&m).reloadWorksheet()

	case commandDoneMsg:
		return m.onCommandDone(msg)

	case bulkContentsMsg:
		if msg.seq != m.wsSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, (&m).showSnackbar("Contents failed: " + msg.err.Error())
		}
		m.commandOutput = msg.listing
		m.modal = modalCommandOutput
		return m, nil

	case uploadProgressMsg:
		return m.onUploadProgress(msg)

	case uploadDoneMsg:
		return m.onUploadDone(msg)

	case searchDebounceMsg:
		return m.onSearchDebounce(msg)

	case searchResultsMsg:
		return m.onSearchResults(msg)

	case worksheetCreatedMsg:
		if msg.err != nil {
			return m, (&m).showSnackbar("Create failed: " + msg.err.Error())
		}
		m.wsSpec = msg.uuid
		m.closeModal()
		m.panel = panelState{}
		m.pane = paneSheet
		m.setFocus(-1, 0)
		return m, tea.Batch((&m).showSnackbar("Created worksheet"), (&m).reloadWorksheet())

	case userMsg:
		if msg.err == nil {
			m.user = msg.user
		}
		return m, nil

	case snackbarExpireMsg:
		if msg.seq == m.snackbarSeq {
			m.snackbarText = ""
		}
		return m, nil

	case tea.KeyMsg:
		m.debugKeyMsg(msg)
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if m.pane == panePanel {
			return m.updatePanelKeys(msg)
		}
		return m.updateSheetKeys(msg)
	}

	// The file picker drives itself with internal messages (directory reads);
	// forward anything we don't recognize while it is open.
	if m.modal == modalUploadPick {
		var cmd tea.Cmd
		m.upload.picker, cmd = m.upload.picker.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) updateSheetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	pendingG := m.pendingG
	m.pendingG = false

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		return m, (&m).reloadWorksheet()

	case "j", "down":
		(&m).moveFocusDown()
		return m, nil

	case "k", "up":
		(&m).moveFocusUp()
		return m, nil

	case "g":
		if pendingG {
			(&m).focusTop()
			return m, nil
		}
		m.pendingG = true
		return m, nil

	case "G":
		(&m).focusBottom()
		return m, nil

	case "home":
		m.setFocus(-1, 0)
		return m, nil

	case "x", " ":
		(&m).toggleCheck()
		return m, nil

	case "X":
		(&m).toggleCheckAll()
		return m, nil

	case "c":
		if out := m.copySelected(); out != "" {
			if err := copyToClipboard(out); err != nil {
				return m, (&m).showSnackbar("Copy failed: " + err.Error())
			}
			return m, (&m).showSnackbar("Copied selection")
		}
		return m, nil

	case "u":
		if b := m.focusedBundle(); b != nil {
			if err := copyToClipboard(b.UUID); err != nil {
				return m, (&m).showSnackbar("Copy failed: " + err.Error())
			}
			return m, (&m).showSnackbar("Copied " + b.UUID)
		}
		return m, nil

	case "a":
		if args := m.focusedArgs(); args != "" {
			if err := copyToClipboard(args); err != nil {
				return m, (&m).showSnackbar("Copy failed: " + err.Error())
			}
			return m, (&m).showSnackbar("Copied args")
		}
		return m, nil

	case "o":
		return m, (&m).showContentsCmd()

	case "D":
		return m, (&m).detachSelectedCmd()

	case "enter":
		return m.openFocused()

	case "e":
		return m.editFocused()

	case "n":
		if !m.canEdit() {
			return m, (&m).showSnackbar("No edit permission")
		}
		(&m).openNewTextEditor()
		return m, nil

	case "R":
		if !m.canEdit() {
			return m, (&m).showSnackbar("No edit permission")
		}
		(&m).openRunDialog()
		return m, nil

	case "U":
		if !m.canEdit() {
			return m, (&m).showSnackbar("No edit permission")
		}
		return m, (&m).openUploadPicker()

	case "d", "backspace":
		return m.stageDelete()

	case "f":
		if b := m.focusedBundle(); b != nil {
			return m, (&m).openFileBrowser(b.UUID)
		}
		return m, nil

	case "/":
		(&m).openSearch()
		return m, nil

	case "N":
		m.modal = modalNewWorksheet
		m.nameInput.Placeholder = "worksheet name"
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, nil

	case "tab":
		if m.panel.open {
			m.pane = panePanel
		}
		return m, nil

	case "esc":
		if m.panel.open {
			m.panel = panelState{}
			return m, nil
		}
		return m, nil
	}

	return m, nil
}

// focusedBundle returns the bundle behind the current (block, row) focus, or
// nil when the focused slot has no backing bundle.
func (m *appModel) focusedBundle() *ws.BundleInfo {
	b := m.focusedBlock()
	if b == nil {
		return nil
	}
	switch b.Mode {
	case ws.ModeTable:
		if b.Table != nil && m.subFocusIndex < len(b.Table.BundlesSpec.BundleInfos) {
			return &b.Table.BundlesSpec.BundleInfos[m.subFocusIndex]
		}
	case ws.ModeContents, ws.ModeImage, ws.ModeRecord, ws.ModeGraph:
		return b.FirstBundle()
	}
	return nil
}

// focusedArgs returns the creating command line of the focused run row, or "".
func (m *appModel) focusedArgs() string {
	if b := m.focusedBundle(); b != nil {
		return b.Args
	}
	return ""
}

func (m appModel) openFocused() (tea.Model, tea.Cmd) {
	b := m.focusedBlock()
	if b == nil {
		return m, nil
	}
	switch b.Mode {
	case ws.ModeMarkup, ws.ModeSchema:
		return m.editFocused()
	case ws.ModeSubworksheets:
		if b.Subworksheets != nil && m.subFocusIndex < len(b.Subworksheets.Infos) {
			m.wsSpec = b.Subworksheets.Infos[m.subFocusIndex].UUID
			m.panel = panelState{}
			m.pane = paneSheet
			m.setFocus(-1, 0)
			return m, (&m).reloadWorksheet()
		}
	default:
		if bundle := m.focusedBundle(); bundle != nil {
			return m, (&m).openBundlePanel(bundle.UUID)
		}
	}
	return m, nil
}

func (m appModel) editFocused() (tea.Model, tea.Cmd) {
	b := m.focusedBlock()
	if b == nil {
		return m, nil
	}
	if !m.canEdit() {
		return m, (&m).showSnackbar("No edit permission")
	}
	switch b.Mode {
	case ws.ModeMarkup:
		(&m).openTextEditor(m.focusIndex)
		return m, nil
	case ws.ModeSchema:
		(&m).openSchemaEditor(m.focusIndex)
		return m, nil
	}
	return m, nil
}

func (m appModel) stageDelete() (tea.Model, tea.Cmd) {
	if !m.canEdit() {
		return m, (&m).showSnackbar("No edit permission")
	}
	ids := m.selectedIDs()
	if len(ids) == 0 {
		// No checkboxes: stage the focused block's lines instead.
		if b := m.focusedBlock(); b != nil && !b.Dummy {
			ids = append(ids, b.IDs...)
		}
	}
	if len(ids) == 0 {
		return m, nil
	}
	m.deleteIDs = ids
	m.confirmFocus = confirmFocusConfirm
	m.modal = modalConfirmDelete
	return m, nil
}

// deleteItems replaces the staged source lines with nothing.
func (m *appModel) deleteItemsCmd(ids []int) tea.Cmd {
	gw := m.gw
	uuid := m.sheet.UUID
	return func() tea.Msg {
		err := gw.AddItems(context.Background(), uuid, rest.AddItemsRequest{IDs: ids})
		return itemsSavedMsg{moveFocusTo: -1, err: err}
	}
}

func (m appModel) onCommandDone(msg commandDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, (&m).showSnackbar("Command failed: " + msg.err.Error())
	}
	var cmds []tea.Cmd
	if msg.result != nil {
		for _, action := range msg.result.StructuredResult.UIActions {
			if len(action) >= 2 && action[0] == "openWorksheet" {
				m.wsSpec = action[1]
				m.panel = panelState{}
				m.pane = paneSheet
			}
		}
		if out := strings.TrimSpace(msg.result.Output); out != "" {
			m.commandOutput = out
			m.modal = modalCommandOutput
		}
	}
	cmds = append(cmds, (&m).reloadWorksheet())
	if m.panel.open {
		cmds = append(cmds, (&m).refreshPanel())
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) fetchUserCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		u, err := gw.FetchUser(context.Background())
		return userMsg{user: u, err: err}
	}
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.deleteIDs = nil
	m.commandOutput = ""
	m.nameInput.Blur()
	m.fieldInput.Blur()
	m.editor.close()
	m.run.close()
	m.search.close()
}

func (m *appModel) resizeComponents() {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	m.editor.body.SetWidth(w)
	m.run.command.SetWidth(w)
	m.upload.picker.Height = pickerHeight(m.height)
}
