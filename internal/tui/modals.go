package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// updateModal routes all input while a modal is open, so text components see
// every keystroke and global bindings can't fire underneath.
func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalEditText, modalNewText, modalEditSchema:
		return m.updateEditorKeys(msg)
	case modalNewRun:
		return m.updateRunKeys(msg)
	case modalUploadPick:
		return m.updateUploadPickKeys(msg)
	case modalNewWorksheet:
		return m.updateNewWorksheetKeys(msg)
	case modalEditField:
		return m.updateEditFieldKeys(msg)
	case modalSetPermission:
		return m.updatePermissionKeys(msg)
	case modalSearchWorksheets:
		return m.updateSearchKeys(msg)
	case modalConfirmDelete:
		return m.updateConfirmDeleteKeys(msg)
	case modalFileBrowser:
		return m.updateFileBrowserKeys(msg)
	case modalCommandOutput:
		switch msg.String() {
		case "esc", "enter", "q":
			m.closeModal()
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) updateEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "ctrl+s":
		cmd := (&m).saveEditor()
		m.closeModal()
		return m, cmd
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.editor.body, cmd = m.editor.body.Update(msg)
	return m, cmd
}

func (m appModel) updateRunKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "ctrl+s":
		cmd := (&m).submitRun()
		m.closeModal()
		return m, cmd
	case "tab":
		m.run.focusField((m.run.focusIdx + 1) % 5)
		return m, nil
	case "shift+tab":
		m.run.focusField((m.run.focusIdx + 4) % 5)
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.run.focusIdx {
	case 0:
		m.run.command, cmd = m.run.command.Update(msg)
	case 1:
		m.run.name, cmd = m.run.name.Update(msg)
	case 2:
		m.run.image, cmd = m.run.image.Update(msg)
	case 3:
		m.run.gpus, cmd = m.run.gpus.Update(msg)
	case 4:
		m.run.memory, cmd = m.run.memory.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateUploadPickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g", "q":
		m.closeModal()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.upload.picker, cmd = m.upload.picker.Update(msg)
	if didSelect, path := m.upload.picker.DidSelectFile(msg); didSelect {
		return m, (&m).startUpload(path)
	}
	return m, cmd
}

func (m appModel) updateNewWorksheetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			return m, nil
		}
		gw := m.gw
		return m, func() tea.Msg {
			uuid, err := gw.NewWorksheet(context.Background(), name)
			return worksheetCreatedMsg{uuid: uuid, err: err}
		}
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m appModel) updateEditFieldKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.panel.editingField = ""
		m.closeModal()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		cmd := (&m).saveFieldEdit()
		m.panel.editingField = ""
		m.closeModal()
		return m, cmd
	}
	var cmd tea.Cmd
	m.fieldInput, cmd = m.fieldInput.Update(msg)
	return m, cmd
}

func (m appModel) updatePermissionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		cmd := (&m).setPermissionCmd(m.fieldInput.Value())
		m.closeModal()
		return m, cmd
	}
	var cmd tea.Cmd
	m.fieldInput, cmd = m.fieldInput.Update(msg)
	return m, cmd
}

func (m appModel) updateSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "down", "ctrl+n":
		if m.search.sel < len(m.search.refs)-1 {
			m.search.sel++
		}
		return m, nil
	case "up", "ctrl+p":
		if m.search.sel > 0 {
			m.search.sel--
		}
		return m, nil
	case "enter":
		return m, (&m).openSelectedSearchResult()
	}
	var cmd tea.Cmd
	before := m.search.input.Value()
	m.search.input, cmd = m.search.input.Update(msg)
	if m.search.input.Value() != before {
		return m, tea.Batch(cmd, (&m).bumpSearch())
	}
	return m, cmd
}

func (m appModel) updateConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g", "n":
		m.closeModal()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		m.confirmFocus = confirmFocusConfirm
		fallthrough
	case "enter":
		if m.confirmFocus != confirmFocusConfirm {
			m.closeModal()
			return m, nil
		}
		ids := m.deleteIDs
		m.closeModal()
		m.clearChecks()
		return m, (&m).deleteItemsCmd(ids)
	}
	return m, nil
}
