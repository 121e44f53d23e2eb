package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	minSheetWidth = 40
	panelWidth    = 48
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return ""
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if bodyHeight < 4 {
		bodyHeight = 4
	}

	var body string
	switch {
	case m.loading && m.sheet == nil:
		body = m.spin.View() + " Loading worksheet…"
	case m.notFound:
		body = styleError().Render("Worksheet not found: " + m.wsSpec)
	case m.sheetErr != "":
		body = styleError().Render(m.sheetErr)
	default:
		body = m.renderSheet(bodyHeight)
	}

	screen := strings.Join([]string{header, body, footer}, "\n\n")

	if m.modal != modalNone {
		return m.renderModal()
	}
	return screen
}

func (m appModel) renderSheet(height int) string {
	sheetWidth := m.width - 2
	if m.panel.open {
		sheetWidth = m.width - panelWidth - 2
		if sheetWidth < minSheetWidth {
			sheetWidth = minSheetWidth
		}
	}

	var parts []string
	focusLine := 0
	lineCount := 0
	for i, b := range m.blocks() {
		s := (&m).renderBlock(i, b, sheetWidth)
		if i == m.focusIndex {
			focusLine = lineCount
		}
		parts = append(parts, s)
		lineCount += lipgloss.Height(s) + 1
	}
	sheet := strings.Join(parts, "\n\n")

	// Keep the focused block in view: window the sheet so focus sits about a
	// third of the way down.
	offset := focusLine - height/3
	if offset < 0 {
		offset = 0
	}
	sheet = scrollLines(sheet, offset, height)

	if !m.panel.open {
		return sheet
	}
	left := lipgloss.NewStyle().Width(sheetWidth).Render(sheet)
	right := (&m).renderPanel(panelWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m appModel) renderHeader() string {
	name := m.wsSpec
	title := ""
	owner := ""
	if m.sheet != nil {
		name = m.sheet.Name
		title = m.sheet.Title
		owner = m.sheet.OwnerName
	}

	left := lipgloss.NewStyle().Bold(true).Render(name)
	if title != "" {
		left += "  " + styleMuted().Render(title)
	}
	if owner != "" {
		left += styleMuted().Render("  ·  " + owner)
	}
	if m.sheet != nil && !m.sheet.EditPermission {
		left += styleMuted().Render("  [read-only]")
	}
	if m.loading {
		left += "  " + m.spin.View()
	}

	right := ""
	if m.user != nil {
		right = styleMuted().Render(m.user.UserName)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func (m appModel) renderFooter() string {
	if m.upload.inFlight {
		return " " + fmt.Sprintf("Uploading %s… %d%%", m.upload.name, m.upload.percent())
	}
	if m.snackbarText != "" {
		return " " + m.snackbarText
	}
	help := "j/k: move  enter: open  e: edit  n: new text  x: select  o: contents  D: detach  d: delete  U: upload  R: run  /: search  q: quit"
	if m.pane == panePanel {
		help = "j/k: field  enter: edit  p: permissions  a: copy args  f: files  tab: back  q: quit"
	}
	return " " + styleMuted().Render(truncateLine(help, m.width-2))
}

func (m appModel) renderModal() string {
	switch m.modal {
	case modalEditText, modalNewText, modalEditSchema:
		title := "Edit text"
		if m.modal == modalNewText {
			title = "New text"
		} else if m.modal == modalEditSchema {
			title = "Edit schema"
		}
		content := strings.Join([]string{
			lipgloss.NewStyle().Bold(true).Render(title),
			"",
			m.editor.body.View(),
			"",
			styleMuted().Render("ctrl+s: save   esc: cancel"),
		}, "\n")
		return modalBox(m.width, m.height, content)

	case modalNewRun:
		content := strings.Join([]string{
			lipgloss.NewStyle().Bold(true).Render("New run"),
			"",
			m.run.command.View(),
			"",
			"name:   " + m.run.name.View(),
			"image:  " + m.run.image.View(),
			"gpus:   " + m.run.gpus.View(),
			"memory: " + m.run.memory.View(),
			"",
			styleMuted().Render("tab: next field   ctrl+s: submit   esc: cancel"),
		}, "\n")
		return modalBox(m.width, m.height, content)

	case modalUploadPick:
		content := strings.Join([]string{
			lipgloss.NewStyle().Bold(true).Render("Upload file or folder"),
			"",
			m.upload.picker.View(),
			"",
			styleMuted().Render("enter: pick   esc: cancel"),
		}, "\n")
		return modalBox(m.width, m.height, content)

	case modalNewWorksheet:
		content := strings.Join([]string{
			lipgloss.NewStyle().Bold(true).Render("New worksheet"),
			"",
			m.nameInput.View(),
			"",
			styleMuted().Render("enter: create   esc: cancel"),
		}, "\n")
		return modalBox(m.width, m.height, content)

	case modalEditField:
		content := strings.Join([]string{
			lipgloss.NewStyle().Bold(true).Render("Edit " + m.panel.editingField),
			"",
			m.fieldInput.View(),
			"",
			styleMuted().Render("enter: save   esc: cancel"),
		}, "\n")
		return modalBox(m.width, m.height, content)

	case modalSetPermission:
		lines := []string{lipgloss.NewStyle().Bold(true).Render("Set permission"), ""}
		if s := permissionSummary(m.panel.bundle); s != "" {
			lines = append(lines, styleMuted().Render("current: ")+s, "")
		}
		lines = append(lines,
			m.fieldInput.View(),
			"",
			styleMuted().Render("e.g. \"public read\", \"mygroup all\", \"public none\""),
			styleMuted().Render("enter: apply   esc: cancel"),
		)
		return modalBox(m.width, m.height, strings.Join(lines, "\n"))

	case modalSearchWorksheets:
		lines := []string{
			lipgloss.NewStyle().Bold(true).Render("Open worksheet"),
			"",
			m.search.input.View(),
			"",
		}
		if m.search.searching {
			lines = append(lines, m.spin.View()+" searching…")
		}
		for i, ref := range m.search.refs {
			label := ref.Name
			if ref.Title != "" {
				label += "  " + styleMuted().Render(ref.Title)
			}
			line := "  " + label
			if i == m.search.sel {
				line = styleSelected().Render("❯ " + label)
			}
			lines = append(lines, truncateLine(line, modalBodyWidth(m.width)-4))
		}
		lines = append(lines, "", styleMuted().Render("enter: open   esc: cancel"))
		return modalBox(m.width, m.height, strings.Join(lines, "\n"))

	case modalConfirmDelete:
		content := strings.Join([]string{
			lipgloss.NewStyle().Bold(true).Render("Delete items"),
			"",
			fmt.Sprintf("Remove %d source line(s) from this worksheet?", len(m.deleteIDs)),
			styleMuted().Render("Bundles themselves are not deleted."),
			"",
			renderConfirmButtons("Delete", "Cancel", m.confirmFocus),
			"",
			styleMuted().Render("y/enter: confirm   n/esc: cancel"),
		}, "\n")
		return modalBox(m.width, m.height, content)

	case modalFileBrowser:
		return (&m).renderFileBrowser(m.width, m.height)

	case modalCommandOutput:
		content := strings.Join([]string{
			lipgloss.NewStyle().Bold(true).Render("Output"),
			"",
			wordwrap.String(m.commandOutput, modalBodyWidth(m.width)-4),
			"",
			styleMuted().Render("enter/esc: close"),
		}, "\n")
		return modalBox(m.width, m.height, content)
	}
	return ""
}

func renderConfirmButtons(confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	btn := lipgloss.NewStyle().Padding(0, 1).Background(colorControlBg).Foreground(colorSurfaceFg)
	active := lipgloss.NewStyle().Padding(0, 1).Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)

	confirm := btn.Render(confirmLabel)
	cancel := btn.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = active.Render(confirmLabel)
	} else {
		cancel = active.Render(cancelLabel)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
}
