package tui

import (
	"context"
	"fmt"
	"strings"

	"sheets-cli/internal/ws"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// panelState is the bundle detail side panel: metadata fields grouped into
// sections, the root contents listing, and a head/tail summary of stdout for
// runs. Field edits are optimistic with rollback on failure.
type panelState struct {
	open    bool
	seq     int
	uuid    string
	loading bool
	err     string

	bundle     *ws.Bundle
	fields     map[string]ws.FieldDescriptor
	fieldOrder []string
	fieldIdx   int

	contents    *ws.ContentsInfo
	summary     string
	summaryPath string
	stores      []ws.BundleStore

	scroll int

	editingField string
	savedRaw     any
}

// Field ordering for the panel sections. Only fields with a value or an
// editable slot render.
var (
	panelPrimaryFields = []string{
		"name", "uuid", "bundle_type", "state", "command", "description",
		"owner", "created", "data_size", "tags", "allow_failed_dependencies",
		"exitcode", "failure_message",
	}
	panelTimeFields = []string{
		"time", "time_user", "time_system", "time_preparing", "time_running",
		"time_cleaning_up", "time_uploading_results",
	}
	panelResourceFields = []string{
		"request_docker_image", "docker_image", "request_time", "request_memory",
		"request_disk", "request_cpus", "request_gpus", "request_queue",
		"request_priority", "request_network", "memory", "cpu_usage",
	}
	panelSourceFields    = []string{"source_url", "link_url", "license"}
	panelExclusionFields = []string{"exclude_patterns"}
)

// panelFieldGroups is the section layout for the current bundle: resource
// fields only mean something for runs, source fields only for datasets.
func (m *appModel) panelFieldGroups() [][]string {
	groups := [][]string{panelPrimaryFields, m.panelTimeGroup()}
	if m.panel.bundle != nil {
		switch m.panel.bundle.BundleType {
		case ws.BundleTypeRun:
			groups = append(groups, panelResourceFields)
		case ws.BundleTypeDataset:
			groups = append(groups, panelSourceFields)
		}
	}
	return append(groups, panelExclusionFields)
}

func (m *appModel) openBundlePanel(uuid string) tea.Cmd {
	m.panel = panelState{
		open:    true,
		seq:     m.panel.seq + 1,
		uuid:    uuid,
		loading: true,
	}
	m.pane = panePanel
	return m.refreshPanel()
}

func (m *appModel) refreshPanel() tea.Cmd {
	seq := m.panel.seq
	uuid := m.panel.uuid
	gw := m.gw
	lim := m.fetches

	meta := func() tea.Msg {
		b, err := gw.FetchBundleMetadata(context.Background(), uuid)
		return bundleMsg{seq: seq, bundle: b, err: err}
	}
	contents := func() tea.Msg {
		ctx := context.Background()
		if err := lim.Acquire(ctx); err != nil {
			return bundleContentsMsg{seq: seq, err: err}
		}
		defer lim.Release()
		info, err := gw.FetchBundleContents(ctx, uuid, "")
		return bundleContentsMsg{seq: seq, path: "", info: info, err: err}
	}
	stores := func() tea.Msg {
		st, err := gw.FetchBundleStores(context.Background(), uuid)
		return bundleStoresMsg{seq: seq, stores: st, err: err}
	}
	return tea.Batch(meta, contents, stores)
}

func (m appModel) onBundleMsg(msg bundleMsg) (tea.Model, tea.Cmd) {
	if !m.panel.open || msg.seq != m.panel.seq {
		return m, nil
	}
	m.panel.loading = false
	if msg.err != nil {
		m.panel.err = msg.err.Error()
		return m, nil
	}
	m.panel.err = ""
	m.panel.bundle = msg.bundle
	(&m).rebuildPanelFields()

	// Runs get a stdout head/tail summary underneath the field sections.
	if msg.bundle.BundleType == ws.BundleTypeRun {
		seq := m.panel.seq
		uuid := m.panel.uuid
		gw := m.gw
		lim := m.fetches
		return m, func() tea.Msg {
			ctx := context.Background()
			if err := lim.Acquire(ctx); err != nil {
				return fileSummaryMsg{seq: seq, err: err}
			}
			defer lim.Release()
			s, err := gw.FetchFileSummary(ctx, uuid, "stdout")
			return fileSummaryMsg{seq: seq, path: "stdout", summary: s, err: err}
		}
	}
	return m, nil
}

func (m appModel) onBundleContentsMsg(msg bundleContentsMsg) (tea.Model, tea.Cmd) {
	if m.browser.open && msg.seq == m.browser.seq {
		return m.onBrowserContents(msg)
	}
	if !m.panel.open || msg.seq != m.panel.seq {
		return m, nil
	}
	if msg.err == nil {
		m.panel.contents = msg.info
	}
	return m, nil
}

func (m appModel) onFileSummaryMsg(msg fileSummaryMsg) (tea.Model, tea.Cmd) {
	if m.browser.open && msg.seq == m.browser.seq {
		return m.onBrowserSummary(msg)
	}
	if !m.panel.open || msg.seq != m.panel.seq {
		return m, nil
	}
	if msg.err == nil {
		m.panel.summary = msg.summary
		m.panel.summaryPath = msg.path
	}
	return m, nil
}

func (m appModel) onBundleStoresMsg(msg bundleStoresMsg) (tea.Model, tea.Cmd) {
	if !m.panel.open || msg.seq != m.panel.seq {
		return m, nil
	}
	if msg.err == nil {
		m.panel.stores = msg.stores
	}
	return m, nil
}

// rebuildPanelFields recomputes the rendered field map and the navigable
// order after any metadata change.
func (m *appModel) rebuildPanelFields() {
	m.panel.fields = ws.FormatBundle(m.panel.bundle)
	m.panel.fieldOrder = m.panel.fieldOrder[:0]
	for _, group := range m.panelFieldGroups() {
		for _, name := range group {
			if m.panelFieldVisible(name) {
				m.panel.fieldOrder = append(m.panel.fieldOrder, name)
			}
		}
	}
	if m.panel.fieldIdx >= len(m.panel.fieldOrder) {
		m.panel.fieldIdx = len(m.panel.fieldOrder) - 1
	}
	if m.panel.fieldIdx < 0 {
		m.panel.fieldIdx = 0
	}
}

// panelTimeGroup hides time fields until the bundle reached a final state;
// mid-run timings are noise.
func (m *appModel) panelTimeGroup() []string {
	if m.panel.bundle == nil || !ws.IsFinalState(m.panel.bundle.State) {
		return nil
	}
	return panelTimeFields
}

func (m *appModel) panelFieldVisible(name string) bool {
	fd, ok := m.panel.fields[name]
	if !ok {
		return false
	}
	return fd.Value != "" || fd.Editable
}

func (m appModel) updatePanelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab", "esc":
		m.pane = paneSheet
		if msg.String() == "esc" {
			m.panel = panelState{seq: m.panel.seq}
		}
		return m, nil

	case "j", "down":
		if m.panel.fieldIdx < len(m.panel.fieldOrder)-1 {
			m.panel.fieldIdx++
		}
		return m, nil

	case "k", "up":
		if m.panel.fieldIdx > 0 {
			m.panel.fieldIdx--
		}
		return m, nil

	case "J", "pgdown":
		m.panel.scroll += 5
		return m, nil

	case "K", "pgup":
		m.panel.scroll -= 5
		if m.panel.scroll < 0 {
			m.panel.scroll = 0
		}
		return m, nil

	case "r":
		return m, (&m).refreshPanel()

	case "u":
		if m.panel.bundle != nil {
			if err := copyToClipboard(m.panel.bundle.UUID); err != nil {
				return m, (&m).showSnackbar("Copy failed: " + err.Error())
			}
			return m, (&m).showSnackbar("Copied " + m.panel.bundle.UUID)
		}
		return m, nil

	case "a":
		if m.panel.bundle != nil && m.panel.bundle.Args != "" {
			if err := copyToClipboard(m.panel.bundle.Args); err != nil {
				return m, (&m).showSnackbar("Copy failed: " + err.Error())
			}
			return m, (&m).showSnackbar("Copied args")
		}
		return m, nil

	case "f":
		if m.panel.bundle != nil {
			return m, (&m).openFileBrowser(m.panel.bundle.UUID)
		}
		return m, nil

	case "p":
		if m.panel.bundle != nil {
			m.modal = modalSetPermission
			m.fieldInput.Placeholder = "group perm (e.g. public read)"
			m.fieldInput.SetValue("")
			m.fieldInput.Focus()
		}
		return m, nil

	case "enter", "e":
		return m.startFieldEdit()
	}
	return m, nil
}

func (m appModel) startFieldEdit() (tea.Model, tea.Cmd) {
	name := m.panelFieldAt(m.panel.fieldIdx)
	if name == "" {
		return m, nil
	}
	fd := m.panel.fields[name]
	if !fd.Editable {
		return m, (&m).showSnackbar("Field is read-only")
	}
	m.panel.editingField = name
	m.panel.savedRaw = nil
	if m.panel.bundle != nil {
		m.panel.savedRaw = m.panel.bundle.Metadata[name]
	}
	m.modal = modalEditField
	m.fieldInput.Placeholder = name
	m.fieldInput.SetValue(fd.Value)
	m.fieldInput.CursorEnd()
	m.fieldInput.Focus()
	return m, nil
}

func (m *appModel) panelFieldAt(i int) string {
	if i < 0 || i >= len(m.panel.fieldOrder) {
		return ""
	}
	return m.panel.fieldOrder[i]
}

// saveFieldEdit applies the edited value locally, then persists it. The old
// value is kept for rollback.
func (m *appModel) saveFieldEdit() tea.Cmd {
	name := m.panel.editingField
	if name == "" || m.panel.bundle == nil {
		return nil
	}
	fd := m.panel.fields[name]
	parsed, err := ws.SerializeFormat(m.fieldInput.Value(), fd.Type)
	if err != nil {
		return m.showSnackbar("Invalid value: " + err.Error())
	}
	m.panel.bundle.Metadata[name] = parsed
	m.rebuildPanelFields()

	gw := m.gw
	uuid := m.panel.uuid
	return func() tea.Msg {
		err := gw.UpdateBundleMetadata(context.Background(), uuid, map[string]any{name: parsed})
		return metadataSavedMsg{uuid: uuid, field: name, err: err}
	}
}

func (m appModel) onMetadataSaved(msg metadataSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		return m, (&m).showSnackbar("Saved " + msg.field)
	}
	// Roll the optimistic edit back.
	if m.panel.open && m.panel.uuid == msg.uuid && m.panel.bundle != nil {
		if m.panel.savedRaw == nil {
			delete(m.panel.bundle.Metadata, msg.field)
		} else {
			m.panel.bundle.Metadata[msg.field] = m.panel.savedRaw
		}
		(&m).rebuildPanelFields()
	}
	return m, (&m).showSnackbar("Save failed: " + msg.err.Error())
}

// setPermissionCmd runs the permission change through the command endpoint.
func (m *appModel) setPermissionCmd(spec string) tea.Cmd {
	parts := strings.Fields(spec)
	if len(parts) != 2 || m.panel.bundle == nil {
		return m.showSnackbar("Expected: <group> <read|all|none>")
	}
	command := fmt.Sprintf("perm %s %s %s", m.panel.bundle.UUID, parts[0], parts[1])
	gw := m.gw
	uuid := m.sheet.UUID
	return func() tea.Msg {
		res, err := gw.ExecuteCommand(context.Background(), uuid, command)
		return commandDoneMsg{command: command, result: res, err: err}
	}
}

func (m *appModel) renderPanel(width, height int) string {
	p := &m.panel
	title := lipgloss.NewStyle().Bold(true).Render("Bundle")
	if p.bundle != nil {
		title = lipgloss.NewStyle().Bold(true).Render(bundleDisplayName(p.bundle))
	}

	var lines []string
	lines = append(lines, title, "")

	switch {
	case p.loading:
		lines = append(lines, m.spin.View()+" Loading bundle…")
	case p.err != "":
		lines = append(lines, styleError().Render(p.err))
	case p.bundle != nil:
		lines = append(lines, m.renderPanelSections(width)...)
	}

	body := strings.Join(lines, "\n")
	body = scrollLines(body, p.scroll, height-2)

	st := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(panelBorderColor(m.pane == panePanel))
	return st.Render(body)
}

func (m *appModel) renderPanelSections(width int) []string {
	p := &m.panel
	var out []string

	section := func(header string, names []string) {
		var rows []string
		for _, name := range names {
			if !m.panelFieldVisible(name) {
				continue
			}
			fd := p.fields[name]
			rows = append(rows, m.renderPanelField(fd, width-2))
		}
		if len(rows) == 0 {
			return
		}
		if header != "" {
			out = append(out, styleSectionHeader().Render(header))
		}
		out = append(out, rows...)
		out = append(out, "")
	}

	section("", panelPrimaryFields)
	if s := permissionSummary(p.bundle); s != "" {
		out = append(out, styleSectionHeader().Render("Permissions"), "  "+s, "")
	}
	section("Time", m.panelTimeGroup())
	switch p.bundle.BundleType {
	case ws.BundleTypeRun:
		section("Resources", panelResourceFields)
	case ws.BundleTypeDataset:
		section("Sources", panelSourceFields)
	}
	section("Exclusions", panelExclusionFields)

	if len(p.bundle.Dependencies) > 0 {
		out = append(out, styleSectionHeader().Render("Dependencies"))
		for _, d := range p.bundle.Dependencies {
			target := d.ParentName
			if d.ParentPath != "" {
				target += "/" + d.ParentPath
			}
			out = append(out, fmt.Sprintf("  %s ← %s", d.ChildPath, target))
		}
		out = append(out, "")
	}

	if len(p.bundle.HostWorksheets) > 0 {
		out = append(out, styleSectionHeader().Render("Worksheets"))
		for _, hw := range p.bundle.HostWorksheets {
			out = append(out, "  "+hw.Name)
		}
		out = append(out, "")
	}

	if len(p.stores) > 0 {
		out = append(out, styleSectionHeader().Render("Stores"))
		for _, s := range p.stores {
			out = append(out, fmt.Sprintf("  %s (%s)", s.Name, s.StorageType))
		}
		out = append(out, "")
	}

	if p.contents != nil && len(p.contents.Contents) > 0 {
		out = append(out, styleSectionHeader().Render("Contents"))
		for _, it := range p.contents.Contents {
			line := "  " + it.Name
			if it.Type == "directory" {
				line += "/"
			} else if it.Size > 0 {
				line += "  " + ws.RenderSize(float64(it.Size))
			}
			out = append(out, line)
		}
		out = append(out, "")
	}

	if p.summary != "" {
		out = append(out, styleSectionHeader().Render(p.summaryPath))
		out = append(out, strings.Split(p.summary, "\n")...)
	}
	return out
}

func (m *appModel) renderPanelField(fd ws.FieldDescriptor, width int) string {
	name := fd.Name
	focused := m.pane == panePanel && m.panelFieldAt(m.panel.fieldIdx) == name

	label := styleFieldLabel().Render(padRight(name, 22))
	val := fd.Value
	if val == "" {
		val = styleMuted().Render("—")
	}
	marker := "  "
	if focused {
		marker = "❯ "
	}
	if fd.Editable {
		val += styleMuted().Render(" ✎")
	}
	line := marker + label + " " + val
	return truncateLine(line, width)
}

// permissionSummary renders the "you(all)  public(read)" line the panel and
// the permission dialog share.
func permissionSummary(b *ws.Bundle) string {
	if b == nil {
		return ""
	}
	var parts []string
	if b.PermissionSpec != "" {
		parts = append(parts, "you("+b.PermissionSpec+")")
	}
	for _, gp := range b.GroupPermissions {
		parts = append(parts, gp.GroupName+"("+gp.PermissionSpec+")")
	}
	return strings.Join(parts, "  ")
}

func bundleDisplayName(b *ws.Bundle) string {
	if n, ok := b.Metadata["name"].(string); ok && n != "" {
		return n
	}
	return b.UUID
}
