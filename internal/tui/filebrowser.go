package tui

import (
	"context"
	"strings"

	"sheets-cli/internal/ws"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// browserState is the bundle file browser modal: depth-1 directory listings
// with breadcrumb navigation and an inline head/tail preview for files.
type browserState struct {
	open    bool
	seq     int
	uuid    string
	path    string
	info    *ws.ContentsInfo
	sel     int
	loading bool
	err     string

	// summary, when non-empty, previews the file at summaryPath instead of a
	// directory listing.
	summary     string
	summaryPath string
}

func (m *appModel) openFileBrowser(uuid string) tea.Cmd {
	m.browser = browserState{
		open:    true,
		seq:     m.browser.seq + 1,
		uuid:    uuid,
		loading: true,
	}
	m.modal = modalFileBrowser
	return m.browseTo("")
}

func (m *appModel) browseTo(path string) tea.Cmd {
	m.browser.path = path
	m.browser.loading = true
	m.browser.err = ""
	m.browser.summary = ""
	m.browser.summaryPath = ""
	m.browser.sel = 0

	seq := m.browser.seq
	uuid := m.browser.uuid
	gw := m.gw
	lim := m.fetches
	return func() tea.Msg {
		ctx := context.Background()
		if err := lim.Acquire(ctx); err != nil {
			return bundleContentsMsg{seq: seq, path: path, err: err}
		}
		defer lim.Release()
		info, err := gw.FetchBundleContents(ctx, uuid, path)
		return bundleContentsMsg{seq: seq, path: path, info: info, err: err}
	}
}

func (m *appModel) previewFile(path string) tea.Cmd {
	m.browser.loading = true
	seq := m.browser.seq
	uuid := m.browser.uuid
	gw := m.gw
	lim := m.fetches
	return func() tea.Msg {
		ctx := context.Background()
		if err := lim.Acquire(ctx); err != nil {
			return fileSummaryMsg{seq: seq, path: path, err: err}
		}
		defer lim.Release()
		s, err := gw.FetchFileSummary(ctx, uuid, path)
		return fileSummaryMsg{seq: seq, path: path, summary: s, err: err}
	}
}

func (m appModel) onBrowserContents(msg bundleContentsMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.browser.seq {
		return m, nil
	}
	m.browser.loading = false
	if msg.err != nil {
		m.browser.err = msg.err.Error()
		return m, nil
	}
	if msg.info == nil {
		// Content was deleted server-side; show the empty state, not an error.
		m.browser.info = nil
		return m, nil
	}
	m.browser.info = msg.info
	return m, nil
}

func (m appModel) onBrowserSummary(msg fileSummaryMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.browser.seq {
		return m, nil
	}
	m.browser.loading = false
	if msg.err != nil {
		m.browser.err = msg.err.Error()
		return m, nil
	}
	m.browser.summary = msg.summary
	m.browser.summaryPath = msg.path
	return m, nil
}

func (m appModel) updateFileBrowserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := &m.browser
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "q":
		if b.summary != "" {
			b.summary = ""
			b.summaryPath = ""
			return m, nil
		}
		m.browser = browserState{seq: b.seq}
		m.closeModal()
		return m, nil

	case "backspace", "h", "left":
		if b.summary != "" {
			b.summary = ""
			b.summaryPath = ""
			return m, nil
		}
		if b.path == "" {
			m.browser = browserState{seq: b.seq}
			m.closeModal()
			return m, nil
		}
		return m, (&m).browseTo(parentPath(b.path))

	case "j", "down":
		if b.info != nil && b.sel < len(b.info.Contents)-1 {
			b.sel++
		}
		return m, nil

	case "k", "up":
		if b.sel > 0 {
			b.sel--
		}
		return m, nil

	case "enter", "l", "right":
		if b.info == nil || b.sel >= len(b.info.Contents) {
			return m, nil
		}
		it := b.info.Contents[b.sel]
		child := joinBundlePath(b.path, it.Name)
		if it.Type == "directory" {
			return m, (&m).browseTo(child)
		}
		return m, (&m).previewFile(child)
	}
	return m, nil
}

func (m *appModel) renderFileBrowser(width, height int) string {
	b := &m.browser
	crumb := "/" + b.path
	title := lipgloss.NewStyle().Bold(true).Render(shortUUID(b.uuid) + ":" + crumb)

	var lines []string
	lines = append(lines, title, "")

	switch {
	case b.loading:
		lines = append(lines, m.spin.View()+" Loading…")
	case b.err != "":
		lines = append(lines, styleError().Render(b.err))
	case b.summary != "":
		lines = append(lines, styleSectionHeader().Render(b.summaryPath), "")
		lines = append(lines, strings.Split(b.summary, "\n")...)
	case b.info == nil || (b.info.Type == "directory" && len(b.info.Contents) == 0):
		lines = append(lines, styleMuted().Render("(empty)"))
	default:
		for i, it := range b.info.Contents {
			marker := "  "
			if i == b.sel {
				marker = "❯ "
			}
			name := it.Name
			if it.Type == "directory" {
				name += "/"
			}
			line := marker + padRight(name, 40)
			if it.Type == "file" {
				line += "  " + ws.RenderSize(float64(it.Size))
			}
			if i == b.sel {
				line = styleSelected().Render(line)
			}
			lines = append(lines, truncateLine(line, width-4))
		}
	}

	lines = append(lines, "", styleMuted().Render("enter: open   backspace: up   esc: close"))
	return modalBox(width, height, strings.Join(lines, "\n"))
}

func parentPath(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

func joinBundlePath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func shortUUID(uuid string) string {
	if len(uuid) > 8 {
		return uuid[:8]
	}
	return uuid
}
