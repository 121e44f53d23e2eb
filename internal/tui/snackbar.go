package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const snackbarDuration = 4 * time.Second

// showSnackbar displays a transient status line at the bottom of the screen.
// A newer message supersedes the pending expiry of an older one.
func (m *appModel) showSnackbar(text string) tea.Cmd {
	m.snackbarText = text
	m.snackbarSeq++
	seq := m.snackbarSeq
	return tea.Tick(snackbarDuration, func(time.Time) tea.Msg {
		return snackbarExpireMsg{seq: seq}
	})
}
