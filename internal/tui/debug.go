package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debugLogf appends a timestamped line to SHEETS_TUI_DEBUG_LOG. Best effort;
// logging must never interfere with the UI.
func (m *appModel) debugLogf(format string, args ...any) {
	if !m.debugEnabled || strings.TrimSpace(m.debugLogPath) == "" {
		return
	}
	f, err := os.OpenFile(m.debugLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s "+format+"\n", append([]any{time.Now().Format(time.RFC3339)}, args...)...)
}

func (m appModel) debugKeyMsg(k tea.KeyMsg) {
	if !m.debugEnabled || strings.TrimSpace(m.debugLogPath) == "" {
		return
	}
	(&m).debugLogf("key modal=%d pane=%d focus=%d/%d str=%q",
		int(m.modal), int(m.pane), m.focusIndex, m.subFocusIndex, k.String())
}
