// Package tui is the interactive worksheet client: a keyboard-driven view of
// one worksheet with lazy block resolution, a bundle detail side panel, and
// modal editors for text, schemas, runs and uploads.
package tui

import (
	"sheets-cli/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(cfg config.Config, gw Gateway, worksheetSpec string) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(cfg, gw, worksheetSpec)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
