package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// runState backs the "new run" dialog: a command textarea plus a few common
// resource requests. Submission goes through the server-side command
// endpoint, which creates the run bundle and appends it to the worksheet.
type runState struct {
	command textarea.Model
	name    textinput.Model
	image   textinput.Model
	gpus    textinput.Model
	memory  textinput.Model
	// focusIdx cycles command → name → image → gpus → memory.
	focusIdx int
}

func newRunState() runState {
	ta := textarea.New()
	ta.Placeholder = "python train.py --epochs 10"
	ta.CharLimit = 0
	ta.SetWidth(72)
	ta.SetHeight(4)
	ta.ShowLineNumbers = false

	mk := func(placeholder string, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = width
		return in
	}
	return runState{
		command: ta,
		name:    mk("run name (optional)", 32),
		image:   mk("docker image (optional)", 32),
		gpus:    mk("gpus", 6),
		memory:  mk("memory (e.g. 4g)", 12),
	}
}

func (r *runState) close() {
	r.command.SetValue("")
	r.command.Blur()
	for _, in := range []*textinput.Model{&r.name, &r.image, &r.gpus, &r.memory} {
		in.SetValue("")
		in.Blur()
	}
	r.focusIdx = 0
}

func (r *runState) focusField(i int) {
	r.focusIdx = i
	r.command.Blur()
	fields := []*textinput.Model{&r.name, &r.image, &r.gpus, &r.memory}
	for _, in := range fields {
		in.Blur()
	}
	if i == 0 {
		r.command.Focus()
		return
	}
	if i-1 < len(fields) {
		fields[i-1].Focus()
	}
}

func (m *appModel) openRunDialog() {
	m.run.close()
	m.run.focusField(0)
	m.modal = modalNewRun
}

// buildRunCommand assembles the `run` CLI command line the server executes.
// Dependencies come from checked table rows as name:uuid mounts.
func (m *appModel) buildRunCommand() string {
	cmd := strings.TrimSpace(m.run.command.Value())
	if cmd == "" {
		return ""
	}
	parts := []string{"run"}
	for _, b := range m.selectedBundles() {
		parts = append(parts, b.Name()+":"+b.UUID)
	}
	if v := strings.TrimSpace(m.run.name.Value()); v != "" {
		parts = append(parts, "--name", v)
	}
	if v := strings.TrimSpace(m.run.image.Value()); v != "" {
		parts = append(parts, "--request-docker-image", v)
	}
	if v := strings.TrimSpace(m.run.gpus.Value()); v != "" {
		parts = append(parts, "--request-gpus", v)
	}
	if v := strings.TrimSpace(m.run.memory.Value()); v != "" {
		parts = append(parts, "--request-memory", v)
	}
	parts = append(parts, "---", cmd)
	return strings.Join(parts, " ")
}

func (m *appModel) submitRun() tea.Cmd {
	command := m.buildRunCommand()
	if command == "" {
		return m.showSnackbar("Command is empty")
	}
	gw := m.gw
	uuid := m.sheet.UUID
	return func() tea.Msg {
		res, err := gw.ExecuteCommand(context.Background(), uuid, command)
		return commandDoneMsg{command: command, result: res, err: err}
	}
}
