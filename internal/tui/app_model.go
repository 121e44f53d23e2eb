package tui

import (
	"os"
	"strings"

	"sheets-cli/internal/config"
	"sheets-cli/internal/limiter"
	"sheets-cli/internal/rest"
	"sheets-cli/internal/ws"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type appModel struct {
	gw  Gateway
	cfg config.Config

	width  int
	height int

	// We treat the very first WindowSizeMsg as "initial sizing" rather than a
	// user-driven resize.
	seenWindowSize bool

	user *rest.User

	// wsSpec is the worksheet uuid (or name) requested at startup or via
	// navigation; sheet is the last interpreted snapshot of it.
	wsSpec   string
	sheet    *ws.Worksheet
	sheetErr string
	notFound bool
	loading  bool

	// wsSeq increments on every (re)load. Async results stamped with an older
	// seq are silently dropped.
	wsSeq int

	fetches *limiter.Limiter

	// Placeholder resolution bookkeeping, keyed by directive so fold-ups that
	// shift block indices don't orphan an in-flight request.
	resolving   map[string]bool
	resolveFail map[string]string
	noResults   map[string]bool

	// tableFetching tracks briefly-loaded tables with an async row request in
	// flight, keyed by block index.
	tableFetching map[int]bool

	// focusIndex == -1 focuses the worksheet header; subFocusIndex addresses a
	// row inside multi-row blocks.
	focusIndex    int
	subFocusIndex int
	// pendingFocus is applied after the next successful reload (e.g. land on
	// a freshly inserted block). -1 means unset.
	pendingFocus int
	pendingG     bool

	pane pane

	// checks holds per-block row selection for bulk actions. Entries are
	// dropped whenever a block's row count changes.
	checks map[int][]bool

	panel   panelState
	browser browserState

	modal        modalKind
	editor       editorState
	run          runState
	upload       uploadState
	search       searchState
	nameInput    textinput.Model
	fieldInput   textinput.Model
	confirmFocus confirmModalFocus
	// deleteIDs are the source-line ids staged by the delete confirm modal.
	deleteIDs []int

	commandOutput string

	spin         spinner.Model
	snackbarText string
	snackbarSeq  int

	debugEnabled bool
	debugLogPath string
}

func newAppModel(cfg config.Config, gw Gateway, worksheetSpec string) appModel {
	m := appModel{
		gw:            gw,
		cfg:           cfg,
		wsSpec:        strings.TrimSpace(worksheetSpec),
		fetches:       limiter.New(limiter.DefaultMaxConcurrent),
		resolving:     map[string]bool{},
		resolveFail:   map[string]string{},
		noResults:     map[string]bool{},
		tableFetching: map[int]bool{},
		checks:        map[int][]bool{},
		focusIndex:    -1,
		pendingFocus:  -1,
		loading:       true,
		wsSeq:         1,
	}

	if strings.TrimSpace(os.Getenv("SHEETS_TUI_DEBUG")) != "" {
		m.debugEnabled = true
	}
	m.debugLogPath = strings.TrimSpace(os.Getenv("SHEETS_TUI_DEBUG_LOG"))

	m.spin = spinner.New()
	m.spin.Spinner = spinner.MiniDot
	m.spin.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "name"
	m.nameInput.CharLimit = 200
	m.nameInput.Width = 40

	m.fieldInput = textinput.New()
	m.fieldInput.CharLimit = 0
	m.fieldInput.Width = 48

	m.editor = newEditorState()
	m.run = newRunState()
	m.upload = newUploadState()
	m.search = newSearchState()
	m.browser = browserState{}

	return m
}

func (m *appModel) blocks() []ws.Block {
	if m.sheet == nil {
		return nil
	}
	return m.sheet.Blocks
}

func (m *appModel) focusedBlock() *ws.Block {
	bs := m.blocks()
	if m.focusIndex < 0 || m.focusIndex >= len(bs) {
		return nil
	}
	return &bs[m.focusIndex]
}

func (m *appModel) canEdit() bool {
	return m.sheet != nil && m.sheet.EditPermission
}

// afterSortKeyForFocus computes where newly inserted source lines should land:
// after the focused block (honoring sub-focus for bundle rows), or at the tail
// when nothing is focused. nil means "append at tail".
func (m *appModel) afterSortKeyForFocus() *float64 {
	b := m.focusedBlock()
	if b == nil {
		return nil
	}
	k := ws.AfterSortKey(*b, m.subFocusIndex)
	return &k
}
