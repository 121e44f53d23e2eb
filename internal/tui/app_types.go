package tui

import (
	"sheets-cli/internal/rest"
	"sheets-cli/internal/ws"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalEditText
	modalNewText
	modalEditSchema
	modalNewRun
	modalUploadPick
	modalNewWorksheet
	modalEditField
	modalSetPermission
	modalSearchWorksheets
	modalConfirmDelete
	modalFileBrowser
	modalCommandOutput
)

type pane int

const (
	paneSheet pane = iota
	panePanel
)

// worksheetMsg carries a freshly interpreted worksheet. seq guards against
// responses from a reload that has since been superseded.
type worksheetMsg struct {
	seq int
	ws  *ws.Worksheet
	err error
}

// blockResolvedMsg is the outcome of resolving one placeholder block. The
// directive identifies the placeholder even if a fold-up shifted indices
// while the request was in flight; the interpreted blocks are reconciled
// against the current position in Update.
type blockResolvedMsg struct {
	seq         int
	directive   string
	interpreted []ws.Block
	err         error
}

// tableContentsMsg carries async rows for a briefly-loaded table block.
type tableContentsMsg struct {
	seq   int
	index int
	rows  []map[string]any
	err   error
}

// bundleMsg hydrates the side panel.
type bundleMsg struct {
	seq    int
	bundle *ws.Bundle
	err    error
}

type bundleContentsMsg struct {
	seq  int
	path string
	info *ws.ContentsInfo
	err  error
}

type fileSummaryMsg struct {
	seq     int
	path    string
	summary string
	err     error
}

type bundleStoresMsg struct {
	seq    int
	stores []ws.BundleStore
	err    error
}

type metadataSavedMsg struct {
	uuid  string
	field string
	err   error
}

// itemsSavedMsg reports an add-items round trip. moveFocusTo, when >= 0, is
// the block index the focus should land on after the post-save reload.
type itemsSavedMsg struct {
	moveFocusTo int
	err         error
}

// bulkContentsMsg carries the aggregated root listing of the checked
// bundles.
type bulkContentsMsg struct {
	seq     int
	listing string
	err     error
}

type commandDoneMsg struct {
	command string
	result  *rest.CommandResult
	err     error
}

type uploadProgressMsg struct {
	seq    int
	loaded int64
	total  int64
}

type uploadDoneMsg struct {
	seq  int
	name string
	err  error
}

type searchResultsMsg struct {
	seq  int
	refs []rest.WorksheetRef
	err  error
}

type searchDebounceMsg struct{ seq int }

type worksheetCreatedMsg struct {
	uuid string
	err  error
}

type userMsg struct {
	user *rest.User
	err  error
}

type snackbarExpireMsg struct{ seq int }

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)
