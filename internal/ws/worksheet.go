package ws

type GroupPermission struct {
	GroupName      string `json:"group_name"`
	Permission     int    `json:"permission"`
	PermissionSpec string `json:"permission_spec"`
}

// Worksheet is the hydrated view of one worksheet: metadata plus the ordered
// block sequence, exactly as the server interpreted it.
type Worksheet struct {
	UUID             string            `json:"uuid"`
	Name             string            `json:"name"`
	Title            string            `json:"title,omitempty"`
	OwnerID          string            `json:"owner_id,omitempty"`
	OwnerName        string            `json:"owner_name,omitempty"`
	EditPermission   bool              `json:"edit_permission"`
	PermissionSpec   string            `json:"permission_spec,omitempty"`
	GroupPermissions []GroupPermission `json:"group_permissions,omitempty"`
	Blocks           []Block           `json:"blocks"`
	Error            string            `json:"error,omitempty"`
}

// DummyMarkupBlock is the synthetic block inserted when the server returns an
// empty worksheet, so the empty state stays focusable and editable. Its sort
// key of -1 makes inserts land at the top of the source.
func DummyMarkupBlock() Block {
	return Block{
		Mode:     ModeMarkup,
		SortKeys: []*float64{f64(-1)},
		Markup:   &MarkupBlock{Text: ""},
		Dummy:    true,
	}
}

// EnsureRenderable guarantees the invariant that the block sequence is
// non-empty during rendering.
func (w *Worksheet) EnsureRenderable() {
	if len(w.Blocks) == 0 {
		w.Blocks = []Block{DummyMarkupBlock()}
	}
}

// NoSubFocus is passed as subFocusIndex when no sub-row is focused.
const NoSubFocus = -1

// AfterSortKey computes the after_sort_key for an insert relative to block b:
// single-bundle blocks insert after their backing bundle's source line, tables
// use the focused row's key, and everything else falls back to the block's
// max key (or -1, top of source, when it has none).
func AfterSortKey(b Block, subFocusIndex int) float64 {
	switch b.Mode {
	case ModeImage, ModeContents:
		if fb := b.FirstBundle(); fb != nil && fb.SortKey != nil {
			return *fb.SortKey
		}
	}
	if subFocusIndex >= 0 && subFocusIndex < len(b.SortKeys) && b.SortKeys[subFocusIndex] != nil {
		return *b.SortKeys[subFocusIndex]
	}
	if max, ok := b.MaxSortKey(); ok {
		return max
	}
	return -1
}
