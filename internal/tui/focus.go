package tui

// Two-axis focus: focusIndex walks the block sequence (-1 focuses the
// worksheet header), subFocusIndex walks rows inside tables, record blocks
// and subworksheet listings.

// subEnd asks setFocus to land on the last row of the target block.
const subEnd = 1 << 30

func (m *appModel) setFocus(index, sub int) {
	bs := m.blocks()
	if index < -1 {
		index = -1
	}
	if index >= len(bs) {
		index = len(bs) - 1
	}
	m.focusIndex = index
	if index < 0 {
		m.subFocusIndex = 0
		return
	}
	rc := bs[index].RowCount()
	if sub >= rc {
		sub = rc - 1
	}
	if sub < 0 {
		sub = 0
	}
	m.subFocusIndex = sub
}

func (m *appModel) moveFocusDown() {
	bs := m.blocks()
	if len(bs) == 0 {
		return
	}
	if m.focusIndex < 0 {
		m.setFocus(0, 0)
		return
	}
	if m.subFocusIndex < bs[m.focusIndex].RowCount()-1 {
		m.subFocusIndex++
		return
	}
	if m.focusIndex < len(bs)-1 {
		m.setFocus(m.focusIndex+1, 0)
	}
}

func (m *appModel) moveFocusUp() {
	if m.focusIndex < 0 {
		return
	}
	if m.subFocusIndex > 0 {
		m.subFocusIndex--
		return
	}
	// Entering a multi-row block from below lands on its last row.
	m.setFocus(m.focusIndex-1, subEnd)
}

func (m *appModel) focusTop() {
	if len(m.blocks()) > 0 {
		m.setFocus(0, 0)
	}
}

func (m *appModel) focusBottom() {
	bs := m.blocks()
	if len(bs) > 0 {
		m.setFocus(len(bs)-1, subEnd)
	}
}

// clampFocus re-validates focus after the block sequence changed shape.
func (m *appModel) clampFocus() {
	m.setFocus(m.focusIndex, m.subFocusIndex)
}
