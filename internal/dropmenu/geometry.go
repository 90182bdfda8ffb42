package dropmenu

// Point is a cell position in menu-local coordinates. Y grows downwards from
// the top of the header row.
type Point struct {
	X, Y int
}

// Size is a width and height in cells.
type Size struct {
	Width, Height int
}

// Rect is an axis aligned rectangle of cells with its origin at the top left.
type Rect struct {
	X, Y, Width, Height int
}

// Height returns the full height of the menu in its current state. It is the
// target of every height animation the menu requests.
func (m *Menu) Height() int {
	if len(m.items) < 2 || m.collapsed {
		return m.rowHeight
	}
	return m.rowHeight * len(m.items)
}

// PreferredSize returns the size the menu wants given a proposed size. The
// width is passed through.
func (m *Menu) PreferredSize(proposed Size) Size {
	return Size{Width: proposed.Width, Height: m.Height()}
}

// IntrinsicSize returns the size of the menu at its current bounds width.
func (m *Menu) IntrinsicSize() Size {
	return Size{Width: m.width, Height: m.Height()}
}

// HandleRelease handles a tap released at p. A tap below the header selects
// the row under it. Every tap toggles the collapsed flag exactly once.
func (m *Menu) HandleRelease(p Point) {
	if p.Y > m.rowHeight {
		m.selectRow(p.Y/m.rowHeight - 1)
	}
	m.SetCollapsed(!m.collapsed)
}

// selectRow selects the item shown at the given visual row below the header.
// The selected item is drawn in the header rather than in the stack, so rows
// at or after its position map to the following item. Rows that do not map
// to an item are ignored.
func (m *Menu) selectRow(row int) {
	target := row
	if i, ok := m.SelectedIndex(); ok && i <= target {
		target++
	}
	if target < 0 || target >= len(m.items) {
		return
	}
	label := m.items[target]
	if m.listener != nil {
		m.listener.ItemSelected(target, label)
	}
	m.selected, m.hasSelected = label, true
	m.host.SetNeedsDisplay()
}
