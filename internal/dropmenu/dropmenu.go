// Package dropmenu implements an expandable drop-down list that draws its own
// rows. The Menu owns the items, the selection and the collapsed flag; drawing,
// animation and selection notifications are delegated to the Canvas, Host and
// Listener it is given.
package dropmenu

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	// DefaultRowHeight is the row height, in cells, used when Options does not
	// set one.
	DefaultRowHeight = 3
	// ToggleDuration is how long the host should take to animate an expand or
	// collapse.
	ToggleDuration = 500 * time.Millisecond
	// MutationDuration is how long the host should take to animate a height
	// change caused by adding or removing items.
	MutationDuration = 700 * time.Millisecond
)

var (
	// ErrIndexOutOfRange is returned when an item index does not refer to an
	// item in the menu.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidRowHeight is returned when a row height is not positive.
	ErrInvalidRowHeight = errors.New("row height must be positive")
)

// Listener receives selection changes made through HandleRelease.
type Listener interface {
	ItemSelected(index int, label string)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(index int, label string)

// ItemSelected calls f(index, label).
func (f ListenerFunc) ItemSelected(index int, label string) {
	f(index, label)
}

// Host is the window system the menu lives in. Both requests are fire and
// forget; a new AnimateHeight supersedes any animation in flight.
type Host interface {
	SetNeedsDisplay()
	AnimateHeight(target int, duration time.Duration)
}

type nopHost struct{}

func (nopHost) SetNeedsDisplay() {}
func (nopHost) AnimateHeight(int, time.Duration) {}

// State is the collapse state of a Menu.
type State int

// Possible states. A Menu starts Collapsed.
const (
	Collapsed State = iota
	Expanded
)

// String returns the lower case name of the state.
func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Options defines the options that can be set on a Menu.
type Options struct {
	// RowHeight is the height of every row in cells. Zero selects
	// DefaultRowHeight.
	RowHeight int
	// Width is the width of the menu bounds, used by IntrinsicSize.
	Width    int
	Listener Listener
	Host     Host
}

// Menu holds the state of a drop-down list.
type Menu struct {
	items       []string
	selected    string
	hasSelected bool
	collapsed   bool
	rowHeight   int
	width       int
	listener    Listener
	host        Host
}

// New returns a collapsed, empty Menu configured with the given Options.
func New(opts Options) (*Menu, error) {
	m := &Menu{
		collapsed: true,
		rowHeight: opts.RowHeight,
		width:     opts.Width,
		listener:  opts.Listener,
		host:      opts.Host,
	}
	if m.rowHeight == 0 {
		m.rowHeight = DefaultRowHeight
	}
	if m.rowHeight < 0 {
		return nil, fmt.Errorf("new menu: %d: %w", m.rowHeight, ErrInvalidRowHeight)
	}
	if m.host == nil {
		m.host = nopHost{}
	}
	return m, nil
}

// SetListener replaces the selection listener. A nil listener disables
// notifications; taps still change the selection.
func (m *Menu) SetListener(l Listener) {
	m.listener = l
}

// Items returns a copy of the items in display order.
func (m *Menu) Items() []string {
	return slices.Clone(m.items)
}

// Len returns the number of items.
func (m *Menu) Len() int {
	return len(m.items)
}

// Selected returns the selected label and whether there is one.
func (m *Menu) Selected() (string, bool) {
	return m.selected, m.hasSelected
}

// SelectedIndex returns the index of the first item equal to the selected
// label.
func (m *Menu) SelectedIndex() (int, bool) {
	if !m.hasSelected {
		return -1, false
	}
	i := slices.Index(m.items, m.selected)
	return i, i >= 0
}

// Collapsed reports whether only the header row is shown.
func (m *Menu) Collapsed() bool {
	return m.collapsed
}

// State returns the current collapse state.
func (m *Menu) State() State {
	if m.collapsed {
		return Collapsed
	}
	return Expanded
}

// SetCollapsed sets the collapsed flag and asks the host to animate to the
// resulting height. The request is made even when the flag does not change.
func (m *Menu) SetCollapsed(collapsed bool) {
	m.collapsed = collapsed
	m.host.AnimateHeight(m.Height(), ToggleDuration)
	m.host.SetNeedsDisplay()
}

// Toggle flips the collapsed flag.
func (m *Menu) Toggle() {
	m.SetCollapsed(!m.collapsed)
}

// RowHeight returns the height of every row in cells.
func (m *Menu) RowHeight() int {
	return m.rowHeight
}

// SetRowHeight changes the height of every row. The host is asked to animate
// to the new total height.
func (m *Menu) SetRowHeight(height int) error {
	if height <= 0 {
		return fmt.Errorf("set row height %d: %w", height, ErrInvalidRowHeight)
	}
	m.rowHeight = height
	m.host.AnimateHeight(m.Height(), MutationDuration)
	m.host.SetNeedsDisplay()
	return nil
}

// SetWidth records the width the host laid the menu out at.
func (m *Menu) SetWidth(width int) {
	m.width = width
	m.host.SetNeedsDisplay()
}

// AddItems adds each label in order.
func (m *Menu) AddItems(labels ...string) {
	for _, label := range labels {
		m.AddItem(label)
	}
}

// AddItem appends label. The first item added to an empty menu becomes the
// selection.
func (m *Menu) AddItem(label string) {
	if len(m.items) == 0 {
		m.selected, m.hasSelected = label, true
	}
	m.items = append(m.items, label)
	if !m.collapsed && len(m.items) > 1 {
		m.host.AnimateHeight(m.rowHeight*len(m.items), MutationDuration)
	}
	m.host.SetNeedsDisplay()
}

// RemoveItemAtIndex removes the item at index i. If it was the selected item
// the menu is left without a selection.
func (m *Menu) RemoveItemAtIndex(i int) error {
	if i < 0 || i >= len(m.items) {
		return fmt.Errorf("remove item %d of %d: %w", i, len(m.items), ErrIndexOutOfRange)
	}
	if m.hasSelected && m.items[i] == m.selected {
		m.selected, m.hasSelected = "", false
	}
	m.items = slices.Delete(m.items, i, i+1)
	if !m.collapsed {
		if len(m.items) > 1 {
			m.host.AnimateHeight(m.rowHeight*len(m.items), MutationDuration)
		} else {
			m.host.AnimateHeight(m.rowHeight, MutationDuration)
		}
	}
	m.host.SetNeedsDisplay()
	return nil
}

// RemoveItem removes the first item equal to label. It does nothing when no
// item matches.
func (m *Menu) RemoveItem(label string) {
	if i := slices.Index(m.items, label); i >= 0 {
		// i is in range, so this cannot fail.
		_ = m.RemoveItemAtIndex(i)
	}
}
