package dropmenu

import "github.com/charmbracelet/lipgloss"

// Fixed visual scheme.
const (
	BorderColor = lipgloss.Color("#A8A8A8")
	TextColor   = lipgloss.Color("#585858")
	AccentColor = lipgloss.Color("#9ACD32")
	BorderWidth = 1
	AccentWidth = 2
	// TextInset is the gap in cells between a row's left edge and its label.
	TextInset = 2
)

// Stroke describes how a rectangle or line is drawn.
type Stroke struct {
	Color lipgloss.Color
	Width int
}

// TextStyle describes how a label is drawn.
type TextStyle struct {
	Color lipgloss.Color
}

// Canvas is the drawing context a host hands to Draw.
type Canvas interface {
	Size() Size
	StrokeRect(r Rect, s Stroke)
	StrokeLine(from, to Point, s Stroke)
	DrawText(text string, r Rect, s TextStyle)
}

// Row is one drawable row of the menu.
type Row struct {
	Rect  Rect
	Label string
	// Header is set on the first row, which shows the selection.
	Header bool
	// Empty is set on a header with no selection. It has no label and no
	// accent.
	Empty bool
	// Accent is set on a header showing a selection.
	Accent bool
}

// Rows returns the rows the menu draws at the given width. It does not change
// the menu.
func (m *Menu) Rows(width int) []Row {
	header := Row{
		Rect:   Rect{Width: width, Height: m.rowHeight},
		Header: true,
	}
	if m.hasSelected {
		header.Label = m.selected
		header.Accent = true
	} else {
		header.Empty = true
	}
	rows := []Row{header}
	if m.collapsed || len(m.items) < 2 {
		return rows
	}
	skipped := !m.hasSelected
	y := m.rowHeight
	for _, item := range m.items {
		if !skipped && item == m.selected {
			skipped = true
			continue
		}
		rows = append(rows, Row{
			Rect:  Rect{Y: y, Width: width, Height: m.rowHeight},
			Label: item,
		})
		y += m.rowHeight
	}
	return rows
}

// Draw draws the menu onto c at the canvas width.
func (m *Menu) Draw(c Canvas) {
	border := Stroke{Color: BorderColor, Width: BorderWidth}
	text := TextStyle{Color: TextColor}
	for _, row := range m.Rows(c.Size().Width) {
		c.StrokeRect(row.Rect, border)
		if row.Empty {
			continue
		}
		// The accent goes down first so a one line header still shows its
		// label on top of it.
		if row.Accent {
			y := row.Rect.Y + row.Rect.Height - 1
			c.StrokeLine(
				Point{X: row.Rect.X, Y: y},
				Point{X: row.Rect.X + row.Rect.Width - 1, Y: y},
				Stroke{Color: AccentColor, Width: AccentWidth},
			)
		}
		c.DrawText(row.Label, labelRect(row.Rect), text)
	}
}

// labelRect returns the single line a row's label is drawn in: inset from the
// left edge and vertically centred, rounding up so a two line row keeps the
// label off its bottom edge.
func labelRect(r Rect) Rect {
	return Rect{
		X:      r.X + TextInset,
		Y:      r.Y + (r.Height-1)/2,
		Width:  max(r.Width-2*TextInset, 0),
		Height: 1,
	}
}
