package dropmenu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ensure that CellCanvas implements Canvas.
var _ Canvas = (*CellCanvas)(nil)

// cell is one terminal cell. A wide rune occupies its own cell and marks the
// following one as a continuation.
type cell struct {
	r            rune
	color        lipgloss.Color
	continuation bool
}

// lineRunes holds the box drawing runes for one stroke weight.
type lineRunes struct {
	horizontal, vertical                      rune
	topLeft, topRight, bottomLeft, bottomRight rune
}

var (
	lightRunes = lineRunes{'─', '│', '┌', '┐', '└', '┘'}
	heavyRunes = lineRunes{'━', '┃', '┏', '┓', '┗', '┛'}
)

// runesFor returns the box drawing runes for the stroke width. Strokes wider
// than one cell are drawn heavy.
func runesFor(s Stroke) lineRunes {
	if s.Width > 1 {
		return heavyRunes
	}
	return lightRunes
}

// CellCanvas is a Canvas backed by a grid of terminal cells. Anything drawn
// outside the grid is clipped.
type CellCanvas struct {
	width  int
	height int
	cells  [][]cell
}

// NewCellCanvas returns a blank canvas of the given size.
func NewCellCanvas(width, height int) *CellCanvas {
	width, height = max(width, 0), max(height, 0)
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &CellCanvas{width: width, height: height, cells: cells}
}

// Size returns the size of the canvas.
func (c *CellCanvas) Size() Size {
	return Size{Width: c.width, Height: c.height}
}

func (c *CellCanvas) set(x, y int, r rune, color lipgloss.Color) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = cell{r: r, color: color}
}

// StrokeRect draws the outline of r. Rectangles one cell high or wide are
// drawn as a line.
func (c *CellCanvas) StrokeRect(r Rect, s Stroke) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1
	switch {
	case r.Height == 1:
		c.StrokeLine(Point{X: r.X, Y: r.Y}, Point{X: right, Y: r.Y}, s)
		return
	case r.Width == 1:
		c.StrokeLine(Point{X: r.X, Y: r.Y}, Point{X: r.X, Y: bottom}, s)
		return
	}
	runes := runesFor(s)
	for x := r.X + 1; x < right; x++ {
		c.set(x, r.Y, runes.horizontal, s.Color)
		c.set(x, bottom, runes.horizontal, s.Color)
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.set(r.X, y, runes.vertical, s.Color)
		c.set(right, y, runes.vertical, s.Color)
	}
	c.set(r.X, r.Y, runes.topLeft, s.Color)
	c.set(right, r.Y, runes.topRight, s.Color)
	c.set(r.X, bottom, runes.bottomLeft, s.Color)
	c.set(right, bottom, runes.bottomRight, s.Color)
}

// StrokeLine draws a horizontal or vertical line between two points,
// inclusive. Diagonal lines are not drawn.
func (c *CellCanvas) StrokeLine(from, to Point, s Stroke) {
	runes := runesFor(s)
	switch {
	case from.Y == to.Y:
		for x := min(from.X, to.X); x <= max(from.X, to.X); x++ {
			c.set(x, from.Y, runes.horizontal, s.Color)
		}
	case from.X == to.X:
		for y := min(from.Y, to.Y); y <= max(from.Y, to.Y); y++ {
			c.set(from.X, y, runes.vertical, s.Color)
		}
	}
}

// DrawText draws text on the first line of r, truncated with an ellipsis to
// fit its width.
func (c *CellCanvas) DrawText(text string, r Rect, s TextStyle) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	text = ansi.Truncate(text, r.Width, "…")
	x := r.X
	for _, ch := range text {
		w := ansi.StringWidth(string(ch))
		if w == 0 {
			continue
		}
		c.set(x, r.Y, ch, s.Color)
		for i := 1; i < w; i++ {
			if x+i >= 0 && x+i < c.width && r.Y >= 0 && r.Y < c.height {
				c.cells[r.Y][x+i] = cell{continuation: true}
			}
		}
		x += w
	}
}

// String returns the canvas as lines of styled text.
func (c *CellCanvas) String() string {
	return c.render(true)
}

// Plain returns the canvas as lines of text without styling.
func (c *CellCanvas) Plain() string {
	return c.render(false)
}

// render joins the cells of each line, grouping runs of the same colour into
// a single styled span.
func (c *CellCanvas) render(styled bool) string {
	lines := make([]string, 0, c.height)
	for _, row := range c.cells {
		var line, run strings.Builder
		var runColor lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if styled && runColor != "" {
				line.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
			} else {
				line.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.continuation {
				continue
			}
			if cl.color != runColor {
				flush()
				runColor = cl.color
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
