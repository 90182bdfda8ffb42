package dropmenu

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type resize struct {
	target   int
	duration time.Duration
}

// recordingHost records every request the menu makes of its host.
type recordingHost struct {
	redraws int
	resizes []resize
}

func (h *recordingHost) SetNeedsDisplay() {
	h.redraws++
}

func (h *recordingHost) AnimateHeight(target int, duration time.Duration) {
	h.resizes = append(h.resizes, resize{target: target, duration: duration})
}

func (h *recordingHost) reset() {
	h.redraws = 0
	h.resizes = nil
}

type selection struct {
	index int
	label string
}

type recordingListener struct {
	selections []selection
}

func (l *recordingListener) ItemSelected(index int, label string) {
	l.selections = append(l.selections, selection{index: index, label: label})
}

// recordingCanvas records draw calls as strings.
type recordingCanvas struct {
	size  Size
	calls []string
}

func (c *recordingCanvas) Size() Size {
	return c.size
}

func (c *recordingCanvas) StrokeRect(r Rect, s Stroke) {
	c.calls = append(c.calls, fmt.Sprintf("rect %d,%d %dx%d %s/%d", r.X, r.Y, r.Width, r.Height, s.Color, s.Width))
}

func (c *recordingCanvas) StrokeLine(from, to Point, s Stroke) {
	c.calls = append(c.calls, fmt.Sprintf("line %d,%d-%d,%d %s/%d", from.X, from.Y, to.X, to.Y, s.Color, s.Width))
}

func (c *recordingCanvas) DrawText(text string, r Rect, s TextStyle) {
	c.calls = append(c.calls, fmt.Sprintf("text %q %d,%d %dx%d %s", text, r.X, r.Y, r.Width, r.Height, s.Color))
}

// newTestMenu returns a menu with the given row height and items wired to
// recording collaborators. The host is reset after the items are added.
func newTestMenu(t *testing.T, rowHeight int, items ...string) (*Menu, *recordingHost, *recordingListener) {
	t.Helper()
	host := &recordingHost{}
	listener := &recordingListener{}
	m, err := New(Options{RowHeight: rowHeight, Width: 20, Host: host, Listener: listener})
	require.NoError(t, err)
	m.AddItems(items...)
	host.reset()
	return m, host, listener
}

// expand expands the menu without going through the host recorder.
func expand(m *Menu, host *recordingHost) {
	m.SetCollapsed(false)
	host.reset()
}
