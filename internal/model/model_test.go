package model

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mrxk/dropmenu/internal/dropmenu"
	"github.com/mrxk/dropmenu/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestModel returns a sized model with the given items.
func newTestModel(t *testing.T, items ...string) (*Model, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	m, err := NewModel(ModelOpts{
		RowHeight: 3,
		Width:     20,
		Log:       &logs,
	})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if len(items) > 0 {
		m.Update(itemsContent{items: items})
	}
	return m, &logs
}

// finishAnimation delivers frames until the running animation settles.
func finishAnimation(t *testing.T, m *Model) {
	t.Helper()
	for i := 0; m.anim.running; i++ {
		require.Less(t, i, 1000, "animation did not settle")
		m.Update(frameMsg{generation: m.anim.generation})
	}
}

// tap releases the mouse at menu-local coordinates.
func tap(m *Model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y + menuTop, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func TestNewModelInvalidRowHeight(t *testing.T) {
	_, err := NewModel(ModelOpts{RowHeight: -2})
	assert.ErrorIs(t, err, dropmenu.ErrInvalidRowHeight)
}

func TestNewModelDefaultWidth(t *testing.T) {
	m, err := NewModel(ModelOpts{})
	require.NoError(t, err)
	assert.Equal(t, defaultMenuWidth, m.menu.IntrinsicSize().Width)
	assert.Equal(t, dropmenu.DefaultRowHeight, m.anim.Current())
}

func TestItemsContentFillsMenu(t *testing.T) {
	m, logs := newTestModel(t, "A", "B", "C")
	assert.Equal(t, []string{"A", "B", "C"}, m.menu.Items())
	label, _ := m.menu.Selected()
	assert.Equal(t, "A", label)
	assert.Contains(t, m.eventLines, "loaded 3 items")
	assert.Contains(t, logs.String(), "loaded 3 items")
}

func TestItemsErrorIsLogged(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(itemsError{err: errors.New("boom"), path: "x.txt"})
	assert.Equal(t, []string{"load x.txt: boom"}, m.eventLines)
	assert.Equal(t, 0, m.menu.Len())
}

func TestTapExpandsAndAnimates(t *testing.T) {
	m, _ := newTestModel(t, "A", "B", "C")

	_, cmd := m.Update(tea.MouseMsg{X: 1, Y: menuTop + 1, Action: tea.MouseActionRelease})
	assert.NotNil(t, cmd, "a frame is scheduled")
	assert.Equal(t, dropmenu.Expanded, m.menu.State())
	assert.Equal(t, 9, m.anim.Target())
	assert.Equal(t, 3, m.anim.Current())

	finishAnimation(t, m)
	assert.Equal(t, 9, m.anim.Current())
}

func TestTapSelectsAndNotifies(t *testing.T) {
	m, _ := newTestModel(t, "A", "B", "C")
	tap(m, 1, 1)
	finishAnimation(t, m)

	tap(m, 1, 4)
	label, _ := m.menu.Selected()
	assert.Equal(t, "B", label)
	assert.Equal(t, "selected 1: B", m.eventLines[len(m.eventLines)-1])
	assert.Equal(t, dropmenu.Collapsed, m.menu.State())
}

func TestMouseOutsideMenuIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, "A", "B")
	tests := []struct {
		name string
		msg  tea.MouseMsg
	}{
		{"press", tea.MouseMsg{X: 1, Y: menuTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}},
		{"above", tea.MouseMsg{X: 1, Y: menuTop - 1, Action: tea.MouseActionRelease}},
		{"right", tea.MouseMsg{X: 20, Y: menuTop, Action: tea.MouseActionRelease}},
		{"below frame", tea.MouseMsg{X: 1, Y: menuTop + 3, Action: tea.MouseActionRelease}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Update(tt.msg)
			assert.Equal(t, dropmenu.Collapsed, m.menu.State())
		})
	}
}

func TestToggleKey(t *testing.T) {
	m, logs := newTestModel(t, "A", "B")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, dropmenu.Expanded, m.menu.State())
	assert.Contains(t, logs.String(), "toggled: expanded")
}

func TestEnterAddsItem(t *testing.T) {
	m, _ := newTestModel(t)
	m.input.SetValue("  hello  ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"hello"}, m.menu.Items())
	assert.Equal(t, "", m.input.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, m.menu.Len(), "blank input adds nothing")
}

func TestRemoveKeys(t *testing.T) {
	m, _ := newTestModel(t, "A", "B", "C")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, []string{"B", "C"}, m.menu.Items())
	_, ok := m.menu.Selected()
	assert.False(t, ok)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, "nothing selected", m.eventLines[len(m.eventLines)-1])

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, 0, m.menu.Len())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Contains(t, m.eventLines[len(m.eventLines)-1], "index out of range")
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestQuitStopsFeed(t *testing.T) {
	m, _ := newTestModel(t)
	cmdChan := make(chan feed.Command, 1)
	m.Update(feed.CommandChannel{CmdChan: cmdChan})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	// The sequence runs the stop command before quitting.
	assert.NotEqual(t, tea.QuitMsg{}, cmd())
}

func TestCommandChannelStartsFollow(t *testing.T) {
	var logs bytes.Buffer
	m, err := NewModel(ModelOpts{Path: "items.txt", Follow: true, Log: &logs})
	require.NoError(t, err)
	cmdChan := make(chan feed.Command, 1)
	_, cmd := m.Update(feed.CommandChannel{CmdChan: cmdChan})
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, feed.Command{Operation: feed.StartOperation, Path: "items.txt"}, <-cmdChan)
}

func TestCommandChannelWithoutFollow(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(feed.CommandChannel{CmdChan: make(chan feed.Command)})
	assert.Nil(t, cmd)
}

func TestFeedMessages(t *testing.T) {
	m, _ := newTestModel(t)
	m.unique = true
	m.Update(feed.FeedStart{Path: "items.txt"})
	m.Update(feed.ItemLine{Line: "A"})
	m.Update(feed.ItemLine{Line: "B"})
	m.Update(feed.ItemLine{Line: "A"})
	m.Update(feed.FeedError{Message: "stat", Path: "items.txt", Err: os.ErrNotExist})
	assert.Equal(t, []string{"A", "B"}, m.menu.Items())
	assert.Equal(t, "following items.txt", m.eventLines[0])
	assert.Contains(t, m.eventLines[1], "feed stat items.txt")
}

func TestInitLoadsItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\ny\nx\n"), 0o600))

	msg := loadItems(path, true)()
	assert.Equal(t, itemsContent{items: []string{"x", "y"}}, msg)
	msg = loadItems(path, false)()
	assert.Equal(t, itemsContent{items: []string{"x", "y", "x"}}, msg)

	msg = loadItems(filepath.Join(t.TempDir(), "missing"), false)()
	loadErr, ok := msg.(itemsError)
	require.True(t, ok)
	assert.ErrorIs(t, loadErr.err, os.ErrNotExist)
}

func TestViewShowsMenu(t *testing.T) {
	m, _ := newTestModel(t, "Alpha", "Beta")
	view := m.View()
	assert.Contains(t, view, "Alpha")
	assert.NotContains(t, view, "Beta")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	finishAnimation(t, m)
	view = m.View()
	assert.Contains(t, view, "Beta")
	assert.Contains(t, view, "expanded  2 items  height 6/6")
}

func TestNarrowWindowShrinksMenu(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
	assert.Equal(t, 10, m.menu.IntrinsicSize().Width)
	assert.Equal(t, 0, m.events.Width)
}

func TestWideWindowRestoresMenuWidth(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, 20, m.menu.IntrinsicSize().Width)
	assert.Equal(t, 57, m.events.Width)

	m.Update(tea.WindowSizeMsg{Width: 15, Height: 24})
	assert.Equal(t, 15, m.menu.IntrinsicSize().Width)
}

func TestFrameAnimatesMenuHeight(t *testing.T) {
	m, _ := newTestModel(t, "A", "B", "C")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		_, cmd = m.Update(frameMsg{generation: m.anim.generation})
	}
	assert.NotNil(t, cmd, "the next frame is scheduled")
	mid := m.anim.Current()
	assert.Greater(t, mid, 3)
	assert.Less(t, mid, 9)

	_, cmd = m.Update(frameMsg{generation: m.anim.generation - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, mid, m.anim.Current(), "stale frames are dropped")

	finishAnimation(t, m)
	assert.Equal(t, 9, m.anim.Current())
}
