package model

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mrxk/dropmenu/internal/feed"
)

// itemsContent is a tea.Msg that is returned by the loadItems command. It
// contains the labels to add to the menu.
type itemsContent struct {
	items []string
}

// itemsError is a tea.Msg that is returned by the loadItems command when the
// items file cannot be read.
type itemsError struct {
	err  error
	path string
}

// loadItems returns a tea.Cmd that, when executed, will produce either an
// itemsContent message or an itemsError message. When unique is set later
// duplicates of a label are dropped.
func loadItems(path string, unique bool) tea.Cmd {
	return func() tea.Msg {
		items, err := feed.ReadFile(path)
		if err != nil {
			return itemsError{err: err, path: path}
		}
		if unique {
			items = feed.Unique(items)
		}
		return itemsContent{items: items}
	}
}

// sendCommand returns a tea.Cmd that hands cmd to the feed. The send happens
// off the update loop because the channel is unbuffered.
func sendCommand(cmdChan chan<- feed.Command, cmd feed.Command) tea.Cmd {
	return func() tea.Msg {
		cmdChan <- cmd
		return nil
	}
}
