package model

import (
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mrxk/dropmenu/internal/dropmenu"
	"github.com/mrxk/dropmenu/internal/feed"
)

// Ensure that Model implements tea.Model and hosts a dropmenu.Menu.
var (
	_ tea.Model         = (*Model)(nil)
	_ dropmenu.Host     = (*Model)(nil)
	_ dropmenu.Listener = (*Model)(nil)
)

const (
	// defaultMenuWidth is the menu width used when ModelOpts does not set
	// one.
	defaultMenuWidth = 32
	// menuTop is the screen line the menu's header starts on, below the
	// title and the input line.
	menuTop = 2
)

// Model holds the state of the application.
type Model struct {
	menu       *dropmenu.Menu
	anim       heightAnimation
	needFrame  bool
	input      textinput.Model
	events     viewport.Model
	eventLines []string
	path       string
	follow     bool
	unique     bool
	cmdChan    chan<- feed.Command
	log        *log.Logger
	menuWidth  int
	redraws    int
	width      int
	height     int
}

// ModelOpts defines the options that can be set on a Model.
type ModelOpts struct {
	Path      string
	Follow    bool
	Unique    bool
	RowHeight int
	Width     int
	// Log receives one line per state change. Nil discards them.
	Log io.Writer
}

// NewModel returns a new Model configured with the given ModelOpts.
func NewModel(opts ModelOpts) (*Model, error) {
	m := &Model{
		path:   opts.Path,
		follow: opts.Follow,
		unique: opts.Unique,
	}
	logOut := opts.Log
	if logOut == nil {
		logOut = io.Discard
	}
	m.log = log.New(logOut, "", log.LstdFlags)
	m.menuWidth = opts.Width
	if m.menuWidth <= 0 {
		m.menuWidth = defaultMenuWidth
	}
	menu, err := dropmenu.New(dropmenu.Options{
		RowHeight: opts.RowHeight,
		Width:     m.menuWidth,
		Listener:  m,
		Host:      m,
	})
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	m.menu = menu
	m.anim.current = menu.Height()
	m.anim.to = menu.Height()
	m.input = textinput.New()
	m.input.Prompt = "add item> "
	m.input.Placeholder = "type a label and press enter"
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.events = viewport.New(0, 0)
	return m, nil
}

// Init initializes the application. It focuses the input line and, unless
// the items file is being followed, returns a command that loads it.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.input.Focus()}
	if m.path != "" && !m.follow {
		cmds = append(cmds, loadItems(m.path, m.unique))
	}
	return tea.Batch(cmds...)
}

// Update handles messages. Any height animation requested while handling the
// message gets its first frame scheduled here.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.update(msg)
	if m.needFrame {
		m.needFrame = false
		cmd = tea.Batch(cmd, m.anim.tick())
	}
	return newModel, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		newModel, cmd, handled := m.handleGlobalKey(msg)
		if handled {
			return newModel, cmd
		}
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case frameMsg:
		return m.handleFrame(msg)
	case itemsContent:
		return m.handleItemsContent(msg)
	case itemsError:
		return m.handleItemsError(msg)
	case feed.CommandChannel:
		return m.handleCommandChannel(msg)
	case feed.FeedStart:
		m.appendEvent("following " + msg.Path)
		return m, nil
	case feed.ItemLine:
		return m.handleItemLine(msg)
	case feed.FeedError:
		m.appendEvent(fmt.Sprintf("feed %s %s: %v", msg.Message, msg.Path, msg.Err))
		return m, nil
	case feed.Stopped:
		m.log.Printf("feed stopped")
		return m, nil
	}
	return m.handleInputMessage(msg)
}

// View returns the view for this model: a title, the input line, the menu at
// its animated height next to the event log, and a footer.
func (m *Model) View() string {
	canvas := dropmenu.NewCellCanvas(m.menu.IntrinsicSize().Width, m.anim.Current())
	m.menu.Draw(canvas)
	faint := lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).BorderForeground(lipgloss.Color("#50545c"))
	title := m.path
	if title == "" {
		title = "dropmenu"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(title),
		m.input.View(),
		lipgloss.JoinHorizontal(lipgloss.Top,
			canvas.String(),
			" ",
			faint.Width(m.events.Width).Render(m.events.View()),
		),
		m.footerView(),
	)
}

// ItemSelected records a selection made by tapping the menu.
func (m *Model) ItemSelected(index int, label string) {
	m.appendEvent(fmt.Sprintf("selected %d: %s", index, label))
}

// SetNeedsDisplay counts redraw requests. bubbletea repaints after every
// update, so nothing else needs to happen.
func (m *Model) SetNeedsDisplay() {
	m.redraws++
}

// AnimateHeight starts springing the displayed menu height towards target.
func (m *Model) AnimateHeight(target int, duration time.Duration) {
	m.log.Printf("animate height %d -> %d over %s", m.anim.Current(), target, duration)
	if m.anim.Start(target, duration) {
		m.needFrame = true
	}
}

// handleWindowSize handles window size messages. The menu takes its
// configured width, clipped to the window; the event log takes the rest of
// the row.
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	menuWidth := min(m.menuWidth, m.width)
	m.menu.SetWidth(menuWidth)
	m.input.Width = max(m.width-len(m.input.Prompt)-1, 0)
	m.events.Width = max(m.width-menuWidth-3, 0)
	m.events.Height = max(m.height-menuTop-3, 0)
	m.refreshEvents()
	return m, nil
}

// handleGlobalKey handles global key presses. If the key is handled then a new
// model and command are returned along with true. If the key is not handled
// then false is returned and the caller must pass the message to the input
// line.
// * esc and ctrl+c exit the application
// * enter adds the typed label
// * ctrl+t toggles the menu
// * ctrl+d removes the selected item
// * ctrl+x removes the last item
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "esc", "ctrl+c":
		if m.cmdChan != nil {
			return m, tea.Sequence(sendCommand(m.cmdChan, feed.Command{Operation: feed.StopOperation}), tea.Quit), true
		}
		return m, tea.Quit, true
	case "enter":
		label := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if label != "" {
			m.menu.AddItem(label)
			m.log.Printf("added %q", label)
		}
		return m, nil, true
	case "ctrl+t":
		m.menu.Toggle()
		m.log.Printf("toggled: %s", m.menu.State())
		return m, nil, true
	case "ctrl+d":
		label, ok := m.menu.Selected()
		if !ok {
			m.appendEvent("nothing selected")
			return m, nil, true
		}
		m.menu.RemoveItem(label)
		m.appendEvent("removed " + label)
		return m, nil, true
	case "ctrl+x":
		i := m.menu.Len() - 1
		if err := m.menu.RemoveItemAtIndex(i); err != nil {
			m.appendEvent(err.Error())
			return m, nil, true
		}
		m.appendEvent(fmt.Sprintf("removed item %d", i))
		return m, nil, true
	}
	return m, nil, false
}

// handleMouse handles mouse messages. A button release inside the menu's
// current frame is a tap on the menu; anything else goes to the event log.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease {
		var cmd tea.Cmd
		m.events, cmd = m.events.Update(msg)
		return m, cmd
	}
	p := dropmenu.Point{X: msg.X, Y: msg.Y - menuTop}
	if p.X < 0 || p.X >= m.menu.IntrinsicSize().Width || p.Y < 0 || p.Y >= m.anim.Current() {
		return m, nil
	}
	m.menu.HandleRelease(p)
	m.log.Printf("tap %d,%d: %s", p.X, p.Y, m.menu.State())
	return m, nil
}

// handleFrame advances the height animation and schedules the next frame
// while it is running.
func (m *Model) handleFrame(msg frameMsg) (tea.Model, tea.Cmd) {
	if m.anim.Step(msg) {
		return m, m.anim.tick()
	}
	return m, nil
}

// handleItemsContent handles the itemsContent message by adding every label
// to the menu.
func (m *Model) handleItemsContent(msg itemsContent) (tea.Model, tea.Cmd) {
	m.menu.AddItems(msg.items...)
	m.appendEvent(fmt.Sprintf("loaded %d items", len(msg.items)))
	return m, nil
}

// handleItemsError handles the itemsError message by showing it in the event
// log. The menu is left as it was.
func (m *Model) handleItemsError(msg itemsError) (tea.Model, tea.Cmd) {
	m.appendEvent(fmt.Sprintf("load %s: %v", msg.path, msg.err))
	return m, nil
}

// handleCommandChannel saves the feed's command channel and, when following,
// asks it to start streaming the items file.
func (m *Model) handleCommandChannel(msg feed.CommandChannel) (tea.Model, tea.Cmd) {
	m.cmdChan = msg.CmdChan
	if !m.follow || m.path == "" {
		return m, nil
	}
	return m, sendCommand(m.cmdChan, feed.Command{Operation: feed.StartOperation, Path: m.path})
}

// handleItemLine adds a streamed label to the menu. With unique set a label
// already in the menu is ignored.
func (m *Model) handleItemLine(msg feed.ItemLine) (tea.Model, tea.Cmd) {
	if m.unique && slices.Contains(m.menu.Items(), msg.Line) {
		return m, nil
	}
	m.menu.AddItem(msg.Line)
	m.log.Printf("streamed %q", msg.Line)
	return m, nil
}

// handleInputMessage passes the message to the input line.
func (m *Model) handleInputMessage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// appendEvent adds a line to the event log, logs it and scrolls the log to
// the bottom.
func (m *Model) appendEvent(line string) {
	m.log.Print(line)
	m.eventLines = append(m.eventLines, line)
	m.refreshEvents()
	m.events.GotoBottom()
}

// refreshEvents sets the event log content, truncating each line to the log
// width.
func (m *Model) refreshEvents() {
	lines := make([]string, 0, len(m.eventLines))
	for _, line := range m.eventLines {
		lines = append(lines, ansi.Truncate(line, m.events.Width, "…"))
	}
	m.events.SetContent(strings.Join(lines, "\n"))
}

// footerView returns the view of the footer. It contains the menu state and
// height on the left and the event log scroll percentage on the right.
func (m *Model) footerView() string {
	status := fmt.Sprintf(" %s  %d items  height %d/%d  redraws %d",
		m.menu.State(), m.menu.Len(), m.anim.Current(), m.anim.Target(), m.redraws)
	scrollPercent := fmt.Sprintf("%3.f%%", m.events.ScrollPercent()*100)
	spaceCount := m.width - len(status) - len(scrollPercent)
	if spaceCount < 0 {
		return status
	}
	return status + strings.Repeat(" ", spaceCount) + scrollPercent
}
