package feed

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Operation defines the operations the feed can handle.
type Operation int

const (
	// StartOperation tells the feed to begin streaming labels from a file.
	StartOperation Operation = iota
	// StopOperation tells the feed to shut down the running stream and
	// return.
	StopOperation
)

// ErrNotFollowable is reported when asked to follow a file that is not a
// newline delimited list of labels.
var ErrNotFollowable = errors.New("only line delimited files can be followed")

// Sender is the part of a tea.Program the feed uses.
type Sender interface {
	Send(msg tea.Msg)
}

// Command contains the description of a command the feed will execute.
type Command struct {
	Operation Operation
	Path      string
}

// CommandChannel is a tea.Msg that conveys the channel the feed will be
// listening on for commands.
type CommandChannel struct {
	CmdChan chan<- Command
}

// ItemLine is a tea.Msg that conveys one label read by the feed.
type ItemLine struct {
	Line string
}

// FeedError is a tea.Msg that conveys an error that occurred while streaming.
type FeedError struct {
	Message string
	Err     error
	Path    string
}

// FeedStart is a tea.Msg that indicates the feed is (re)starting a stream.
type FeedStart struct {
	Path string
}

// Stopped is a tea.Msg that indicates the feed has stopped. The child process
// is killed and its context cancelled.
type Stopped struct {
}

// Run runs the feed for the given program. It first creates a command channel
// and sends it to the program in a CommandChannel message. It then listens on
// that channel for commands.
func Run(program Sender) {
	cmdChan := make(chan Command)
	program.Send(CommandChannel{CmdChan: cmdChan})
	var handler *streamHandler
	for {
		cmd := <-cmdChan
		switch cmd.Operation {
		case StartOperation:
			if handler != nil {
				handler.stop()
			}
			handler = newStreamHandler()
			program.Send(FeedStart{Path: cmd.Path})
			go handler.stream(program, cmd)
		case StopOperation:
			if handler != nil {
				handler.stop()
			}
			program.Send(Stopped{})
			return
		}
	}
}

// streamHandler holds the tracking data for one stream: the context that
// stops the child process, the cancel function for that context, and the
// child process itself.
type streamHandler struct {
	ctx    context.Context
	cancel func()
	mu     sync.Mutex
	cmd    *exec.Cmd
}

func newStreamHandler() *streamHandler {
	h := &streamHandler{}
	h.ctx, h.cancel = context.WithCancel(context.Background())
	return h
}

// stop cancels the stream and kills its child process.
func (h *streamHandler) stop() {
	h.cancel()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd != nil {
		_ = kill(h.cmd)
	}
}

// stream runs tail -f on the path of the given Command. Each non-empty line
// is sent as an ItemLine message to the program.
func (h *streamHandler) stream(program Sender, cmd Command) {
	if _, err := os.Stat(cmd.Path); err != nil {
		program.Send(FeedError{Message: "stat", Err: err, Path: cmd.Path})
		return
	}
	if IsYAML(cmd.Path) {
		program.Send(FeedError{Message: "follow", Err: ErrNotFollowable, Path: cmd.Path})
		return
	}
	tailCmd := exec.CommandContext(h.ctx, "tail", "-f", "-n", "+1", cmd.Path)
	stdout, err := tailCmd.StdoutPipe()
	if err != nil {
		program.Send(FeedError{Message: "pipe", Err: err, Path: cmd.Path})
		return
	}
	h.mu.Lock()
	err = start(tailCmd)
	if err == nil {
		h.cmd = tailCmd
	}
	h.mu.Unlock()
	if err != nil {
		program.Send(FeedError{Message: "start", Err: err, Path: cmd.Path})
		return
	}
	defer func() { _ = tailCmd.Wait() }()
	scanner := bufio.NewScanner(stdout)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		select {
		case <-h.ctx.Done():
			return
		default:
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			program.Send(ItemLine{Line: line})
		}
	}
}

// kill kills the given exec.Cmd. A process that already exited is not an
// error.
func kill(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// start starts the given exec.Cmd.
func start(cmd *exec.Cmd) error {
	cmd.WaitDelay = 1 * time.Nanosecond
	return cmd.Start()
}
