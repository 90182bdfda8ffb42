package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/docopt/docopt-go"
	"github.com/mrxk/dropmenu/internal/dropmenu"
	"github.com/mrxk/dropmenu/internal/feed"
	"github.com/mrxk/dropmenu/internal/model"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	dropmenuUsage = `dropmenu

Usage:
	dropmenu [options] [<path>]

Options:
	-r <rows>, --row-height=<rows>  Height of every row in cells [default: 3].
	-w <cols>, --width=<cols>       Width of the menu in cells [default: 32].
	-f, --follow                    Stream labels appended to <path>.
	-u, --unique                    Drop duplicate labels read from <path>.
	-l <file>, --log=<file>         Log file [default: dropmenu.log].
	`
)

// options holds the parsed command line.
type options struct {
	model.ModelOpts
	LogPath string
}

// parseArgs takes a usage string and returns the options parsed from the
// given arguments.
func parseArgs(parser *docopt.Parser, usage string, argv []string) (options, error) {
	opts := options{}
	docOpts, err := parser.ParseArgs(usage, argv, "")
	if err != nil {
		return opts, err
	}
	opts.RowHeight, err = docOpts.Int("--row-height")
	if err != nil {
		return opts, fmt.Errorf("--row-height: %w", err)
	}
	if opts.RowHeight <= 0 {
		return opts, fmt.Errorf("--row-height %d: %w", opts.RowHeight, dropmenu.ErrInvalidRowHeight)
	}
	opts.Width, err = docOpts.Int("--width")
	if err != nil {
		return opts, fmt.Errorf("--width: %w", err)
	}
	opts.Follow, _ = docOpts.Bool("--follow")
	opts.Unique, _ = docOpts.Bool("--unique")
	opts.LogPath, _ = docOpts.String("--log")
	opts.Path, _ = docOpts.String("<path>")
	if opts.Follow && opts.Path == "" {
		return opts, errors.New("--follow requires <path>")
	}
	return opts, nil
}

func main() {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpAndExit}
	opts, err := parseArgs(parser, dropmenuUsage, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// run runs the program with a rotating log file until the user quits.
func run(opts options) error {
	logFile := &lumberjack.Logger{
		Filename:   opts.LogPath,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	defer logFile.Close()
	opts.Log = logFile
	m, err := model.NewModel(opts.ModelOpts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if opts.Follow {
		go feed.Run(p)
	}
	_, err = p.Run()
	return err
}
