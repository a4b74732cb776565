package main

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/atomicstack/tui-mixer/internal/app"
	"github.com/atomicstack/tui-mixer/internal/config"
	"github.com/atomicstack/tui-mixer/internal/logging"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/pulse"
	"golang.org/x/term"
)

// Exit statuses.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitNoAudioHost = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return exitUsage
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	tty, found := findTerminal(os.Stdout, os.Stdin, os.Stderr)
	events.App.Start(startupFields(cfg, tty, found))
	if !found && (cfg.App.Width == 0 || cfg.App.Height == 0) {
		fmt.Fprintln(os.Stderr, "Error: no terminal detected; pass --width and --height to run without one")
		return exitUsage
	}

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode separates an unreachable audio server from other failures.
func exitCode(err error) int {
	if errors.Is(err, pulse.ErrServerUnavailable) {
		return exitNoAudioHost
	}
	return exitFailure
}

// terminal is the first standard file that is a terminal with a size.
type terminal struct {
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func findTerminal(files ...*os.File) (terminal, bool) {
	for _, f := range files {
		if f == nil {
			continue
		}
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			continue
		}
		w, h, err := term.GetSize(fd)
		if err != nil {
			continue
		}
		return terminal{File: f.Name(), Width: w, Height: h}, true
	}
	return terminal{}, false
}

// startupFields is the app.start trace record.
func startupFields(cfg config.Config, tty terminal, found bool) map[string]interface{} {
	fields := map[string]interface{}{
		"args":     cfg.Args,
		"settings": maps.Clone(cfg.Flags),
		"pid":      os.Getpid(),
	}
	if found {
		fields["terminal"] = tty
	}
	if exe, err := os.Executable(); err == nil {
		fields["executable"] = exe
	}
	return fields
}
