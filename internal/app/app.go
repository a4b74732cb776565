package app

import (
	"errors"
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/backend"
	"github.com/atomicstack/tui-mixer/internal/config/file"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/eventloop"
	"github.com/atomicstack/tui-mixer/internal/logging"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/model"
	"github.com/atomicstack/tui-mixer/internal/pulse"
	"github.com/atomicstack/tui-mixer/internal/theme"
	"github.com/atomicstack/tui-mixer/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	Server           string
	ConfigPath       string
	Page             event.Page
	Meters           bool
	VolumeStep       int
	MaxVolumePercent int
	Width            int
	Height           int
	ShowFooter       bool
	Styles           *theme.Styles
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	return run(cfg, pulse.Dial)
}

func run(cfg Config, dial pulse.Dialer, opts ...tea.ProgramOption) error {
	bus := event.NewBus()
	defer bus.Close()

	state := model.NewState(cfg.Page, model.Settings{
		VolumeStep:       cfg.VolumeStep,
		MaxVolumePercent: cfg.MaxVolumePercent,
	})
	renderer := ui.NewRenderer(cfg.Styles, cfg.ShowFooter)
	client := pulse.NewClient(cfg.Server, dial)
	defer client.Close()
	driver := backend.NewDriver(client, bus, backend.Options{Meters: cfg.Meters})
	loop := eventloop.New(state, renderer, bus, driver)
	mdl := ui.NewModel(loop, bus, renderer, ui.Options{Width: cfg.Width, Height: cfg.Height})
	defer mdl.Close()

	commands := bus.Subscribe()
	defer commands.Close()
	driver.Attach(commands.C())
	defer func() {
		driver.Stop()
		driver.Wait()
	}()
	if err := driver.Start(); err != nil {
		if errors.Is(err, pulse.ErrServerUnavailable) {
			return fmt.Errorf("%w (is PulseAudio or pipewire-pulse running?)", err)
		}
		return fmt.Errorf("start audio driver: %w", err)
	}

	if cfg.ConfigPath != "" {
		watcher, err := file.Watch(cfg.ConfigPath, reloadStyles(renderer, bus))
		if err != nil {
			logging.Error(fmt.Errorf("watch %s: %w", cfg.ConfigPath, err))
		} else {
			defer watcher.Close()
		}
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	program := tea.NewProgram(mdl, opts...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	if err == nil {
		err = mdl.Err()
	}
	events.App.Exit(err)
	return err
}

// styleSink receives a reloaded style set.
type styleSink interface {
	SetStyles(*theme.Styles)
}

// reloadStyles applies the [styles] table of a reloaded settings file and
// asks for a full repaint. A broken file keeps the current styles.
func reloadStyles(sink styleSink, bus eventloop.Publisher) func(file.File, error) {
	return func(f file.File, err error) {
		if err != nil {
			logging.Error(err)
			return
		}
		styles, err := f.Theme(theme.Default())
		if err != nil {
			logging.Error(err)
			return
		}
		sink.SetStyles(styles)
		bus.Publish(event.Redraw{})
	}
}
