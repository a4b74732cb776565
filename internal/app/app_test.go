package app

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/tui-mixer/internal/config/file"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging"
	"github.com/atomicstack/tui-mixer/internal/pulse"
	"github.com/atomicstack/tui-mixer/internal/testutil"
	"github.com/atomicstack/tui-mixer/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

func TestRunReportsUnavailableServer(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "tui-mixer.log"))
	srv := testutil.NewFakeServer()
	srv.SetDialError(errors.New("dial unix /run/user/1000/pulse/native: connect: no such file or directory"))

	err := run(Config{Server: "unix:/run/user/1000/pulse/native"}, srv.Dial)
	if !errors.Is(err, pulse.ErrServerUnavailable) {
		t.Fatalf("expected ErrServerUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipewire-pulse running") {
		t.Fatalf("expected a hint in %q", err)
	}
}

type styleRecorder struct {
	styles *theme.Styles
}

func (r *styleRecorder) SetStyles(s *theme.Styles) { r.styles = s }

type letterRecorder struct {
	letters []event.Letter
}

func (r *letterRecorder) Publish(l event.Letter) bool {
	r.letters = append(r.letters, l)
	return true
}

func TestReloadStylesRepaints(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "tui-mixer.log"))
	sink := &styleRecorder{}
	bus := &letterRecorder{}
	reload := reloadStyles(sink, bus)

	reload(file.File{Styles: map[string]theme.Override{"error": {Foreground: "201"}}}, nil)
	if sink.styles == nil || sink.styles.Error.GetForeground() != lipgloss.Color("201") {
		t.Fatalf("styles not applied")
	}
	if len(bus.letters) != 1 {
		t.Fatalf("expected one redraw, got %v", bus.letters)
	}
	if _, ok := bus.letters[0].(event.Redraw); !ok {
		t.Fatalf("expected Redraw, got %T", bus.letters[0])
	}

	applied := sink.styles
	reload(file.File{}, errors.New("parse error"))
	reload(file.File{Styles: map[string]theme.Override{"sparkle": {}}}, nil)
	if sink.styles != applied || len(bus.letters) != 1 {
		t.Fatalf("broken reloads must keep the current styles")
	}
}
