package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/eventloop"
	"github.com/atomicstack/tui-mixer/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

type testSession struct {
	*Harness
	bus *event.Bus
	out *event.Subscription
}

func newTestSession(t *testing.T, opts Options) *testSession {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "tui-mixer.log"))
	bus := event.NewBus()
	out := bus.Subscribe()
	t.Cleanup(func() {
		out.Close()
		bus.Close()
	})
	state := testState(t)
	state.Width, state.Height = 0, 0
	renderer := NewRenderer(nil, true)
	loop := eventloop.New(state, renderer, bus, nil)
	m := NewModel(loop, bus, renderer, opts)
	t.Cleanup(m.Close)
	return &testSession{Harness: NewHarness(m), bus: bus, out: out}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// awaitRequest returns the first letter on the recording subscription that
// match accepts.
func (ts *testSession) awaitRequest(t *testing.T, match func(event.Letter) bool) event.Letter {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case l := <-ts.out.C():
			if match(l) {
				return l
			}
		case <-deadline:
			t.Fatalf("timed out waiting for letter")
			return nil
		}
	}
}

func TestHarnessStartsAndAppliesFixedSize(t *testing.T) {
	ts := newTestSession(t, Options{Width: 70, Height: 14})
	st := ts.Model().loop.State()
	if st.Width != 70 || st.Height != 14 {
		t.Fatalf("expected fixed size, got %dx%d", st.Width, st.Height)
	}
	ts.Send(tea.WindowSizeMsg{Width: 200, Height: 50})
	if st.Width != 70 || st.Height != 14 {
		t.Fatalf("fixed size must win over the terminal, got %dx%d", st.Width, st.Height)
	}
	if lines := strings.Split(ts.View(), "\n"); len(lines) != 14 {
		t.Fatalf("expected 14 lines, got %d", len(lines))
	}
}

func TestWindowSizeFollowsTerminal(t *testing.T) {
	ts := newTestSession(t, Options{})
	ts.Send(tea.WindowSizeMsg{Width: 100, Height: 30})
	st := ts.Model().loop.State()
	if st.Width != 100 || st.Height != 30 {
		t.Fatalf("expected 100x30, got %dx%d", st.Width, st.Height)
	}
}

func TestKeysNavigateAndSwitchPages(t *testing.T) {
	ts := newTestSession(t, Options{Width: 80, Height: 20})
	st := ts.Model().loop.State()

	ts.Send(tea.KeyMsg{Type: tea.KeyDown})
	if st.Selected != 1 {
		t.Fatalf("expected cursor on second row, got %d", st.Selected)
	}
	ts.Send(runes("k"))
	if st.Selected != 0 {
		t.Fatalf("expected cursor back on first row, got %d", st.Selected)
	}
	ts.Send(runes("2"))
	if st.Page != event.PageInput {
		t.Fatalf("expected input page, got %s", st.Page)
	}
	if !strings.Contains(ts.View(), "Mic") {
		t.Fatalf("expected input device in view:\n%s", ts.View())
	}
	ts.Send(tea.KeyMsg{Type: tea.KeyTab})
	if st.Page != event.PageCards {
		t.Fatalf("expected cards page, got %s", st.Page)
	}
	ts.Send(tea.KeyMsg{Type: tea.KeyShiftTab})
	if st.Page != event.PageInput {
		t.Fatalf("expected input page after shift+tab, got %s", st.Page)
	}
}

func TestFilterEditingCapturesLetters(t *testing.T) {
	ts := newTestSession(t, Options{Width: 80, Height: 20})
	st := ts.Model().loop.State()

	ts.Send(runes("/"))
	if !st.Filter.Editing {
		t.Fatalf("expected filter editing")
	}
	ts.Send(runes("m"))
	ts.Send(runes("p"))
	ts.Send(tea.KeyMsg{Type: tea.KeyBackspace})
	if st.Filter.Text != "m" {
		t.Fatalf("expected filter %q, got %q", "m", st.Filter.Text)
	}
	ts.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if st.Filter.Editing || st.Filter.Text != "m" {
		t.Fatalf("enter should keep the filter and stop editing: %#v", st.Filter)
	}

	ts.Send(runes("m"))
	l := ts.awaitRequest(t, func(l event.Letter) bool { _, ok := l.(event.RequestMute); return ok })
	if req := l.(event.RequestMute); req.Ident != speakers || !req.Mute {
		t.Fatalf("unexpected mute request %#v", req)
	}

	ts.Send(runes("/"))
	ts.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if st.Filter.Editing || st.Filter.Text != "" {
		t.Fatalf("esc should clear the filter: %#v", st.Filter)
	}
}

func TestVolumeKeysRequestVolume(t *testing.T) {
	ts := newTestSession(t, Options{Width: 80, Height: 20})
	ts.Send(tea.KeyMsg{Type: tea.KeyRight})
	l := ts.awaitRequest(t, func(l event.Letter) bool { _, ok := l.(event.RequestVolume); return ok })
	req := l.(event.RequestVolume)
	if req.Ident != speakers || req.Volume.Percent() != 55 {
		t.Fatalf("unexpected volume request %#v (%d%%)", req, req.Volume.Percent())
	}
}

func TestContextMenuThroughKeys(t *testing.T) {
	ts := newTestSession(t, Options{Width: 80, Height: 20})
	ts.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(ts.View(), "Set as default") {
		t.Fatalf("expected menu in view:\n%s", ts.View())
	}
	ts.Send(runes("/"))
	if ts.Model().loop.State().Filter.Editing {
		t.Fatalf("filter must not start while the menu is open")
	}
	ts.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(ts.View(), "Set as default") {
		t.Fatalf("menu should close on esc:\n%s", ts.View())
	}
}

func TestQuitKey(t *testing.T) {
	ts := newTestSession(t, Options{})
	ts.Send(runes("q"))
	if !ts.Quit() {
		t.Fatalf("expected quit")
	}
	if ts.Model().Err() != nil {
		t.Fatalf("clean exit expected, got %v", ts.Model().Err())
	}
}

func TestFatalServerErrorEndsSession(t *testing.T) {
	ts := newTestSession(t, Options{})
	boom := errors.New("subscription closed")
	ts.bus.Publish(event.ServerError{Err: boom, Fatal: true})
	ts.Flush()
	if !ts.Quit() {
		t.Fatalf("expected quit")
	}
	if !errors.Is(ts.Model().Err(), boom) {
		t.Fatalf("expected server error, got %v", ts.Model().Err())
	}
}
