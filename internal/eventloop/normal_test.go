package eventloop

import (
	"testing"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/model"
)

func TestCursorWrapsAround(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.MoveUp{N: 1})
	if tl.state.Selected != len(tl.state.PageEntries)-1 {
		t.Fatalf("expected last row, got %d", tl.state.Selected)
	}
	tl.send(t, event.MoveDown{N: 1})
	if tl.state.Selected != 0 {
		t.Fatalf("expected first row, got %d", tl.state.Selected)
	}
	if got := tl.lastRedraw(t); got.Kind != model.RedrawEntries {
		t.Fatalf("cursor move should repaint entries, got %s", got)
	}
}

func TestChangePageResetsCursor(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.MoveDown{N: 2})
	tl.send(t, event.CyclePage{Delta: 2})
	if tl.state.Page != event.PageCards {
		t.Fatalf("expected cards page, got %s", tl.state.Page)
	}
	if tl.state.Selected != 0 || len(tl.state.PageEntries) != 1 {
		t.Fatalf("unexpected page state: selected=%d rows=%d", tl.state.Selected, len(tl.state.PageEntries))
	}

	tl.renderer.reset()
	tl.send(t, event.ChangePage{Page: event.PageCards})
	if len(tl.renderer.redraws) != 0 {
		t.Fatalf("same page should not render")
	}
}

func TestVolumeRequestsUseConfiguredStep(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.VolumeUp{})

	if len(tl.pub.letters) != 1 {
		t.Fatalf("expected one request, got %v", tl.pub.letters)
	}
	req, ok := tl.pub.letters[0].(event.RequestVolume)
	if !ok || req.Ident != speakers {
		t.Fatalf("unexpected request %#v", tl.pub.letters[0])
	}
	if got := req.Volume.Percent(); got != 55 {
		t.Fatalf("expected 55%%, got %d%%", got)
	}
	en, _ := tl.state.Entries.Get(speakers)
	if en.Volume.Percent() != 50 {
		t.Fatalf("local volume must wait for the server echo")
	}

	tl.send(t, event.VolumeDown{Percent: 20})
	req = tl.pub.letters[1].(event.RequestVolume)
	if got := req.Volume.Percent(); got != 30 {
		t.Fatalf("expected 30%%, got %d%%", got)
	}
}

func TestVolumeUpLeavesOverdrivenEntryAlone(t *testing.T) {
	tl := newTestLoop(t)
	en, _ := tl.state.Entries.Get(speakers)
	en.Volume = entry.Volume{entry.NormVolume * 2, entry.NormVolume * 2}

	tl.send(t, event.VolumeUp{})
	if len(tl.pub.letters) != 0 {
		t.Fatalf("raise above the cap should not lower the volume, got %v", tl.pub.letters)
	}

	tl.send(t, event.VolumeDown{})
	req, ok := tl.pub.letters[0].(event.RequestVolume)
	if !ok || req.Volume.Percent() != 195 {
		t.Fatalf("expected a step down to 195%%, got %#v", tl.pub.letters[0])
	}
}

func TestToggleMuteRequest(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.ToggleMute{})
	req, ok := tl.pub.letters[0].(event.RequestMute)
	if !ok || req.Ident != speakers || !req.Mute {
		t.Fatalf("unexpected request %#v", tl.pub.letters[0])
	}
}

func TestCardsIgnoreVolumeAndMute(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.ChangePage{Page: event.PageCards}, event.VolumeUp{}, event.ToggleMute{})
	if len(tl.pub.letters) != 0 {
		t.Fatalf("cards have no volume, got %v", tl.pub.letters)
	}
}

func TestFilterNarrowsPage(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.FilterStart{}, event.FilterInput{Text: "vid"})
	want := []entry.Identifier{hdmi, video}
	if got := tl.pageIdents(); !equalIdents(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	tl.send(t, event.FilterBackspace{}, event.FilterBackspace{}, event.FilterBackspace{})
	if len(tl.state.PageEntries) != 5 {
		t.Fatalf("empty filter should list everything, got %d", len(tl.state.PageEntries))
	}

	tl.send(t, event.FilterInput{Text: "mus"}, event.FilterEnd{})
	if tl.state.Filter.Editing || tl.state.Filter.Text != "mus" {
		t.Fatalf("filter end should keep text: %#v", tl.state.Filter)
	}
	tl.send(t, event.CloseContextMenu{})
	if tl.state.Filter.Text != "" {
		t.Fatalf("escape should clear filter")
	}
}

func TestFilterInputIgnoredWhenNotEditing(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.FilterInput{Text: "x"})
	if tl.state.Filter.Text != "" {
		t.Fatalf("filter changed outside editing")
	}
}

func TestHelpModeRoutesOnlyToHelpHandler(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.ShowHelp{})
	if tl.state.Mode != model.Help {
		t.Fatalf("expected help mode, got %s", tl.state.Mode)
	}
	if got := tl.lastRedraw(t); got.Kind != model.RedrawHelp {
		t.Fatalf("expected help redraw, got %s", got)
	}

	tl.renderer.reset()
	tl.send(t, event.Redraw{})
	if got := tl.lastRedraw(t); got.Kind != model.RedrawHelp {
		t.Fatalf("redraw in help should repaint help only, got %s", got)
	}

	tl.send(t, event.MoveDown{N: 1}, event.VolumeUp{})
	if tl.state.Selected != 0 || len(tl.pub.letters) != 0 {
		t.Fatalf("normal handler ran in help mode")
	}

	tl.send(t, event.CloseContextMenu{})
	if tl.state.Mode != model.Normal {
		t.Fatalf("expected normal mode, got %s", tl.state.Mode)
	}
}

func TestContextMenuActions(t *testing.T) {
	tests := []struct {
		name  string
		setup []event.Letter
		moves int
		check func(t *testing.T, l event.Letter)
	}{
		{
			name: "set default",
			check: func(t *testing.T, l event.Letter) {
				req, ok := l.(event.RequestDefault)
				if !ok || req.Ident != speakers || req.Name != "alsa_output.speakers" {
					t.Fatalf("unexpected %#v", l)
				}
			},
		},
		{
			name:  "mute device",
			moves: 1,
			check: func(t *testing.T, l event.Letter) {
				req, ok := l.(event.RequestMute)
				if !ok || req.Ident != speakers || !req.Mute {
					t.Fatalf("unexpected %#v", l)
				}
			},
		},
		{
			name:  "suspend device",
			moves: 2,
			check: func(t *testing.T, l event.Letter) {
				req, ok := l.(event.RequestSuspend)
				if !ok || req.Ident != speakers || !req.Suspend {
					t.Fatalf("unexpected %#v", l)
				}
			},
		},
		{
			name:  "kill stream",
			setup: []event.Letter{event.MoveDown{N: 1}},
			moves: 2,
			check: func(t *testing.T, l event.Letter) {
				req, ok := l.(event.RequestKill)
				if !ok || req.Ident != music {
					t.Fatalf("unexpected %#v", l)
				}
			},
		},
		{
			name:  "card profile",
			setup: []event.Letter{event.ChangePage{Page: event.PageCards}},
			moves: 1,
			check: func(t *testing.T, l event.Letter) {
				req, ok := l.(event.RequestCardProfile)
				if !ok || req.Ident != builtin || req.Profile != "off" {
					t.Fatalf("unexpected %#v", l)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := newTestLoop(t)
			tl.send(t, tt.setup...)
			tl.send(t, event.OpenContextMenu{})
			if tl.state.Mode != model.ContextMenu {
				t.Fatalf("menu not open: %s", tl.state.Mode)
			}
			if tt.moves > 0 {
				tl.send(t, event.MoveDown{N: tt.moves})
			}
			tl.send(t, event.OpenContextMenu{})
			if tl.state.Mode != model.Normal {
				t.Fatalf("menu should close, got %s", tl.state.Mode)
			}
			if len(tl.pub.letters) != 1 {
				t.Fatalf("expected one request, got %v", tl.pub.letters)
			}
			tt.check(t, tl.pub.letters[0])
		})
	}
}

func TestContextMenuEscapeCloses(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.OpenContextMenu{}, event.MoveDown{N: 1}, event.CloseContextMenu{})
	if tl.state.Mode != model.Normal || len(tl.pub.letters) != 0 {
		t.Fatalf("escape should close silently, mode=%s letters=%v", tl.state.Mode, tl.pub.letters)
	}
	if tl.state.Selected != 0 {
		t.Fatalf("menu navigation leaked into page cursor")
	}
}
