package eventloop

import (
	"testing"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/model"
)

func TestPeakUpdatesAreDebounced(t *testing.T) {
	tl := newTestLoop(t)

	tl.send(t, event.PeakVolumeUpdate{Ident: music, Peak: 0.5})
	got := tl.lastRedraw(t)
	if got.Kind != model.RedrawPeakVolume || got.Ident != music {
		t.Fatalf("expected peak redraw for music, got %s", got)
	}

	tl.renderer.reset()
	tl.send(t, event.PeakVolumeUpdate{Ident: music, Peak: 0.505})
	if len(tl.renderer.redraws) != 0 {
		t.Fatalf("sub-epsilon change should not render, got %v", tl.renderer.redraws)
	}
	en, _ := tl.state.Entries.Get(music)
	if en.Play.Peak != 0.5 {
		t.Fatalf("sub-epsilon change should not be stored, peak=%v", en.Play.Peak)
	}
}

func TestPeakUpdatesIgnoreCards(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.ChangePage{Page: event.PageCards})
	tl.renderer.reset()

	tl.send(t, event.PeakVolumeUpdate{Ident: builtin, Peak: 0.9})
	if len(tl.renderer.redraws) != 0 {
		t.Fatalf("card peak should be ignored, got %v", tl.renderer.redraws)
	}
}

func TestPeakUpdatesOffScreenDoNotRender(t *testing.T) {
	tl := newTestLoop(t)
	// Room for a single entry: only speakers is on screen.
	tl.send(t, event.Resize{Width: 80, Height: 5})
	tl.renderer.reset()

	tl.send(t, event.PeakVolumeUpdate{Ident: hdmi, Peak: 0.7})
	if len(tl.renderer.redraws) != 0 {
		t.Fatalf("off-screen peak should not render, got %v", tl.renderer.redraws)
	}
	en, _ := tl.state.Entries.Get(hdmi)
	if en.Play.Peak != 0.7 {
		t.Fatalf("peak should still be stored, got %v", en.Play.Peak)
	}
}

func TestTwoPeaksMergeIntoEntriesRedraw(t *testing.T) {
	r := model.PeakVolume(music)
	r.TakeBigger(model.PeakVolume(video))
	if r.Kind != model.RedrawEntries {
		t.Fatalf("expected entries redraw, got %s", r)
	}
}

func TestEntryUpdateInsertsAndAsksForMissingParent(t *testing.T) {
	tl := newTestLoop(t)
	en := entry.NewPlayEntry(entry.ID(entry.SinkInput, 20), "game")
	en.Parent = 7
	tl.send(t, event.EntryUpdate{Entry: en})

	if !tl.state.Entries.Contains(en.Ident) {
		t.Fatalf("entry not inserted")
	}
	if len(tl.info.asked) != 1 || tl.info.asked[0] != entry.ID(entry.Sink, 7) {
		t.Fatalf("expected info request for sink 7, got %v", tl.info.asked)
	}
	if got := tl.lastRedraw(t); got.Kind != model.RedrawEntries {
		t.Fatalf("expected entries redraw, got %s", got)
	}
}

func TestEntryUpdateForOtherPageDoesNotRender(t *testing.T) {
	tl := newTestLoop(t)
	src := entry.NewPlayEntry(entry.ID(entry.Source, 3), "mic")
	tl.send(t, event.EntryUpdate{Entry: src})
	if len(tl.renderer.redraws) != 0 {
		t.Fatalf("input entry on output page should not render, got %v", tl.renderer.redraws)
	}
}

func TestEntryUpdateRefreshesOpenMenu(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.OpenContextMenu{})
	if tl.state.Menu.Target != speakers {
		t.Fatalf("menu opened on %s", tl.state.Menu.Target)
	}
	updated, _ := tl.state.Entries.Get(speakers)
	updated = updated.Clone()
	updated.Mute = true
	tl.send(t, event.EntryUpdate{Entry: updated})

	found := false
	for _, opt := range tl.state.Menu.Options {
		if opt.Action == model.ActionUnmute {
			found = true
		}
	}
	if !found {
		t.Fatalf("menu not rebuilt after update: %#v", tl.state.Menu.Options)
	}
}

func TestEntryRemovedClosesItsMenu(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.OpenContextMenu{})
	tl.send(t, event.EntryRemoved{Ident: speakers})
	if tl.state.Mode != model.Normal {
		t.Fatalf("expected normal mode, got %s", tl.state.Mode)
	}
}

func TestEntryRemovedClampsCursor(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.MoveUp{N: 1})
	if id, _ := tl.state.SelectedIdent(); id != video {
		t.Fatalf("expected wrap to video, on %s", id)
	}
	tl.send(t, event.EntryRemoved{Ident: video})
	if tl.state.Selected != len(tl.state.PageEntries)-1 {
		t.Fatalf("cursor not clamped: %d of %d", tl.state.Selected, len(tl.state.PageEntries))
	}
}
