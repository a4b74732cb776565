package eventloop

import (
	"testing"

	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/model"
)

// sameRows reports whether the page still uses the rows of a previous
// projection rather than a fresh one.
func sameRows(a, b []model.Row) bool {
	return len(a) > 0 && len(a) == len(b) && &a[0] == &b[0]
}

func TestPeakUpdatesDoNotReprojectPage(t *testing.T) {
	tl := newTestLoop(t)
	rows := tl.state.PageEntries

	tl.send(t, event.PeakVolumeUpdate{Ident: speakers, Peak: 0.5}, event.PeakVolumeUpdate{Ident: music, Peak: 0.3})
	if !sameRows(tl.state.PageEntries, rows) {
		t.Fatalf("peak updates re-projected the page")
	}
	if got := tl.lastRedraw(t); got.Kind != model.RedrawPeakVolume {
		t.Fatalf("expected a peak repaint only, got %s", got)
	}
}

func TestMenuNavigationDoesNotReprojectPage(t *testing.T) {
	tl := newTestLoop(t)
	tl.send(t, event.OpenContextMenu{})
	rows := tl.state.PageEntries

	tl.send(t, event.MoveDown{N: 1}, event.MoveUp{N: 1})
	if tl.state.Mode.Kind != model.ModeContextMenu {
		t.Fatalf("expected context menu, got %s", tl.state.Mode)
	}
	if !sameRows(tl.state.PageEntries, rows) {
		t.Fatalf("menu navigation re-projected the page")
	}
}

func TestEntryChangesReprojectPage(t *testing.T) {
	tl := newTestLoop(t)
	rows := tl.state.PageEntries

	tl.send(t, event.EntryRemoved{Ident: video})
	if sameRows(tl.state.PageEntries, rows) || tl.state.OnPage(video) {
		t.Fatalf("removal should re-project the page, got %v", tl.pageIdents())
	}
}
