package eventloop

import (
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/model"
)

// handleEntriesUpdates applies server notifications and committed moves to
// the entry model. It runs in every mode.
func (lp *Loop) handleEntriesUpdates(l event.Letter) model.Redraw {
	s := lp.state
	switch msg := l.(type) {
	case event.PeakVolumeUpdate:
		if msg.Ident.Type == entry.Card {
			return model.NoRedraw
		}
		if !s.Entries.SetPeak(msg.Ident, msg.Peak) {
			return model.NoRedraw
		}
		if s.OnScreen(msg.Ident) {
			return model.PeakVolume(msg.Ident)
		}
		return model.NoRedraw

	case event.EntryUpdate:
		en := msg.Entry
		if en == nil {
			return model.NoRedraw
		}
		s.Entries.Insert(en)
		if parent, ok := en.ParentIdent(); ok && !s.Entries.Contains(parent) {
			lp.askInfo(parent)
		}
		if s.Mode.Kind == model.ModeContextMenu && s.Menu.Target == en.Ident {
			cursor := s.Menu.Cursor
			s.Menu = model.MenuFor(en)
			s.Menu.Cursor = model.ClampCursor(cursor, len(s.Menu.Options))
			return model.FullRedraw
		}
		return lp.pageRedraw(en.Ident.Type)

	case event.EntryRemoved:
		if !s.Entries.Remove(msg.Ident) {
			return model.NoRedraw
		}
		switch s.Mode.Kind {
		case model.ModeMoveEntry:
			if s.Mode.Dragged == msg.Ident || s.Mode.Target == msg.Ident {
				return lp.abortMove(fmt.Errorf("%s removed: %w", msg.Ident, model.ErrStaleMoveEntry))
			}
		case model.ModeContextMenu:
			if s.Menu.Target == msg.Ident {
				lp.setMode(model.Normal)
				return model.FullRedraw
			}
		}
		return lp.pageRedraw(msg.Ident.Type)

	case event.MoveEntryToParent:
		if s.Entries.SetParent(msg.Ident, msg.Parent.Index) {
			s.Follow(msg.Ident)
			return lp.pageRedraw(msg.Ident.Type)
		}
	}
	return model.NoRedraw
}

// pageRedraw returns an entries repaint when entries of type t are listed on
// the active page.
func (lp *Loop) pageRedraw(t entry.Type) model.Redraw {
	s := lp.state
	if s.Mode.Kind == model.ModeMoveEntry {
		return model.FullRedraw
	}
	if s.Page == event.PageCards {
		if t == entry.Card {
			return model.EntriesRedraw
		}
		return model.NoRedraw
	}
	parent, child := model.ParentChildTypes(s.Page)
	if t == parent || t == child {
		return model.EntriesRedraw
	}
	return model.NoRedraw
}
