package eventloop

import (
	"github.com/atomicstack/tui-mixer/internal/model"
)

// handleScroll runs last for every letter. It re-projects the page when
// anything it is built from changed, applies any pending cursor follow
// request, keeps the move preview cursor on the dragged row and keeps the
// cursor inside the page and on screen.
func (lp *Loop) handleScroll() model.Redraw {
	s := lp.state
	redraw := model.NoRedraw
	if s.PageStale() {
		redraw = lp.refreshPage()
	}

	if ident, ok := s.TakeFollow(); ok {
		if idx := s.PageIndex(ident); idx >= 0 && idx != s.Selected {
			s.Selected = idx
			redraw.TakeBigger(model.EntriesRedraw)
		}
	}

	if s.Mode.Kind == model.ModeMoveEntry {
		if idx := s.PageIndex(s.Mode.Dragged); idx >= 0 && idx != s.Selected {
			s.Selected = idx
			redraw.TakeBigger(model.EntriesRedraw)
		}
	}

	total := len(s.PageEntries)
	if clamped := model.ClampCursor(s.Selected, total); clamped != s.Selected {
		s.Selected = clamped
		redraw.TakeBigger(model.EntriesRedraw)
	}

	offset := model.EnsureVisible(s.Selected, s.Scroll, total, model.VisibleEntries(s.Height))
	if offset != s.Scroll {
		s.Scroll = offset
		redraw.TakeBigger(model.FullRedraw)
	}
	return redraw
}
