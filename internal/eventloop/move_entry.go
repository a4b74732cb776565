package eventloop

import (
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/model"
)

func (lp *Loop) handleMoveEntry(l event.Letter) model.Redraw {
	s := lp.state
	switch msg := l.(type) {
	case event.MoveUp:
		return lp.retarget(-msg.N)
	case event.MoveDown:
		return lp.retarget(msg.N)

	case event.OpenContextMenu:
		dragged, target := s.Mode.Dragged, s.Mode.Target
		lp.setMode(model.Normal)
		s.Emit(event.MoveEntryToParent{Ident: dragged, Parent: target})
		s.Follow(dragged)
		events.Move.Commit(dragged.String(), target.String())
		return model.FullRedraw

	case event.CloseContextMenu:
		dragged := s.Mode.Dragged
		lp.setMode(model.Normal)
		s.Follow(dragged)
		events.Move.Cancel(dragged.String())
		return model.FullRedraw
	}
	return model.NoRedraw
}

// retarget moves the preview delta destinations away from the current
// target, skipping the dragged entry's own slot.
func (lp *Loop) retarget(delta int) model.Redraw {
	s := lp.state
	n := len(s.PageEntries)
	if n < 2 {
		return model.NoRedraw
	}
	dragged := s.Mode.Dragged
	slot := s.PageIndex(dragged)
	if slot < 1 {
		return lp.abortMove(fmt.Errorf("dragged %s not previewed: %w", dragged, model.ErrStaleMoveEntry))
	}
	target := s.PageEntries[MoveDestination(slot, delta, n)].Ident
	if target == s.Mode.Target {
		return model.NoRedraw
	}
	lp.setMode(model.MoveEntry(dragged, target))
	if redraw := lp.refreshPage(); !redraw.IsNone() {
		return redraw
	}
	s.Selected = s.PageIndex(dragged)
	events.Move.Target(dragged.String(), target.String())
	return model.FullRedraw
}

// MoveDestination returns the row index of the new target for a preview of
// length rows in which the dragged entry sits at slot, right after the
// current target. The length-1 other rows form a ring; the result is delta
// steps around that ring from the current target and is never slot itself.
func MoveDestination(slot, delta, length int) int {
	l := length - 1
	j := ((slot-1+delta)%l + l) % l
	if j >= slot {
		j++
	}
	return j
}
