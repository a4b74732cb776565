package eventloop

import (
	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/model"
)

func (lp *Loop) handleContextMenu(l event.Letter) model.Redraw {
	s := lp.state
	switch msg := l.(type) {
	case event.MoveUp:
		if s.Menu.Move(-msg.N) {
			return model.FullRedraw
		}
	case event.MoveDown:
		if s.Menu.Move(msg.N) {
			return model.FullRedraw
		}
	case event.CloseContextMenu:
		lp.setMode(model.Normal)
		return model.FullRedraw
	case event.OpenContextMenu:
		return lp.runMenuOption()
	}
	return model.NoRedraw
}

// runMenuOption executes the option under the menu cursor.
func (lp *Loop) runMenuOption() model.Redraw {
	s := lp.state
	opt, ok := s.Menu.Selected()
	en, found := s.Entries.Get(s.Menu.Target)
	if !ok || !found {
		lp.setMode(model.Normal)
		return model.FullRedraw
	}
	if opt.Action == model.ActionMove {
		return lp.startMove(en)
	}

	switch opt.Action {
	case model.ActionMute:
		s.Emit(event.RequestMute{Ident: en.Ident, Mute: true})
	case model.ActionUnmute:
		s.Emit(event.RequestMute{Ident: en.Ident, Mute: false})
	case model.ActionKill:
		s.Emit(event.RequestKill{Ident: en.Ident})
	case model.ActionSetDefault:
		name := ""
		if en.Play != nil {
			name = en.Play.ServerName
		}
		s.Emit(event.RequestDefault{Ident: en.Ident, Name: name})
	case model.ActionSuspend:
		s.Emit(event.RequestSuspend{Ident: en.Ident, Suspend: true})
	case model.ActionResume:
		s.Emit(event.RequestSuspend{Ident: en.Ident, Suspend: false})
	case model.ActionProfile:
		s.Emit(event.RequestCardProfile{Ident: en.Ident, Profile: opt.Profile})
	}
	lp.setMode(model.Normal)
	return model.FullRedraw
}

// startMove enters the move preview with the stream's current device as the
// initial target.
func (lp *Loop) startMove(en *entry.Entry) model.Redraw {
	s := lp.state
	parentType, ok := en.Ident.Type.ParentType()
	if !ok {
		lp.setMode(model.Normal)
		return model.FullRedraw
	}
	target, hasParent := en.ParentIdent()
	if !hasParent || !s.Entries.Contains(target) {
		devices := s.Entries.IterType(parentType)
		if len(devices) == 0 {
			lp.setMode(model.Normal)
			return model.FullRedraw
		}
		target = devices[0]
	}
	lp.setMode(model.MoveEntry(en.Ident, target))
	if redraw := lp.refreshPage(); !redraw.IsNone() {
		return redraw
	}
	s.Selected = s.PageIndex(en.Ident)
	events.Move.Start(en.Ident.String(), target.String())
	return model.FullRedraw
}
