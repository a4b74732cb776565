package eventloop

import (
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/model"
)

// handleGeneral runs for every letter regardless of mode.
func (lp *Loop) handleGeneral(l event.Letter) model.Redraw {
	s := lp.state
	switch msg := l.(type) {
	case event.Redraw:
		if s.Mode.Kind == model.ModeHelp {
			return model.NoRedraw
		}
		return model.FullRedraw
	case event.ServerError:
		if msg.Fatal || msg.Err == nil {
			return model.NoRedraw
		}
		s.Notice = msg.Err.Error()
		return model.EntriesRedraw
	case event.MoveUp, event.MoveDown, event.ChangePage, event.CyclePage,
		event.OpenContextMenu, event.CloseContextMenu, event.ShowHelp,
		event.VolumeUp, event.VolumeDown, event.ToggleMute, event.FilterStart:
		// the next key press dismisses a command failure notice
		if s.Notice != "" {
			s.Notice = ""
			return model.EntriesRedraw
		}
	case event.Resize:
		if msg.Width == s.Width && msg.Height == s.Height {
			return model.NoRedraw
		}
		s.Width = msg.Width
		s.Height = msg.Height
		return model.FullRedraw
	}
	return model.NoRedraw
}
