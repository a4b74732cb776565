package eventloop

import (
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/model"
)

func (lp *Loop) handleHelp(l event.Letter) model.Redraw {
	switch l.(type) {
	case event.Redraw:
		return model.HelpRedraw
	case event.CloseContextMenu, event.ShowHelp:
		lp.setMode(model.Normal)
		return model.FullRedraw
	}
	return model.NoRedraw
}
