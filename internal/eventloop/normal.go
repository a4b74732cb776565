package eventloop

import (
	"slices"
	"unicode/utf8"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/model"
)

func (lp *Loop) handleNormal(l event.Letter) model.Redraw {
	s := lp.state
	switch msg := l.(type) {
	case event.MoveUp:
		return lp.moveCursor(-msg.N)
	case event.MoveDown:
		return lp.moveCursor(msg.N)

	case event.ChangePage:
		return lp.changePage(msg.Page)
	case event.CyclePage:
		return lp.changePage(model.NextPage(s.Page, msg.Delta))

	case event.OpenContextMenu:
		en, ok := s.SelectedEntry()
		if !ok {
			return model.NoRedraw
		}
		menu := model.MenuFor(en)
		if len(menu.Options) == 0 {
			return model.NoRedraw
		}
		s.Menu = menu
		lp.setMode(model.ContextMenu)
		return model.FullRedraw

	case event.ShowHelp:
		lp.setMode(model.Help)
		return model.HelpRedraw

	case event.CloseContextMenu:
		if s.Filter.Text == "" && !s.Filter.Editing {
			return model.NoRedraw
		}
		s.Filter = model.Filter{}
		return model.FullRedraw

	case event.VolumeUp:
		return lp.requestVolume(lp.volumeStep(msg.Percent))
	case event.VolumeDown:
		return lp.requestVolume(-lp.volumeStep(msg.Percent))

	case event.ToggleMute:
		en, ok := s.SelectedEntry()
		if !ok || en.Ident.Type == entry.Card {
			return model.NoRedraw
		}
		s.Emit(event.RequestMute{Ident: en.Ident, Mute: !en.Mute})
		return model.NoRedraw

	case event.FilterStart:
		if s.Filter.Editing {
			return model.NoRedraw
		}
		s.Filter.Editing = true
		return model.FullRedraw
	case event.FilterInput:
		if !s.Filter.Editing || msg.Text == "" {
			return model.NoRedraw
		}
		s.Filter.Text += msg.Text
		s.Selected = 0
		return model.FullRedraw
	case event.FilterBackspace:
		if !s.Filter.Editing || s.Filter.Text == "" {
			return model.NoRedraw
		}
		_, size := utf8.DecodeLastRuneInString(s.Filter.Text)
		s.Filter.Text = s.Filter.Text[:len(s.Filter.Text)-size]
		s.Selected = 0
		return model.FullRedraw
	case event.FilterEnd:
		if !s.Filter.Editing && !msg.Clear {
			return model.NoRedraw
		}
		s.Filter.Editing = false
		if msg.Clear {
			s.Filter.Text = ""
		}
		return model.FullRedraw
	}
	return model.NoRedraw
}

// moveCursor shifts the selection circularly.
func (lp *Loop) moveCursor(delta int) model.Redraw {
	s := lp.state
	n := len(s.PageEntries)
	if n == 0 || delta == 0 {
		return model.NoRedraw
	}
	next := ((s.Selected+delta)%n + n) % n
	if next == s.Selected {
		return model.NoRedraw
	}
	s.Selected = next
	return model.EntriesRedraw
}

func (lp *Loop) changePage(page event.Page) model.Redraw {
	s := lp.state
	if page == s.Page {
		return model.NoRedraw
	}
	s.Page = page
	s.Selected = 0
	s.Scroll = 0
	events.Mode.Page(page.String())
	return model.FullRedraw
}

// requestVolume asks the driver to shift the selected entry's volume. The
// screen updates when the server echoes the change back.
func (lp *Loop) requestVolume(delta int) model.Redraw {
	s := lp.state
	en, ok := s.SelectedEntry()
	if !ok || en.Ident.Type == entry.Card || len(en.Volume) == 0 {
		return model.NoRedraw
	}
	if delta == 0 {
		return model.NoRedraw
	}
	next := en.Volume.Adjust(delta, s.Settings.MaxVolumePercent)
	if slices.Equal(next, en.Volume) {
		return model.NoRedraw
	}
	s.Emit(event.RequestVolume{Ident: en.Ident, Volume: next})
	return model.NoRedraw
}

func (lp *Loop) volumeStep(percent int) int {
	if percent <= 0 {
		return lp.state.Settings.VolumeStep
	}
	return percent
}
