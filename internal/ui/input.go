package ui

import (
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/model"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// lettersFor translates one key press into the letters it stands for.
func (m *Model) lettersFor(msg tea.KeyMsg) []event.Letter {
	if m.filtering {
		if l := filterLetter(msg); l != nil {
			if _, ok := l.(event.FilterEnd); ok {
				m.filtering = false
			}
			return []event.Letter{l}
		}
	}
	step := model.VisibleEntries(m.loop.State().Height)
	if step < 1 {
		step = 1
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return []event.Letter{event.ExitSignal{}}
	case key.Matches(msg, keys.Up):
		return []event.Letter{event.MoveUp{N: 1}}
	case key.Matches(msg, keys.Down):
		return []event.Letter{event.MoveDown{N: 1}}
	case key.Matches(msg, keys.PageUp):
		return []event.Letter{event.MoveUp{N: step}}
	case key.Matches(msg, keys.PageDown):
		return []event.Letter{event.MoveDown{N: step}}
	case key.Matches(msg, keys.Output):
		return []event.Letter{event.ChangePage{Page: event.PageOutput}}
	case key.Matches(msg, keys.Input):
		return []event.Letter{event.ChangePage{Page: event.PageInput}}
	case key.Matches(msg, keys.Cards):
		return []event.Letter{event.ChangePage{Page: event.PageCards}}
	case key.Matches(msg, keys.NextPage):
		return []event.Letter{event.CyclePage{Delta: 1}}
	case key.Matches(msg, keys.PrevPage):
		return []event.Letter{event.CyclePage{Delta: -1}}
	case key.Matches(msg, keys.Select):
		return []event.Letter{event.OpenContextMenu{}}
	case key.Matches(msg, keys.Back):
		return []event.Letter{event.CloseContextMenu{}}
	case key.Matches(msg, keys.Help):
		return []event.Letter{event.ShowHelp{}}
	case key.Matches(msg, keys.VolumeUp):
		return []event.Letter{event.VolumeUp{}}
	case key.Matches(msg, keys.VolumeDown):
		return []event.Letter{event.VolumeDown{}}
	case key.Matches(msg, keys.Mute):
		return []event.Letter{event.ToggleMute{}}
	case key.Matches(msg, keys.Filter):
		if m.loop.State().Mode.Kind != model.ModeNormal {
			return nil
		}
		m.filtering = true
		return []event.Letter{event.FilterStart{}}
	}
	return nil
}

// filterLetter handles the keys that edit the filter. Navigation keys fall
// through to the normal bindings.
func filterLetter(msg tea.KeyMsg) event.Letter {
	switch msg.Type {
	case tea.KeyCtrlC:
		return event.ExitSignal{}
	case tea.KeyEnter:
		return event.FilterEnd{}
	case tea.KeyEsc:
		return event.FilterEnd{Clear: true}
	case tea.KeyBackspace:
		return event.FilterBackspace{}
	case tea.KeySpace:
		return event.FilterInput{Text: " "}
	case tea.KeyRunes:
		if len(msg.Runes) > 0 {
			return event.FilterInput{Text: string(msg.Runes)}
		}
	}
	return nil
}
