package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Output     key.Binding
	Input      key.Binding
	Cards      key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Select     key.Binding
	Back       key.Binding
	Help       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Mute       key.Binding
	Filter     key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	Output:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "output")),
	Input:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "input")),
	Cards:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "cards")),
	NextPage:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
	PrevPage:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous page")),
	Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "menu / confirm")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	VolumeUp:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/right", "volume up")),
	VolumeDown: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/left", "volume down")),
	Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.Select, k.Mute, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Output, k.Input, k.Cards, k.NextPage, k.PrevPage},
		{k.VolumeUp, k.VolumeDown, k.Mute, k.Select},
		{k.Filter, k.Back, k.Help, k.Quit},
	}
}
