package model

import (
	"github.com/atomicstack/tui-mixer/internal/entry"
)

// MenuAction is what a context menu option does.
type MenuAction int

const (
	ActionMove MenuAction = iota
	ActionMute
	ActionUnmute
	ActionKill
	ActionSetDefault
	ActionSuspend
	ActionResume
	ActionProfile
)

// MenuOption is one line of the context menu.
type MenuOption struct {
	Action  MenuAction
	Label   string
	Profile string
}

// Menu is the open context menu and its cursor.
type Menu struct {
	Target  entry.Identifier
	Options []MenuOption
	Cursor  int
}

// MenuFor lists the options that apply to en.
func MenuFor(en *entry.Entry) Menu {
	m := Menu{Target: en.Ident}
	muteOpt := MenuOption{Action: ActionMute, Label: "Mute"}
	if en.Mute {
		muteOpt = MenuOption{Action: ActionUnmute, Label: "Unmute"}
	}
	switch en.Ident.Type {
	case entry.SinkInput, entry.SourceOutput:
		m.Options = []MenuOption{
			{Action: ActionMove, Label: "Move"},
			muteOpt,
			{Action: ActionKill, Label: "Kill"},
		}
	case entry.Sink, entry.Source:
		m.Options = []MenuOption{{Action: ActionSetDefault, Label: "Set as default"}, muteOpt}
		if en.Play != nil && en.Play.Suspended {
			m.Options = append(m.Options, MenuOption{Action: ActionResume, Label: "Resume"})
		} else {
			m.Options = append(m.Options, MenuOption{Action: ActionSuspend, Label: "Suspend"})
		}
	case entry.Card:
		if en.Card == nil {
			break
		}
		for _, p := range en.Card.Profiles {
			if !p.Available && p.Name != "off" {
				continue
			}
			label := p.Description
			if label == "" {
				label = p.Name
			}
			m.Options = append(m.Options, MenuOption{Action: ActionProfile, Label: label, Profile: p.Name})
			if p.Name == en.Card.ActiveProfile {
				m.Cursor = len(m.Options) - 1
			}
		}
	}
	return m
}

// Move shifts the menu cursor circularly.
func (m *Menu) Move(delta int) bool {
	n := len(m.Options)
	if n == 0 {
		return false
	}
	next := ((m.Cursor+delta)%n + n) % n
	if next == m.Cursor {
		return false
	}
	m.Cursor = next
	return true
}

// Selected returns the option under the cursor.
func (m *Menu) Selected() (MenuOption, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Options) {
		return MenuOption{}, false
	}
	return m.Options[m.Cursor], true
}
