package model

import (
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/entry"
)

// ModeKind enumerates the UI modes.
type ModeKind int

const (
	ModeNormal ModeKind = iota
	ModeContextMenu
	ModeHelp
	ModeMoveEntry
)

// UIMode is the active mode. Dragged and Target are set only for
// ModeMoveEntry.
type UIMode struct {
	Kind    ModeKind
	Dragged entry.Identifier
	Target  entry.Identifier
}

var (
	Normal      = UIMode{Kind: ModeNormal}
	ContextMenu = UIMode{Kind: ModeContextMenu}
	Help        = UIMode{Kind: ModeHelp}
)

// MoveEntry previews dragged relocated under target.
func MoveEntry(dragged, target entry.Identifier) UIMode {
	return UIMode{Kind: ModeMoveEntry, Dragged: dragged, Target: target}
}

func (m UIMode) String() string {
	switch m.Kind {
	case ModeNormal:
		return "normal"
	case ModeContextMenu:
		return "context-menu"
	case ModeHelp:
		return "help"
	case ModeMoveEntry:
		return fmt.Sprintf("move(%s -> %s)", m.Dragged, m.Target)
	}
	return fmt.Sprintf("mode(%d)", int(m.Kind))
}
