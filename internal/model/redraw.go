package model

import (
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/entry"
)

// RedrawKind orders how much of the screen must repaint.
type RedrawKind int

const (
	RedrawNone RedrawKind = iota
	RedrawPeakVolume
	RedrawEntries
	RedrawHelp
	RedrawFull
)

func (k RedrawKind) String() string {
	switch k {
	case RedrawNone:
		return "none"
	case RedrawPeakVolume:
		return "peak"
	case RedrawEntries:
		return "entries"
	case RedrawHelp:
		return "help"
	case RedrawFull:
		return "full"
	}
	return fmt.Sprintf("redraw(%d)", int(k))
}

// Redraw is a repaint directive. Ident is only meaningful for
// RedrawPeakVolume.
type Redraw struct {
	Kind  RedrawKind
	Ident entry.Identifier
}

var (
	NoRedraw      = Redraw{}
	EntriesRedraw = Redraw{Kind: RedrawEntries}
	HelpRedraw    = Redraw{Kind: RedrawHelp}
	FullRedraw    = Redraw{Kind: RedrawFull}
)

// PeakVolume targets the meter of a single entry.
func PeakVolume(ident entry.Identifier) Redraw {
	return Redraw{Kind: RedrawPeakVolume, Ident: ident}
}

// IsNone reports whether nothing needs repainting.
func (r Redraw) IsNone() bool {
	return r.Kind == RedrawNone
}

// Merge returns the smallest directive covering both r and o. Peak updates
// for two different entries widen to an entries repaint.
func (r Redraw) Merge(o Redraw) Redraw {
	switch {
	case o.Kind > r.Kind:
		return o
	case r.Kind > o.Kind:
		return r
	case r.Kind == RedrawPeakVolume && r.Ident != o.Ident:
		return EntriesRedraw
	}
	return r
}

// TakeBigger merges o into r in place.
func (r *Redraw) TakeBigger(o Redraw) {
	*r = r.Merge(o)
}

func (r Redraw) String() string {
	if r.Kind == RedrawPeakVolume {
		return fmt.Sprintf("peak(%s)", r.Ident)
	}
	return r.Kind.String()
}
