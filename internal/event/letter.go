// Package event defines the letters exchanged between the audio-server
// driver, the input layer and the dispatch loop, and the broadcast bus that
// carries them.
package event

import (
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/entry"
)

// Letter is one message on the bus. The set of implementations is closed.
type Letter interface {
	letter()
}

// Page selects one of the mixer pages.
type Page int

const (
	PageOutput Page = iota
	PageInput
	PageCards
)

func (p Page) String() string {
	switch p {
	case PageOutput:
		return "Output"
	case PageInput:
		return "Input"
	case PageCards:
		return "Cards"
	}
	return fmt.Sprintf("page(%d)", int(p))
}

// ExitSignal ends the dispatch loop.
type ExitSignal struct{}

// Redraw asks for a full repaint.
type Redraw struct{}

// Resize reports a new terminal size.
type Resize struct {
	Width  int
	Height int
}

// EntryUpdate carries a fresh snapshot of one entry from the server.
type EntryUpdate struct {
	Entry *entry.Entry
}

// EntryRemoved reports that the server dropped an entry.
type EntryRemoved struct {
	Ident entry.Identifier
}

// PeakVolumeUpdate carries a new peak level.
type PeakVolumeUpdate struct {
	Ident entry.Identifier
	Peak  float32
}

// ServerError reports a driver failure. Fatal errors end the session.
type ServerError struct {
	Err   error
	Fatal bool
}

// MoveUp moves the cursor, or the move target, N rows up.
type MoveUp struct{ N int }

// MoveDown moves the cursor, or the move target, N rows down.
type MoveDown struct{ N int }

// ChangePage switches to a page.
type ChangePage struct{ Page Page }

// CyclePage moves Delta pages forward (or backward when negative).
type CyclePage struct{ Delta int }

// OpenContextMenu opens the menu, confirms a menu option, or commits a move.
type OpenContextMenu struct{}

// CloseContextMenu leaves the menu, help or move modes.
type CloseContextMenu struct{}

// ShowHelp toggles the help overlay.
type ShowHelp struct{}

// VolumeUp raises the selected entry by Percent.
type VolumeUp struct{ Percent int }

// VolumeDown lowers the selected entry by Percent.
type VolumeDown struct{ Percent int }

// ToggleMute flips mute on the selected entry.
type ToggleMute struct{}

// FilterStart begins editing the page filter.
type FilterStart struct{}

// FilterInput appends text to the page filter.
type FilterInput struct{ Text string }

// FilterBackspace removes the last rune of the page filter.
type FilterBackspace struct{}

// FilterEnd stops editing; Clear also empties the filter.
type FilterEnd struct{ Clear bool }

// MoveEntryToParent commits a stream relocation.
type MoveEntryToParent struct {
	Ident  entry.Identifier
	Parent entry.Identifier
}

// RequestMute asks the driver to set the mute state.
type RequestMute struct {
	Ident entry.Identifier
	Mute  bool
}

// RequestVolume asks the driver to set per-channel volume.
type RequestVolume struct {
	Ident  entry.Identifier
	Volume entry.Volume
}

// RequestDefault asks the driver to make a device the default.
type RequestDefault struct {
	Ident entry.Identifier
	Name  string
}

// RequestKill asks the driver to terminate a stream.
type RequestKill struct {
	Ident entry.Identifier
}

// RequestSuspend asks the driver to suspend or resume a device.
type RequestSuspend struct {
	Ident   entry.Identifier
	Suspend bool
}

// RequestCardProfile asks the driver to switch a card profile.
type RequestCardProfile struct {
	Ident   entry.Identifier
	Profile string
}

func (ExitSignal) letter()         {}
func (Redraw) letter()             {}
func (Resize) letter()             {}
func (EntryUpdate) letter()        {}
func (EntryRemoved) letter()       {}
func (PeakVolumeUpdate) letter()   {}
func (ServerError) letter()        {}
func (MoveUp) letter()             {}
func (MoveDown) letter()           {}
func (ChangePage) letter()         {}
func (CyclePage) letter()          {}
func (OpenContextMenu) letter()    {}
func (CloseContextMenu) letter()   {}
func (ShowHelp) letter()           {}
func (VolumeUp) letter()           {}
func (VolumeDown) letter()         {}
func (ToggleMute) letter()         {}
func (FilterStart) letter()        {}
func (FilterInput) letter()        {}
func (FilterBackspace) letter()    {}
func (FilterEnd) letter()          {}
func (MoveEntryToParent) letter()  {}
func (RequestMute) letter()        {}
func (RequestVolume) letter()      {}
func (RequestDefault) letter()     {}
func (RequestKill) letter()        {}
func (RequestSuspend) letter()     {}
func (RequestCardProfile) letter() {}

// Name returns a short label for tracing.
func Name(l Letter) string {
	return fmt.Sprintf("%T", l)
}
