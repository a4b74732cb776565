package entry

import (
	"fmt"
	"math"
)

// Type discriminates the kinds of objects an audio server exposes.
type Type int

const (
	Sink Type = iota
	Source
	SinkInput
	SourceOutput
	Card
)

// InvalidIndex marks an absent index, matching the server's own sentinel.
const InvalidIndex uint32 = math.MaxUint32

func (t Type) String() string {
	switch t {
	case Sink:
		return "sink"
	case Source:
		return "source"
	case SinkInput:
		return "sink-input"
	case SourceOutput:
		return "source-output"
	case Card:
		return "card"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Metered reports whether entries of this type carry a peak level.
func (t Type) Metered() bool {
	return t != Card
}

// IsStream reports whether the type is a per-application stream.
func (t Type) IsStream() bool {
	return t == SinkInput || t == SourceOutput
}

// ParentType returns the device type a stream type attaches to.
func (t Type) ParentType() (Type, bool) {
	switch t {
	case SinkInput:
		return Sink, true
	case SourceOutput:
		return Source, true
	}
	return t, false
}

// Identifier keys one audio object. Equality is by (Type, Index).
type Identifier struct {
	Type  Type
	Index uint32
}

// ID is shorthand for building an Identifier.
func ID(t Type, index uint32) Identifier {
	return Identifier{Type: t, Index: index}
}

func (i Identifier) String() string {
	return fmt.Sprintf("%s#%d", i.Type, i.Index)
}

// HiddenStatus controls whether a stream is listed on its page.
type HiddenStatus int

const (
	Visible HiddenStatus = iota
	Hidden
)

// PlayEntry is the metering and playback state of sinks, sources and streams.
type PlayEntry struct {
	Peak          float32
	ServerName    string
	MonitorSource string
	Application   string
	Suspended     bool
	Default       bool
}

// Profile is one selectable card profile.
type Profile struct {
	Name        string
	Description string
	Available   bool
	Priority    int
}

// CardEntry holds the profiles of a hardware card.
type CardEntry struct {
	Profiles      []Profile
	ActiveProfile string
}

// Entry is the live state of one audio object.
type Entry struct {
	Ident  Identifier
	Name   string
	Volume Volume
	Mute   bool
	Parent uint32
	Hidden HiddenStatus
	Play   *PlayEntry
	Card   *CardEntry
}

// NewPlayEntry builds an entry for a metered type.
func NewPlayEntry(ident Identifier, name string) *Entry {
	if !ident.Type.Metered() {
		panic(fmt.Sprintf("entry: %s has no metering channel", ident))
	}
	return &Entry{Ident: ident, Name: name, Parent: InvalidIndex, Play: &PlayEntry{}}
}

// NewCardEntry builds a card entry.
func NewCardEntry(index uint32, name string, profiles []Profile, active string) *Entry {
	return &Entry{
		Ident:  ID(Card, index),
		Name:   name,
		Parent: InvalidIndex,
		Card:   &CardEntry{Profiles: append([]Profile(nil), profiles...), ActiveProfile: active},
	}
}

// HasParent reports whether the entry is attached to a device.
func (e *Entry) HasParent() bool {
	return e.Parent != InvalidIndex
}

// ParentIdent returns the identifier of the device a stream is attached to.
func (e *Entry) ParentIdent() (Identifier, bool) {
	pt, ok := e.Ident.Type.ParentType()
	if !ok || !e.HasParent() {
		return Identifier{}, false
	}
	return ID(pt, e.Parent), true
}

// Clone returns a deep copy.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	dup := *e
	dup.Volume = e.Volume.Clone()
	if e.Play != nil {
		play := *e.Play
		dup.Play = &play
	}
	if e.Card != nil {
		card := CardEntry{Profiles: append([]Profile(nil), e.Card.Profiles...), ActiveProfile: e.Card.ActiveProfile}
		dup.Card = &card
	}
	return &dup
}
