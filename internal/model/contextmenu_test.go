package model

import (
	"testing"

	"github.com/atomicstack/tui-mixer/internal/entry"
)

func TestMenuForStreamDeviceAndCard(t *testing.T) {
	s := entry.NewPlayEntry(entry.ID(entry.SinkInput, 1), "music")
	s.Mute = true
	m := MenuFor(s)
	if len(m.Options) != 3 || m.Options[0].Action != ActionMove || m.Options[1].Action != ActionUnmute {
		t.Fatalf("unexpected stream menu %#v", m.Options)
	}

	d := entry.NewPlayEntry(entry.ID(entry.Source, 0), "mic")
	d.Play.Suspended = true
	m = MenuFor(d)
	if m.Options[0].Action != ActionSetDefault || m.Options[2].Action != ActionResume {
		t.Fatalf("unexpected device menu %#v", m.Options)
	}

	card := entry.NewCardEntry(3, "builtin", []entry.Profile{
		{Name: "off", Description: "Off"},
		{Name: "hdmi", Description: "HDMI", Available: false},
		{Name: "analog", Description: "Analog Stereo", Available: true},
	}, "analog")
	m = MenuFor(card)
	if len(m.Options) != 2 {
		t.Fatalf("expected off and analog profiles, got %#v", m.Options)
	}
	if opt, _ := m.Selected(); opt.Profile != "analog" {
		t.Fatalf("expected cursor on active profile, got %#v", opt)
	}
}

func TestMenuMoveWraps(t *testing.T) {
	m := Menu{Options: []MenuOption{{Label: "a"}, {Label: "b"}, {Label: "c"}}}
	if !m.Move(-1) || m.Cursor != 2 {
		t.Fatalf("expected wrap to last, got %d", m.Cursor)
	}
	if !m.Move(1) || m.Cursor != 0 {
		t.Fatalf("expected wrap to first, got %d", m.Cursor)
	}
	if m.Move(3) {
		t.Fatalf("full cycle should report no movement")
	}
	empty := Menu{}
	if empty.Move(1) {
		t.Fatalf("empty menu cannot move")
	}
}
