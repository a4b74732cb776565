package theme

import (
	"errors"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestWithOverridesCopiesBase(t *testing.T) {
	bold := false
	styles, err := WithOverrides(Default(), map[string]Override{
		"selected-item": {Foreground: "201", Bold: &bold},
		"meter_high":    {Background: "52"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := styles.SelectedItem.GetForeground(); got != lipgloss.Color("201") {
		t.Fatalf("foreground not applied: %v", got)
	}
	if styles.SelectedItem.GetBold() {
		t.Fatalf("bold override not applied")
	}
	if got := styles.MeterHigh.GetBackground(); got != lipgloss.Color("52") {
		t.Fatalf("background not applied: %v", got)
	}
	if Default().SelectedItem.GetForeground() != lipgloss.Color("255") {
		t.Fatalf("default styles were mutated")
	}
	if styles.Item == Default().Item {
		t.Fatalf("untouched styles should still be copies")
	}
}

func TestWithOverridesRejectsUnknownNames(t *testing.T) {
	_, err := WithOverrides(Default(), map[string]Override{"sparkles": {Foreground: "1"}})
	if !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
}
