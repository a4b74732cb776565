package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Tab                   *lipgloss.Style
	ActiveTab             *lipgloss.Style
	Separator             *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Child                 *lipgloss.Style
	Preview               *lipgloss.Style
	Muted                 *lipgloss.Style
	Default               *lipgloss.Style
	VolumeBar             *lipgloss.Style
	VolumeEmpty           *lipgloss.Style
	MeterLow              *lipgloss.Style
	MeterMid              *lipgloss.Style
	MeterHigh             *lipgloss.Style
	MeterEmpty            *lipgloss.Style
	Menu                  *lipgloss.Style
	MenuItem              *lipgloss.Style
	MenuSelected          *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
}

var defaultStyles = Styles{
	Tab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
	),
	ActiveTab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true).Padding(0, 1),
	),
	Separator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Child: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Preview: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Bold(true),
	),
	Muted: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	),
	Default: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	VolumeBar: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	VolumeEmpty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	MeterLow: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	MeterMid: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	MeterHigh: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	),
	MeterEmpty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
	),
	Menu: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
	),
	MenuItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	MenuSelected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Override changes the colours and weight of one named style.
type Override struct {
	Foreground string `toml:"fg"`
	Background string `toml:"bg"`
	Bold       *bool  `toml:"bold"`
}

// ErrUnknownStyle is wrapped by WithOverrides for names it does not know.
var ErrUnknownStyle = errors.New("unknown style")

// WithOverrides returns a copy of base with the named styles adjusted. Names
// are matched case-insensitively against the Styles field names, with
// dashes and underscores ignored ("selected-item" matches SelectedItem).
func WithOverrides(base *Styles, overrides map[string]Override) (*Styles, error) {
	out := base.clone()
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		slot := out.lookup(name)
		if slot == nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownStyle, name)
		}
		o := overrides[name]
		style := **slot
		if o.Foreground != "" {
			style = style.Foreground(lipgloss.Color(o.Foreground))
		}
		if o.Background != "" {
			style = style.Background(lipgloss.Color(o.Background))
		}
		if o.Bold != nil {
			style = style.Bold(*o.Bold)
		}
		*slot = ptr(style)
	}
	return out, nil
}

func (s *Styles) clone() *Styles {
	dup := *s
	for _, slot := range dup.slots() {
		if *slot.style != nil {
			*slot.style = ptr(**slot.style)
		}
	}
	return &dup
}

type namedSlot struct {
	name  string
	style **lipgloss.Style
}

func (s *Styles) slots() []namedSlot {
	return []namedSlot{
		{"tab", &s.Tab},
		{"activetab", &s.ActiveTab},
		{"separator", &s.Separator},
		{"item", &s.Item},
		{"itemindicator", &s.ItemIndicator},
		{"selecteditemindicator", &s.SelectedItemIndicator},
		{"selecteditem", &s.SelectedItem},
		{"child", &s.Child},
		{"preview", &s.Preview},
		{"muted", &s.Muted},
		{"default", &s.Default},
		{"volumebar", &s.VolumeBar},
		{"volumeempty", &s.VolumeEmpty},
		{"meterlow", &s.MeterLow},
		{"metermid", &s.MeterMid},
		{"meterhigh", &s.MeterHigh},
		{"meterempty", &s.MeterEmpty},
		{"menu", &s.Menu},
		{"menuitem", &s.MenuItem},
		{"menuselected", &s.MenuSelected},
		{"error", &s.Error},
		{"info", &s.Info},
		{"footer", &s.Footer},
		{"filter", &s.Filter},
		{"filterprompt", &s.FilterPrompt},
	}
}

func (s *Styles) lookup(name string) **lipgloss.Style {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(name))
	for _, slot := range s.slots() {
		if slot.name == key {
			return slot.style
		}
	}
	return nil
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
