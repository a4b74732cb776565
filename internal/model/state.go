package model

import (
	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
)

// Settings are the user-tunable knobs the handlers consult.
type Settings struct {
	VolumeStep       int
	MaxVolumePercent int
}

// DefaultSettings mirrors the config defaults.
var DefaultSettings = Settings{VolumeStep: 5, MaxVolumePercent: 150}

// Filter is the fuzzy page filter.
type Filter struct {
	Text    string
	Editing bool
}

// State is the whole session state. Only the dispatch loop mutates it.
type State struct {
	Entries     *entry.Entries
	Page        event.Page
	PageEntries []Row
	Selected    int
	Scroll      int
	Mode        UIMode
	Menu        Menu
	Filter      Filter
	Notice      string
	Width       int
	Height      int
	Settings    Settings
	Redraw      Redraw

	outbox    []event.Letter
	follow    *entry.Identifier
	projected *projection
}

// projection is what PageEntries was last built from.
type projection struct {
	revision uint64
	mode     UIMode
	page     event.Page
	filter   string
}

// NewState returns an empty session on the given page.
func NewState(page event.Page, settings Settings) *State {
	if settings.VolumeStep <= 0 {
		settings.VolumeStep = DefaultSettings.VolumeStep
	}
	if settings.MaxVolumePercent <= 0 {
		settings.MaxVolumePercent = DefaultSettings.MaxVolumePercent
	}
	return &State{
		Entries:  entry.NewEntries(),
		Page:     page,
		Mode:     Normal,
		Settings: settings,
	}
}

// Emit queues a letter to publish once the current event is handled.
func (s *State) Emit(l event.Letter) {
	s.outbox = append(s.outbox, l)
}

// TakeOutbox returns and clears the queued letters.
func (s *State) TakeOutbox() []event.Letter {
	out := s.outbox
	s.outbox = nil
	return out
}

// RefreshPage re-projects PageEntries from the entry model.
func (s *State) RefreshPage() error {
	filter := s.Filter.Text
	rows, err := Project(s.Entries, s.Mode, s.Page, filter)
	if err != nil {
		return err
	}
	s.PageEntries = rows
	s.projected = &projection{
		revision: s.Entries.Revision(),
		mode:     s.Mode,
		page:     s.Page,
		filter:   filter,
	}
	return nil
}

// PageStale reports whether the entries, mode, page or filter changed since
// the last RefreshPage.
func (s *State) PageStale() bool {
	p := s.projected
	return p == nil || p.revision != s.Entries.Revision() ||
		p.mode != s.Mode || p.page != s.Page || p.filter != s.Filter.Text
}

// PageIndex returns the row index of ident on the current page, or -1.
func (s *State) PageIndex(ident entry.Identifier) int {
	for i, row := range s.PageEntries {
		if row.Ident == ident {
			return i
		}
	}
	return -1
}

// OnPage reports whether ident is listed on the current page.
func (s *State) OnPage(ident entry.Identifier) bool {
	return s.PageIndex(ident) >= 0
}

// SelectedIdent returns the identifier under the cursor.
func (s *State) SelectedIdent() (entry.Identifier, bool) {
	if s.Selected < 0 || s.Selected >= len(s.PageEntries) {
		return entry.Identifier{}, false
	}
	return s.PageEntries[s.Selected].Ident, true
}

// SelectedEntry returns the entry under the cursor.
func (s *State) SelectedEntry() (*entry.Entry, bool) {
	id, ok := s.SelectedIdent()
	if !ok {
		return nil, false
	}
	return s.Entries.Get(id)
}

// VisibleRows returns the slice of PageEntries currently on screen.
func (s *State) VisibleRows() []Row {
	limit := VisibleEntries(s.Height)
	if limit <= 0 || len(s.PageEntries) <= limit {
		return s.PageEntries
	}
	start := s.Scroll
	if start+limit > len(s.PageEntries) {
		start = len(s.PageEntries) - limit
	}
	if start < 0 {
		start = 0
	}
	return s.PageEntries[start : start+limit]
}

// OnScreen reports whether ident is within the visible rows.
func (s *State) OnScreen(ident entry.Identifier) bool {
	for _, row := range s.VisibleRows() {
		if row.Ident == ident {
			return true
		}
	}
	return false
}

// Follow asks the next page refresh to put the cursor on ident.
func (s *State) Follow(ident entry.Identifier) {
	s.follow = &ident
}

// TakeFollow returns and clears the pending follow request.
func (s *State) TakeFollow() (entry.Identifier, bool) {
	if s.follow == nil {
		return entry.Identifier{}, false
	}
	id := *s.follow
	s.follow = nil
	return id, true
}
