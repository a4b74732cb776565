package ui

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/format/table"
	"github.com/atomicstack/tui-mixer/internal/model"
	"github.com/atomicstack/tui-mixer/internal/theme"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultWidth = 80
	indicator    = "▌"
	ellipsis     = "…"
	menuIndent   = "    "
)

var pages = []event.Page{event.PageOutput, event.PageInput, event.PageCards}

// Renderer turns the session state into a frame. It keeps the lines of the
// last frame so a peak update repaints only the two lines of one entry.
// Render and Frame run on the Bubble Tea goroutine; SetStyles may be called
// from anywhere.
type Renderer struct {
	styles atomic.Pointer[theme.Styles]
	help   help.Model
	footer bool

	width     int
	header    []string
	body      []string
	rows      map[entry.Identifier]int
	overlay   []string
	overlayAt int
	bottom    string
	helpView  []string
	frame     string
}

// NewRenderer builds a renderer. A nil styles uses the default theme.
func NewRenderer(styles *theme.Styles, footer bool) *Renderer {
	if styles == nil {
		styles = theme.Default()
	}
	r := &Renderer{
		help:   help.New(),
		footer: footer,
		rows:   map[entry.Identifier]int{},
	}
	r.styles.Store(styles)
	return r
}

// SetStyles swaps the style set used from the next render on.
func (r *Renderer) SetStyles(styles *theme.Styles) {
	if styles != nil {
		r.styles.Store(styles)
	}
}

// Styles returns the style set in use.
func (r *Renderer) Styles() *theme.Styles {
	return r.styles.Load()
}

// Frame returns the last rendered frame.
func (r *Renderer) Frame() string {
	return r.frame
}

// Render implements eventloop.Renderer.
func (r *Renderer) Render(s *model.State, redraw model.Redraw) error {
	if s == nil {
		return fmt.Errorf("render %s: no state", redraw)
	}
	st := r.styles.Load()
	switch redraw.Kind {
	case model.RedrawNone:
		return nil
	case model.RedrawPeakVolume:
		if s.Mode.Kind == model.ModeHelp || !r.repaintEntry(st, s, redraw.Ident) {
			return nil
		}
	case model.RedrawEntries:
		r.width = frameWidth(s)
		r.renderBody(st, s)
		r.renderOverlay(st, s)
		r.bottom = r.renderBottom(st, s)
	default:
		r.width = frameWidth(s)
		r.header = r.renderHeader(st, s)
		r.renderBody(st, s)
		r.renderOverlay(st, s)
		r.bottom = r.renderBottom(st, s)
		r.helpView = nil
		if s.Mode.Kind == model.ModeHelp {
			r.helpView = r.renderHelp(st)
		}
	}
	r.compose(s)
	return nil
}

func frameWidth(s *model.State) int {
	if s.Width > 0 {
		return s.Width
	}
	return defaultWidth
}

func (r *Renderer) compose(s *model.State) {
	lines := append([]string(nil), r.header...)
	if s.Mode.Kind == model.ModeHelp && r.helpView != nil {
		lines = append(lines, r.helpView...)
		r.frame = strings.Join(lines, "\n")
		return
	}
	body := append([]string(nil), r.body...)
	for i, line := range r.overlay {
		at := r.overlayAt + i
		if at < len(body) {
			body[at] = line
		} else {
			body = append(body, line)
		}
	}
	if s.Height > 0 {
		room := s.Height - len(lines) - 1
		if room < 0 {
			room = 0
		}
		if len(body) > room {
			body = body[:room]
		}
		for len(body) < room {
			body = append(body, "")
		}
	}
	lines = append(lines, body...)
	lines = append(lines, r.bottom)
	r.frame = strings.Join(lines, "\n")
}

func (r *Renderer) renderHeader(st *theme.Styles, s *model.State) []string {
	var b strings.Builder
	for _, p := range pages {
		label := fmt.Sprintf("%d %s", int(p)+1, p)
		if p == s.Page {
			b.WriteString(st.ActiveTab.Render(label))
		} else {
			b.WriteString(st.Tab.Render(label))
		}
	}
	tabs := truncate.String(b.String(), uint(r.width))
	return []string{tabs, st.Separator.Render(strings.Repeat("─", r.width))}
}

func (r *Renderer) renderBody(st *theme.Styles, s *model.State) {
	r.body = r.body[:0]
	r.rows = map[entry.Identifier]int{}
	visible := s.VisibleRows()
	if len(visible) == 0 {
		msg := "  nothing to show"
		if s.Filter.Text != "" {
			msg = fmt.Sprintf("  nothing matches %q", s.Filter.Text)
		}
		r.body = append(r.body, st.Info.Render(msg))
		return
	}
	selected, hasSelected := s.SelectedIdent()
	for _, row := range visible {
		r.rows[row.Ident] = len(r.body)
		lines := r.entryLines(st, s, row, hasSelected && row.Ident == selected)
		r.body = append(r.body, lines[0], lines[1])
	}
}

// repaintEntry rewrites the cached lines of one on-screen entry.
func (r *Renderer) repaintEntry(st *theme.Styles, s *model.State, ident entry.Identifier) bool {
	at, ok := r.rows[ident]
	if !ok || at+1 >= len(r.body) {
		return false
	}
	idx := s.PageIndex(ident)
	if idx < 0 {
		return false
	}
	lines := r.entryLines(st, s, s.PageEntries[idx], idx == s.Selected)
	r.body[at] = lines[0]
	r.body[at+1] = lines[1]
	return true
}

func (r *Renderer) entryLines(st *theme.Styles, s *model.State, row model.Row, selected bool) [2]string {
	en, ok := s.Entries.Get(row.Ident)
	if !ok {
		return [2]string{"", ""}
	}
	mark := st.ItemIndicator.Render(" ")
	if selected {
		mark = st.SelectedItemIndicator.Render(indicator)
	}
	indent := ""
	if row.Child {
		indent = "  "
	}
	lead := mark + indent

	titleStyle := st.Item
	switch {
	case row.Preview:
		titleStyle = st.Preview
	case selected:
		titleStyle = st.SelectedItem
	case row.Child:
		titleStyle = st.Child
	}

	var tags []string
	if en.Mute {
		tags = append(tags, st.Muted.Render("muted"))
	}
	if en.Play != nil {
		if en.Play.Default {
			tags = append(tags, st.Default.Render("default"))
		}
		if en.Play.Suspended {
			tags = append(tags, st.Info.Render("suspended"))
		}
	}
	if len(en.Volume) > 0 {
		tags = append(tags, fmt.Sprintf("%4d%%", en.Volume.Percent()))
	}
	right := strings.Join(tags, " ")

	room := r.width - lipgloss.Width(lead) - lipgloss.Width(right) - 1
	if room < 1 {
		room = 1
	}
	title := truncate.StringWithTail(entryTitle(en), uint(room), ellipsis)
	first := lead + titleStyle.Render(title)
	if right != "" {
		gap := r.width - lipgloss.Width(first) - lipgloss.Width(right)
		if gap < 1 {
			gap = 1
		}
		first += strings.Repeat(" ", gap) + right
	}

	var second string
	switch {
	case en.Card != nil:
		second = lead + st.Info.Render("  profile: "+activeProfile(en.Card))
	case en.Play != nil:
		space := r.width - lipgloss.Width(lead) - 3
		volW := space * 2 / 5
		meterW := space - volW
		second = lead + "  " + volumeBar(st, en, volW) + " " + meterBar(st, en.Play.Peak, meterW)
	default:
		second = lead
	}
	return [2]string{first, second}
}

func entryTitle(en *entry.Entry) string {
	if en.Play != nil && en.Play.Application != "" && en.Play.Application != en.Name {
		return en.Play.Application + ": " + en.Name
	}
	return en.Name
}

func activeProfile(card *entry.CardEntry) string {
	for _, p := range card.Profiles {
		if p.Name == card.ActiveProfile {
			if p.Description != "" {
				return p.Description
			}
			return p.Name
		}
	}
	if card.ActiveProfile == "" {
		return "none"
	}
	return card.ActiveProfile
}

func volumeBar(st *theme.Styles, en *entry.Entry, width int) string {
	if width < 1 {
		return ""
	}
	filled := en.Volume.Percent() * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	fill := st.VolumeBar
	if en.Mute {
		fill = st.Muted
	}
	return fill.Render(strings.Repeat("━", filled)) + st.VolumeEmpty.Render(strings.Repeat("─", width-filled))
}

// meterBar draws a peak level in [0, 1] with green, amber and red bands.
func meterBar(st *theme.Styles, peak float32, width int) string {
	if width < 1 {
		return ""
	}
	if peak < 0 {
		peak = 0
	}
	if peak > 1 {
		peak = 1
	}
	filled := int(peak*float32(width) + 0.5)
	mid := width * 6 / 10
	high := width * 85 / 100
	var b strings.Builder
	segment := func(from, to int, style *lipgloss.Style) {
		if to > filled {
			to = filled
		}
		if to > from {
			b.WriteString(style.Render(strings.Repeat("█", to-from)))
		}
	}
	segment(0, mid, st.MeterLow)
	segment(mid, high, st.MeterMid)
	segment(high, width, st.MeterHigh)
	b.WriteString(st.MeterEmpty.Render(strings.Repeat("░", width-filled)))
	return b.String()
}

func (r *Renderer) renderOverlay(st *theme.Styles, s *model.State) {
	r.overlay = nil
	r.overlayAt = 0
	if s.Mode.Kind != model.ModeContextMenu || len(s.Menu.Options) == 0 {
		return
	}
	title := s.Menu.Target.String()
	if en, ok := s.Entries.Get(s.Menu.Target); ok {
		title = entryTitle(en)
	}
	var active string
	if en, ok := s.Entries.Get(s.Menu.Target); ok && en.Card != nil {
		active = en.Card.ActiveProfile
	}
	cells := make([][]string, len(s.Menu.Options))
	for i, opt := range s.Menu.Options {
		marker := " "
		if i == s.Menu.Cursor {
			marker = "›"
		}
		cells[i] = []string{marker, opt.Label}
		if opt.Action == model.ActionProfile && opt.Profile == active {
			cells[i] = append(cells[i], "active")
		}
	}
	formatted := table.Format(cells, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft})
	lines := []string{st.Info.Render(truncate.StringWithTail(title, uint(maxInt(r.width/2, 8)), ellipsis))}
	for i, line := range formatted {
		if i == s.Menu.Cursor {
			lines = append(lines, st.MenuSelected.Render(line))
		} else {
			lines = append(lines, st.MenuItem.Render(line))
		}
	}
	box := strings.Split(st.Menu.Render(strings.Join(lines, "\n")), "\n")
	for i := range box {
		box[i] = menuIndent + box[i]
	}
	r.overlay = box

	at := 0
	if selected, ok := s.SelectedIdent(); ok {
		if line, ok := r.rows[selected]; ok {
			at = line + model.RowsPerEntry
		}
	}
	if limit := bodyRoom(s, len(r.header)); limit > 0 && at+len(box) > limit {
		at = limit - len(box)
	}
	if at < 0 {
		at = 0
	}
	r.overlayAt = at
}

func bodyRoom(s *model.State, header int) int {
	if s.Height <= 0 {
		return 0
	}
	return s.Height - header - 1
}

func (r *Renderer) renderBottom(st *theme.Styles, s *model.State) string {
	switch {
	case s.Mode.Kind == model.ModeMoveEntry:
		name := s.Mode.Dragged.String()
		if en, ok := s.Entries.Get(s.Mode.Dragged); ok {
			name = entryTitle(en)
		}
		hint := fmt.Sprintf(" moving %s: j/k pick target, enter confirm, esc cancel", name)
		return truncate.StringWithTail(st.Preview.Render(" MOVE ")+st.Footer.Render(hint), uint(r.width), ellipsis)
	case s.Notice != "" && !s.Filter.Editing:
		return truncate.StringWithTail(st.Error.Render(" "+s.Notice), uint(r.width), ellipsis)
	case s.Filter.Editing || s.Filter.Text != "":
		line := st.FilterPrompt.Render("/") + st.Filter.Render(s.Filter.Text)
		if s.Filter.Editing {
			line += st.Filter.Render("█")
		}
		return line
	case r.footer:
		r.help.Width = r.width
		return r.help.ShortHelpView(keys.ShortHelp())
	}
	return ""
}

func (r *Renderer) renderHelp(st *theme.Styles) []string {
	r.help.Width = r.width
	lines := []string{""}
	lines = append(lines, strings.Split(r.help.FullHelpView(keys.FullHelp()), "\n")...)
	lines = append(lines, "", st.Footer.Render("esc or ? to close"))
	return lines
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
