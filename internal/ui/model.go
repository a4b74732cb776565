package ui

import (
	"reflect"

	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/eventloop"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

type msgHandler func(tea.Msg) tea.Cmd

// letterMsg carries one letter from the bus into Update.
type letterMsg struct {
	letter event.Letter
}

// streamClosedMsg reports that the bus closed the subscription.
type streamClosedMsg struct{}

// Options tune the model. Zero sizes follow the terminal.
type Options struct {
	Width  int
	Height int
}

// Model implements the Bubble Tea model for the mixer. Update is the single
// consumer of the letter stream: key presses are published onto the bus and
// come back through the subscription like every other letter.
type Model struct {
	loop     *eventloop.Loop
	bus      *event.Bus
	sub      *event.Subscription
	renderer *Renderer

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	filtering bool
	manual    bool
	err       error

	handlers map[reflect.Type]msgHandler
}

// NewModel subscribes to bus and wraps loop. renderer must be the one loop
// paints through.
func NewModel(loop *eventloop.Loop, bus *event.Bus, renderer *Renderer, opts Options) *Model {
	m := &Model{
		loop:     loop,
		bus:      bus,
		sub:      bus.Subscribe(),
		renderer: renderer,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.fixedWidth || m.fixedHeight {
		m.bus.Publish(event.Resize{Width: m.width, Height: m.height})
	}
	if err := m.loop.Start(); err != nil {
		m.err = err
		return tea.Quit
	}
	return m.next()
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	return m.renderer.Frame()
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(letterMsg{}):         m.handleLetterMsg,
		reflect.TypeOf(streamClosedMsg{}):   m.handleStreamClosedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg := msg.(tea.KeyMsg)
	letters := m.lettersFor(keyMsg)
	events.App.Key(keyMsg.String(), len(letters))
	for _, l := range letters {
		m.bus.Publish(l)
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.bus.Publish(event.Resize{Width: m.width, Height: m.height})
	return nil
}

func (m *Model) handleLetterMsg(msg tea.Msg) tea.Cmd {
	l := msg.(letterMsg).letter
	stop, err := m.loop.Handle(l)
	if err != nil {
		m.err = err
		events.App.Exit(err)
		return tea.Quit
	}
	if stop {
		return tea.Quit
	}
	// the filter flag is tracked ahead of the loop while letters are in
	// flight; once the queue is empty the loop's view is authoritative
	if m.sub.Pending() == 0 {
		m.filtering = m.loop.State().Filter.Editing
	}
	return m.next()
}

func (m *Model) handleStreamClosedMsg(tea.Msg) tea.Cmd {
	return tea.Quit
}

// next waits for the following letter. In manual mode the harness feeds
// letters itself.
func (m *Model) next() tea.Cmd {
	if m.manual {
		return nil
	}
	return waitForLetter(m.sub)
}

func waitForLetter(sub *event.Subscription) tea.Cmd {
	return func() tea.Msg {
		l, ok := <-sub.C()
		if !ok {
			return streamClosedMsg{}
		}
		return letterMsg{letter: l}
	}
}

// Close releases the bus subscription.
func (m *Model) Close() {
	m.sub.Close()
}
