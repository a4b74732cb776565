package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flushIdle is how long Flush waits for the next letter before deciding the
// bus is quiet.
const flushIdle = 20 * time.Millisecond

// Harness drives the UI model programmatically for integration tests. It
// starts the model and, instead of letting Bubble Tea wait on the bus, feeds
// queued letters through Update itself.
type Harness struct {
	model *Model
	quit  bool
}

// NewHarness starts model in manual mode.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model}
	if model == nil {
		return h
	}
	model.manual = true
	h.processCmd(model.Init())
	h.Flush()
	return h
}

// Send routes a message through the model, executes any returned commands
// and then handles every letter it caused.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.update(msg)
	h.Flush()
}

// Flush handles letters until the bus stays quiet for a moment.
func (h *Harness) Flush() {
	if h.model == nil {
		return
	}
	for !h.quit {
		select {
		case l, ok := <-h.model.sub.C():
			if !ok {
				h.update(streamClosedMsg{})
				return
			}
			h.update(letterMsg{letter: l})
		case <-time.After(flushIdle):
			return
		}
	}
}

func (h *Harness) update(msg tea.Msg) {
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			h.quit = true
			return
		}
		mdl, next := h.model.Update(msg)
		if updated, ok := mdl.(*Model); ok {
			h.model = updated
		}
		cmd = next
	}
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
