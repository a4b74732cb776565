// Package eventloop is the single consumer of the letter stream. It owns the
// session state, routes each letter through the mode-independent handlers
// and exactly one handler for the active UI mode, merges their redraw
// directives and hands the result to the renderer.
package eventloop

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/model"
)

// Renderer paints the state according to a redraw directive.
type Renderer interface {
	Render(state *model.State, redraw model.Redraw) error
}

// Publisher puts letters back on the shared stream.
type Publisher interface {
	Publish(event.Letter) bool
}

// InfoRequester asks the audio-server driver for a fresh snapshot of an
// entry. The answer arrives later as an EntryUpdate letter.
type InfoRequester interface {
	AskInfo(ident entry.Identifier)
}

// ErrRenderer wraps failures reported by the renderer.
var ErrRenderer = errors.New("render failed")

// Loop sequences handler invocation for every letter.
type Loop struct {
	state     *model.State
	renderer  Renderer
	publisher Publisher
	info      InfoRequester
}

// New builds a loop around state. publisher and info may be nil.
func New(state *model.State, renderer Renderer, publisher Publisher, info InfoRequester) *Loop {
	return &Loop{state: state, renderer: renderer, publisher: publisher, info: info}
}

// State exposes the session state to the renderer's owner.
func (lp *Loop) State() *model.State {
	return lp.state
}

// Start projects the first page and requests a full paint.
func (lp *Loop) Start() error {
	lp.state.Redraw.TakeBigger(model.FullRedraw)
	lp.state.Redraw.TakeBigger(lp.handleScroll())
	return lp.flush()
}

// Handle processes one letter. It reports true when the loop must stop; a
// non-nil error accompanies a fatal stop.
func (lp *Loop) Handle(l event.Letter) (bool, error) {
	s := lp.state
	switch msg := l.(type) {
	case nil:
		return false, nil
	case event.ExitSignal:
		events.Loop.Exit("signal")
		return true, nil
	case event.ServerError:
		if msg.Fatal {
			events.Loop.Exit("server error")
			return true, msg.Err
		}
		logging.Error(msg.Err)
	case event.PeakVolumeUpdate:
	default:
		events.Loop.Letter(event.Name(l))
	}

	general := lp.handleGeneral(l)
	general.TakeBigger(lp.handleEntriesUpdates(l))
	if s.PageStale() {
		general.TakeBigger(lp.refreshPage())
	}
	s.Redraw.TakeBigger(general)

	s.Redraw.TakeBigger(lp.dispatchMode(l))
	s.Redraw.TakeBigger(lp.handleScroll())

	return false, lp.flush()
}

// Run consumes letters until ExitSignal, a fatal error, the channel closing
// or ctx being cancelled.
func (lp *Loop) Run(ctx context.Context, letters <-chan event.Letter) error {
	if err := lp.Start(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			events.Loop.Exit("cancelled")
			return nil
		case l, ok := <-letters:
			if !ok {
				events.Loop.Exit("stream closed")
				return nil
			}
			stop, err := lp.Handle(l)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
}

// dispatchMode routes l to the handler of the active mode.
func (lp *Loop) dispatchMode(l event.Letter) model.Redraw {
	switch lp.state.Mode.Kind {
	case model.ModeNormal:
		return lp.handleNormal(l)
	case model.ModeContextMenu:
		return lp.handleContextMenu(l)
	case model.ModeHelp:
		return lp.handleHelp(l)
	case model.ModeMoveEntry:
		return lp.handleMoveEntry(l)
	}
	return model.NoRedraw
}

func (lp *Loop) flush() error {
	s := lp.state
	if !s.Redraw.IsNone() {
		redraw := s.Redraw
		s.Redraw = model.NoRedraw
		if redraw.Kind != model.RedrawPeakVolume {
			events.Loop.Render(redraw.String())
		}
		if lp.renderer != nil {
			if err := lp.renderer.Render(s, redraw); err != nil {
				return fmt.Errorf("%w: %v", ErrRenderer, err)
			}
		}
	}
	for _, out := range s.TakeOutbox() {
		if lp.publisher != nil {
			lp.publisher.Publish(out)
		}
	}
	return nil
}

// setMode switches mode and traces the transition.
func (lp *Loop) setMode(next model.UIMode) {
	prev := lp.state.Mode
	lp.state.Mode = next
	if prev != next {
		events.Mode.Change(prev.String(), next.String())
	}
}

// refreshPage re-projects the page. A stale move preview is a
// synchronisation bug between the mode and the entry model; it is logged and
// the session falls back to normal mode.
func (lp *Loop) refreshPage() model.Redraw {
	err := lp.state.RefreshPage()
	if err == nil {
		return model.NoRedraw
	}
	return lp.abortMove(err)
}

func (lp *Loop) abortMove(err error) model.Redraw {
	s := lp.state
	logging.Error(err)
	events.Move.Abort(err)
	dragged := s.Mode.Dragged
	lp.setMode(model.Normal)
	if rerr := s.RefreshPage(); rerr != nil {
		logging.Error(rerr)
		s.PageEntries = nil
	}
	if s.Entries.Contains(dragged) {
		s.Follow(dragged)
	}
	return model.FullRedraw
}

func (lp *Loop) askInfo(ident entry.Identifier) {
	if lp.info != nil {
		lp.info.AskInfo(ident)
	}
}
