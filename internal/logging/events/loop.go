package events

import "github.com/atomicstack/tui-mixer/internal/logging"

type LoopTracer struct{}

type MoveTracer struct{}

type ModeTracer struct{}

var (
	Loop = LoopTracer{}
	Move = MoveTracer{}
	Mode = ModeTracer{}
)

func (LoopTracer) Letter(name string) {
	logging.Trace("loop.letter", map[string]interface{}{"letter": name})
}

func (LoopTracer) Render(directive string) {
	logging.Trace("loop.render", map[string]interface{}{"redraw": directive})
}

func (LoopTracer) Exit(reason string) {
	logging.Trace("loop.exit", map[string]interface{}{"reason": reason})
}

func (ModeTracer) Change(from, to string) {
	logging.Trace("mode.change", map[string]interface{}{"from": from, "to": to})
}

func (ModeTracer) Page(page string) {
	logging.Trace("mode.page", map[string]interface{}{"page": page})
}

func (MoveTracer) Start(dragged, target string) {
	logging.Trace("move.start", map[string]interface{}{"dragged": dragged, "target": target})
}

func (MoveTracer) Target(dragged, target string) {
	logging.Trace("move.target", map[string]interface{}{"dragged": dragged, "target": target})
}

func (MoveTracer) Commit(dragged, target string) {
	logging.Trace("move.commit", map[string]interface{}{"dragged": dragged, "target": target})
}

func (MoveTracer) Cancel(dragged string) {
	logging.Trace("move.cancel", map[string]interface{}{"dragged": dragged})
}

func (MoveTracer) Abort(err error) {
	if err == nil {
		return
	}
	logging.Trace("move.abort", map[string]interface{}{"error": err.Error()})
}
