package events

import "github.com/atomicstack/tui-mixer/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Exit(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.exit", payload)
}

func (AppTracer) Key(key string, letters int) {
	logging.Trace("app.key", map[string]interface{}{"key": key, "letters": letters})
}
