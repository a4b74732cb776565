package events

import "github.com/atomicstack/tui-mixer/internal/logging"

type DriverTracer struct{}

type ConfigTracer struct{}

var (
	Driver = DriverTracer{}
	Config = ConfigTracer{}
)

func (DriverTracer) Command(args []string) {
	logging.Trace("driver.command", map[string]interface{}{"args": args})
}

func (DriverTracer) CommandError(args []string, err error) {
	if err == nil {
		return
	}
	logging.Trace("driver.command.error", map[string]interface{}{"args": args, "error": err.Error()})
}

func (DriverTracer) Subscription(kind, facility string, index uint32) {
	logging.Trace("driver.subscription", map[string]interface{}{"kind": kind, "facility": facility, "index": index})
}

func (DriverTracer) AskInfo(ident string) {
	logging.Trace("driver.ask-info", map[string]interface{}{"ident": ident})
}

func (DriverTracer) AskInfoDropped(ident string) {
	logging.Trace("driver.ask-info.dropped", map[string]interface{}{"ident": ident})
}

func (DriverTracer) MeterStart(ident, source string) {
	logging.Trace("driver.meter.start", map[string]interface{}{"ident": ident, "source": source})
}

func (DriverTracer) MeterStop(ident string) {
	logging.Trace("driver.meter.stop", map[string]interface{}{"ident": ident})
}

func (ConfigTracer) Reload(path string) {
	logging.Trace("config.reload", map[string]interface{}{"path": path})
}

func (ConfigTracer) ReloadError(path string, err error) {
	if err == nil {
		return
	}
	logging.Trace("config.reload.error", map[string]interface{}{"path": path, "error": err.Error()})
}
