package backend

import (
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/pulse"
)

// watch follows server notifications until the driver stops. A notification
// stream that ends on its own is fatal: the mixer can no longer track the
// server.
func (d *Driver) watch() {
	defer d.wg.Done()
	err := d.server.Subscribe(d.ctx, d.notify)
	if err != nil && d.ctx.Err() == nil {
		d.bus.Publish(event.ServerError{Err: err, Fatal: true})
	}
}

func (d *Driver) notify(n pulse.Notification) {
	events.Driver.Subscription(n.Kind, n.Facility, n.Index)
	if n.Facility == "server" {
		// default device may have changed
		for _, id := range d.knownDevices() {
			d.AskInfo(id)
		}
		return
	}
	ident, ok := n.Ident()
	if !ok {
		return
	}
	if n.Kind == pulse.KindRemove {
		d.remove(ident)
		return
	}
	d.AskInfo(ident)
}
