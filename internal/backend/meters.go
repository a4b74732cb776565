package backend

import (
	"context"
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/pulse"
)

type meter struct {
	src    pulse.MeterSource
	cancel context.CancelFunc
}

// syncMeter starts, restarts or stops the meter of en so that it records
// from en's current source.
func (d *Driver) syncMeter(en *entry.Entry) {
	if !d.opts.Meters || !en.Ident.Type.Metered() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx.Err() != nil {
		return
	}
	var parent *entry.Entry
	if pid, ok := en.ParentIdent(); ok {
		parent = d.known[pid]
	}
	src, ok := pulse.MeterSourceFor(en, parent)
	cur, running := d.meters[en.Ident]
	if running && ok && cur.src == src {
		return
	}
	if running {
		cur.cancel()
		delete(d.meters, en.Ident)
		events.Driver.MeterStop(en.Ident.String())
	}
	if !ok {
		return
	}
	ctx, cancel := context.WithCancel(d.ctx)
	m := &meter{src: src, cancel: cancel}
	d.meters[en.Ident] = m
	events.Driver.MeterStart(en.Ident.String(), src.Device)
	d.wg.Add(1)
	go d.runMeter(ctx, en.Ident, m)
}

func (d *Driver) runMeter(ctx context.Context, ident entry.Identifier, m *meter) {
	defer d.wg.Done()
	err := d.server.Meter(ctx, m.src, func(peak float32) {
		d.bus.Publish(event.PeakVolumeUpdate{Ident: ident, Peak: peak})
	})
	if err != nil {
		logging.Error(fmt.Errorf("meter %s: %w", ident, err))
	}
	d.mu.Lock()
	if d.meters[ident] == m {
		delete(d.meters, ident)
	}
	d.mu.Unlock()
}

func (d *Driver) stopMeter(ident entry.Identifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m, ok := d.meters[ident]; ok {
		m.cancel()
		delete(d.meters, ident)
		events.Driver.MeterStop(ident.String())
	}
}
