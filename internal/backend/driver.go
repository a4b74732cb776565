// Package backend runs the audio-server side of the mixer: it loads the
// initial snapshot, follows server notifications, answers info requests,
// executes control commands and supervises the peak meters. Everything it
// learns is published as letters.
package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/pulse"
)

// Server is the subset of pulse.Client the driver needs.
type Server interface {
	List(ctx context.Context, t entry.Type) ([]*entry.Entry, error)
	Get(ctx context.Context, ident entry.Identifier) (*entry.Entry, error)
	Exec(ctx context.Context, cmd pulse.Command) error
	Subscribe(ctx context.Context, fn func(pulse.Notification)) error
	Meter(ctx context.Context, src pulse.MeterSource, fn func(float32)) error
}

// Publisher receives the letters the driver produces.
type Publisher interface {
	Publish(event.Letter) bool
}

// Options tune the driver.
type Options struct {
	// Meters starts a peak meter stream per visible entry.
	Meters bool
	// InfoQueue bounds pending info requests; extra requests are dropped.
	InfoQueue int
	// InfoInterval is the minimum gap between two info queries.
	InfoInterval time.Duration
}

const (
	defaultInfoQueue    = 64
	defaultInfoInterval = 10 * time.Millisecond
)

// snapshotOrder loads devices before their streams so stream meters can
// find their parent's monitor source.
var snapshotOrder = []entry.Type{entry.Card, entry.Sink, entry.Source, entry.SinkInput, entry.SourceOutput}

// Driver connects one audio server to the letter stream.
type Driver struct {
	server Server
	bus    Publisher
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	info     chan entry.Identifier
	throttle *throttle
	wg       sync.WaitGroup

	mu      sync.Mutex
	pending map[entry.Identifier]bool
	known   map[entry.Identifier]*entry.Entry
	meters  map[entry.Identifier]*meter
}

// NewDriver builds a driver. Nothing runs until Start.
func NewDriver(server Server, bus Publisher, opts Options) *Driver {
	if opts.InfoQueue <= 0 {
		opts.InfoQueue = defaultInfoQueue
	}
	if opts.InfoInterval <= 0 {
		opts.InfoInterval = defaultInfoInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Driver{
		server:   server,
		bus:      bus,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		info:     make(chan entry.Identifier, opts.InfoQueue),
		throttle: newThrottle(opts.InfoInterval),
		pending:  make(map[entry.Identifier]bool),
		known:    make(map[entry.Identifier]*entry.Entry),
		meters:   make(map[entry.Identifier]*meter),
	}
}

// Start publishes the current server state and starts following changes.
// A failing snapshot is returned wrapped so callers can test for
// pulse.ErrServerUnavailable.
func (d *Driver) Start() error {
	for _, t := range snapshotOrder {
		entries, err := d.server.List(d.ctx, t)
		if err != nil {
			return fmt.Errorf("initial %s snapshot: %w", t, err)
		}
		for _, en := range entries {
			d.publishEntry(en)
		}
	}
	d.wg.Add(2)
	go d.watch()
	go d.serveInfo()
	return nil
}

// Stop cancels every goroutine and meter stream. Use Wait for a clean
// drain.
func (d *Driver) Stop() {
	d.cancel()
}

// Wait blocks until all driver goroutines have exited.
func (d *Driver) Wait() {
	d.wg.Wait()
}

// AskInfo queues a fresh query for ident. It never blocks: duplicate
// requests are coalesced and a full queue drops the request.
func (d *Driver) AskInfo(ident entry.Identifier) {
	d.mu.Lock()
	if d.pending[ident] {
		d.mu.Unlock()
		return
	}
	d.pending[ident] = true
	d.mu.Unlock()

	select {
	case d.info <- ident:
		events.Driver.AskInfo(ident.String())
	default:
		d.mu.Lock()
		delete(d.pending, ident)
		d.mu.Unlock()
		events.Driver.AskInfoDropped(ident.String())
	}
}

func (d *Driver) serveInfo() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case ident := <-d.info:
			d.mu.Lock()
			delete(d.pending, ident)
			d.mu.Unlock()
			if !d.throttle.wait(d.ctx) {
				return
			}
			d.refresh(ident)
		}
	}
}

func (d *Driver) refresh(ident entry.Identifier) {
	en, err := d.server.Get(d.ctx, ident)
	switch {
	case errors.Is(err, pulse.ErrNotFound):
		d.remove(ident)
	case err != nil:
		if d.ctx.Err() == nil {
			logging.Error(fmt.Errorf("query %s: %w", ident, err))
		}
	default:
		d.publishEntry(en)
	}
}

// publishEntry records en and hands a private copy to the bus.
func (d *Driver) publishEntry(en *entry.Entry) {
	d.mu.Lock()
	d.known[en.Ident] = en
	d.mu.Unlock()
	d.bus.Publish(event.EntryUpdate{Entry: en.Clone()})
	d.syncMeter(en)
}

func (d *Driver) remove(ident entry.Identifier) {
	d.mu.Lock()
	delete(d.known, ident)
	d.mu.Unlock()
	d.stopMeter(ident)
	d.bus.Publish(event.EntryRemoved{Ident: ident})
}

// knownDevices lists the sinks and sources seen so far.
func (d *Driver) knownDevices() []entry.Identifier {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []entry.Identifier
	for id := range d.known {
		if id.Type == entry.Sink || id.Type == entry.Source {
			out = append(out, id)
		}
	}
	return out
}
