package pulse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/jfreymuth/pulse/proto"
)

// ErrSubscriptionClosed means the server notification stream ended.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Change kinds of a notification.
const (
	KindNew    = "new"
	KindChange = "change"
	KindRemove = "remove"
)

// SubscriptionMask selects the facilities the mixer follows.
const SubscriptionMask = proto.SubscriptionMaskSink |
	proto.SubscriptionMaskSource |
	proto.SubscriptionMaskSinkInput |
	proto.SubscriptionMaskSourceInput |
	proto.SubscriptionMaskServer |
	proto.SubscriptionMaskCard

// Notification is one server change event.
type Notification struct {
	Kind     string
	Facility string
	Index    uint32
}

// Ident maps the facility to an entry identifier. Facilities without an
// entry (client, module, server) report false.
func (n Notification) Ident() (entry.Identifier, bool) {
	var t entry.Type
	switch n.Facility {
	case "sink":
		t = entry.Sink
	case "source":
		t = entry.Source
	case "sink-input":
		t = entry.SinkInput
	case "source-output":
		t = entry.SourceOutput
	case "card":
		t = entry.Card
	default:
		return entry.Identifier{}, false
	}
	return entry.ID(t, n.Index), true
}

var facilities = map[proto.SubscriptionEventType]string{
	proto.EventSink:             "sink",
	proto.EventSource:           "source",
	proto.EventSinkSinkInput:    "sink-input",
	proto.EventSinkSourceOutput: "source-output",
	proto.EventModule:           "module",
	proto.EventClient:           "client",
	proto.EventSampleCache:      "sample-cache",
	proto.EventServer:           "server",
	proto.EventAutoload:         "autoload",
	proto.EventCard:             "card",
}

func notificationOf(ev *proto.SubscribeEvent) Notification {
	n := Notification{Kind: KindChange, Facility: facilities[ev.Event.GetFacility()], Index: ev.Index}
	if n.Facility == "" {
		n.Facility = "unknown"
	}
	switch ev.Event.GetType() {
	case proto.EventNew:
		n.Kind = KindNew
	case proto.EventRemove:
		n.Kind = KindRemove
	}
	return n
}

// noteQueue buffers notifications between the read goroutine, which must
// never block, and the subscriber.
type noteQueue struct {
	mu     sync.Mutex
	items  []Notification
	ready  chan struct{}
	done   chan struct{}
	closer sync.Once
}

func newNoteQueue() *noteQueue {
	return &noteQueue{ready: make(chan struct{}, 1), done: make(chan struct{})}
}

func (q *noteQueue) push(n Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *noteQueue) drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

func (q *noteQueue) close() {
	q.closer.Do(func() { close(q.done) })
}

// Subscribe asks the server for change events and calls fn for each one
// until ctx ends or the connection closes. A closed connection while ctx
// is still live is reported as ErrSubscriptionClosed. fn runs on the
// calling goroutine and may issue requests.
func (c *Client) Subscribe(ctx context.Context, fn func(Notification)) error {
	if _, err := c.connection(); err != nil {
		return err
	}
	q := newNoteQueue()
	c.mu.Lock()
	prev := c.notes
	c.notes = q
	c.mu.Unlock()
	if prev != nil {
		prev.close()
	}
	defer func() {
		c.mu.Lock()
		if c.notes == q {
			c.notes = nil
		}
		c.mu.Unlock()
	}()

	if err := c.request(ctx, &proto.Subscribe{Mask: SubscriptionMask}, nil); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.ready:
			for _, n := range q.drain() {
				fn(n)
			}
		case <-q.done:
			for _, n := range q.drain() {
				fn(n)
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("subscribe: %w", ErrSubscriptionClosed)
		}
	}
}
