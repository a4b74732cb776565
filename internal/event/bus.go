package event

import "sync"

// Bus fans letters from any number of producers out to every subscriber.
// Publish never blocks: each subscription buffers without bound and delivers
// in publish order.
type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscription receives every letter published after it was created.
type Subscription struct {
	bus *Bus

	mu       sync.Mutex
	queue    []Letter
	draining bool

	wake chan struct{}
	out  chan Letter
	done chan struct{}
	once sync.Once
}

// Subscribe registers a new subscriber. On a closed bus the returned
// subscription is already closed.
func (b *Bus) Subscribe() *Subscription {
	s := &Subscription{
		bus:  b,
		wake: make(chan struct{}, 1),
		out:  make(chan Letter),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	if b.closed {
		s.draining = true
	} else {
		b.subs[s] = struct{}{}
	}
	b.mu.Unlock()
	go s.pump()
	return s
}

// Publish enqueues l for every subscriber. It reports false once the bus is
// closed.
func (b *Bus) Publish(l Letter) bool {
	if l == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	for s := range b.subs {
		s.push(l)
	}
	return true
}

// Close stops accepting letters. Subscribers drain what is already queued and
// then see their channel closed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.mu.Lock()
		s.draining = true
		s.mu.Unlock()
		s.signal()
	}
	b.subs = map[*Subscription]struct{}{}
}

// C returns the delivery channel.
func (s *Subscription) C() <-chan Letter {
	return s.out
}

// Close unsubscribes and discards anything still queued.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.done)
	})
}

// Pending returns the number of queued, undelivered letters.
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Subscription) push(l Letter) {
	s.mu.Lock()
	s.queue = append(s.queue, l)
	s.mu.Unlock()
	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			draining := s.draining
			s.mu.Unlock()
			if draining {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
