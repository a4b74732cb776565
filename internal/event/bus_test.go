package event

import (
	"sync"
	"testing"
	"time"
)

func receive(t *testing.T, s *Subscription) Letter {
	t.Helper()
	select {
	case l, ok := <-s.C():
		if !ok {
			t.Fatalf("subscription closed unexpectedly")
		}
		return l
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for letter")
	}
	return nil
}

func TestBusDeliversInPublishOrderToEverySubscriber(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()
	defer a.Close()
	defer b.Close()

	for i := 1; i <= 50; i++ {
		if !bus.Publish(MoveDown{N: i}) {
			t.Fatalf("publish %d rejected", i)
		}
	}
	for _, sub := range []*Subscription{a, b} {
		for i := 1; i <= 50; i++ {
			got, ok := receive(t, sub).(MoveDown)
			if !ok || got.N != i {
				t.Fatalf("expected MoveDown{%d}, got %#v", i, got)
			}
		}
	}
}

func TestBusPublishDoesNotBlockWithoutReader(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			bus.Publish(Redraw{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a slow subscriber")
	}
}

func TestBusCloseDrainsQueuedLetters(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	bus.Publish(ShowHelp{})
	bus.Publish(ExitSignal{})
	bus.Close()

	if bus.Publish(Redraw{}) {
		t.Fatalf("expected publish after close to be rejected")
	}
	if _, ok := receive(t, sub).(ShowHelp); !ok {
		t.Fatalf("expected ShowHelp first")
	}
	if _, ok := receive(t, sub).(ExitSignal); !ok {
		t.Fatalf("expected ExitSignal second")
	}
	select {
	case _, ok := <-sub.C():
		if ok {
			t.Fatalf("expected closed channel after drain")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after drain")
	}
}

func TestBusConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	const perProducer = 200
	var wg sync.WaitGroup
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if p == 0 {
					bus.Publish(MoveUp{N: i})
				} else {
					bus.Publish(MoveDown{N: i})
				}
			}
		}(p)
	}
	wg.Wait()

	nextUp, nextDown := 0, 0
	for i := 0; i < 2*perProducer; i++ {
		switch l := receive(t, sub).(type) {
		case MoveUp:
			if l.N != nextUp {
				t.Fatalf("MoveUp out of order: got %d want %d", l.N, nextUp)
			}
			nextUp++
		case MoveDown:
			if l.N != nextDown {
				t.Fatalf("MoveDown out of order: got %d want %d", l.N, nextDown)
			}
			nextDown++
		default:
			t.Fatalf("unexpected letter %#v", l)
		}
	}
}

func TestSubscribeOnClosedBusReturnsClosedChannel(t *testing.T) {
	bus := NewBus()
	bus.Close()
	sub := bus.Subscribe()
	select {
	case _, ok := <-sub.C():
		if ok {
			t.Fatalf("expected no letters")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected closed channel")
	}
}
