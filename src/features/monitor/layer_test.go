package monitor

import (
	"errors"
	"sync"
)

// fakeLayer records subscriptions and lets tests inject events.
type fakeLayer struct {
	mu           sync.Mutex
	subscribed   map[string]bool
	subscribes   int
	unsubscribes int
	failing      map[string]bool
	closed       bool

	events chan Event
	errors chan error
}

func newFakeLayer() *fakeLayer {
	return &fakeLayer{
		subscribed: make(map[string]bool),
		failing:    make(map[string]bool),
		events:     make(chan Event, 16),
		errors:     make(chan error, 4),
	}
}

func (f *fakeLayer) Subscribe(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	if f.failing[path] {
		return errors.New("permission denied")
	}
	f.subscribed[path] = true
	return nil
}

func (f *fakeLayer) Unsubscribe(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribes++
	if !f.subscribed[path] {
		return errors.New("not watched")
	}
	delete(f.subscribed, path)
	return nil
}

func (f *fakeLayer) Events() <-chan Event {
	return f.events
}

func (f *fakeLayer) Errors() <-chan error {
	return f.errors
}

func (f *fakeLayer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	close(f.events)
	close(f.errors)
	return nil
}

func (f *fakeLayer) fail(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[path] = true
}

func (f *fakeLayer) isSubscribed(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribed[path]
}

func (f *fakeLayer) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// send delivers an event unless the layer has been closed.
func (f *fakeLayer) send(ev Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.events <- ev
	return true
}
