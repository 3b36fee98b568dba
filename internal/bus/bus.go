package bus

import (
	"sync"

	"github.com/devflowhq/devflow/internal/log"
)

// HandlerFunc receives events for the types it subscribed to.
// Handlers run on the single dispatcher goroutine, so delivery order
// matches publish order.
type HandlerFunc func(Event)

// Bus is a buffered, single-dispatcher event bus. Publish blocks once
// the buffer fills, making back-pressure explicit rather than
// unbounded.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]HandlerFunc
	all      []HandlerFunc

	events chan Event
	quit   chan struct{}
	done   chan struct{}
	closed bool
}

// New creates a bus with the given buffer size and starts its
// dispatcher.
func New(buffer int) *Bus {
	b := &Bus{
		handlers: make(map[EventType][]HandlerFunc),
		events:   make(chan Event, buffer),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.dispatch()
	return b
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t EventType, fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], fn)
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, fn)
}

// Publish enqueues an event. It blocks if the buffer is full and is a
// no-op after Close.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		log.Warn("event dropped, bus closed", "type", e.Type)
		return
	}

	// The events channel is never closed, so a publish racing Close
	// either lands in the buffer before the drain or unblocks on quit.
	select {
	case b.events <- e:
	case <-b.quit:
		log.Warn("event dropped, bus closed", "type", e.Type)
	}
}

// Close stops accepting events, drains the queue, and waits for the
// dispatcher to finish.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.quit)
	<-b.done
}

func (b *Bus) dispatch() {
	defer close(b.done)
	for {
		select {
		case e := <-b.events:
			b.deliver(e)
		case <-b.quit:
			// Drain whatever was buffered before the close.
			for {
				select {
				case e := <-b.events:
					b.deliver(e)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(e Event) {
	b.mu.RLock()
	typed := b.handlers[e.Type]
	all := b.all
	b.mu.RUnlock()

	log.Trace("dispatching event", "type", e.Type, "repo", e.Repo.FullName(), "issue", e.Issue)
	for _, fn := range typed {
		fn(e)
	}
	for _, fn := range all {
		fn(e)
	}
}
