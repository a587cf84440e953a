package services

import (
	"sync"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// eventBuffer is the per-subscriber channel capacity. Publishes to a
// full subscriber are dropped rather than blocking the publisher.
const eventBuffer = 16

// EventBus delivers per-note update notifications to subscribers.
// Subscriptions are keyed by note ID with an explicit unsubscribe
// lifecycle; there is no global registry.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan domain.NoteEvent
	nextID int
	closed bool
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[string]map[int]chan domain.NoteEvent),
	}
}

// Subscribe registers interest in events for one note ID and returns
// the event channel plus a cancel function. The channel is closed when
// cancel is called or the bus shuts down.
func (b *EventBus) Subscribe(noteID string) (<-chan domain.NoteEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.NoteEvent, eventBuffer)

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++

	if b.subs[noteID] == nil {
		b.subs[noteID] = make(map[int]chan domain.NoteEvent)
	}
	b.subs[noteID][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if subs, ok := b.subs[noteID]; ok {
			if sub, ok := subs[id]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(b.subs, noteID)
				}
				close(sub)
			}
		}
	}

	return ch, cancel
}

// Publish delivers an event to every subscriber of its note ID.
// Delivery is non-blocking: a subscriber that has fallen behind by more
// than the buffer misses the event.
func (b *EventBus) Publish(ev domain.NoteEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs[ev.NoteID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close shuts the bus down, closing every subscriber channel.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for noteID, subs := range b.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(b.subs, noteID)
	}
}
