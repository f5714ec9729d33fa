// Package events implements single-pass event dispatch to subscribers.
// Subscribers observe events but cannot emit new ones into the same pass.
package events

import (
	"sync"

	"github.com/seiyria/qivan/types"
)

// Any subscribes to every event type.
const Any = "*"

// Handler receives one event.
type Handler func(types.Event)

type subscription struct {
	id        int
	eventType string
	fn        Handler
}

// Bus fans events out to subscribers. It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for events of the given type (or Any).
// The returned func removes the subscription.
func (b *Bus) Subscribe(eventType string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, eventType: eventType, fn: fn})
	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers events in order to the subscribers registered when the
// call began. Single pass: no recursion.
func (b *Bus) Dispatch(events []types.Event) {
	if len(events) == 0 {
		return
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, event := range events {
		for _, s := range subs {
			if s.eventType != Any && s.eventType != event.Type {
				continue
			}
			s.fn(event)
		}
	}
}
