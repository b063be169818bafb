// Package event provides ordered, synchronous listener sets.
//
// Each core component (phase coordinator, grasp registry, range control) owns
// one [Listeners] value per event kind. Emitting an event calls every
// subscriber in registration order before the emitting operation returns.
//
// Key types:
//   - [Listeners] - a typed set of subscribers for one event kind
//   - [ID] - subscription handle returned by [Listeners.Subscribe]
package event

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ID identifies a subscription so it can be removed later.
// IDs are unique across all listener sets in the process; the zero ID is
// never handed out.
type ID uint64

var lastID atomic.Uint64

// Listeners holds the subscribers for a single event kind.
//
// The zero value is ready to use. Emit delivers to a snapshot of the
// subscribers, so a listener may subscribe or unsubscribe while an event is
// being delivered; the change takes effect for the next Emit.
type Listeners[T any] struct {
	mu   sync.Mutex
	subs []subscription[T]
}

type subscription[T any] struct {
	id ID
	fn func(T)
}

// Subscribe registers fn and returns its subscription ID.
// A nil fn is ignored and yields the zero ID.
func (l *Listeners[T]) Subscribe(fn func(T)) ID {
	if fn == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	id := ID(lastID.Add(1))
	l.subs = append(l.subs, subscription[T]{id: id, fn: fn})
	return id
}

// Unsubscribe removes the subscription with the given ID.
// Returns true if the subscription was found and removed.
func (l *Listeners[T]) Unsubscribe(id ID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, sub := range l.subs {
		if sub.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Emit calls every subscriber with ev, in registration order.
//
// A panicking subscriber is recovered and logged; delivery continues with the
// remaining subscribers.
func (l *Listeners[T]) Emit(ev T) {
	l.mu.Lock()
	snapshot := make([]subscription[T], len(l.subs))
	copy(snapshot, l.subs)
	l.mu.Unlock()

	for _, sub := range snapshot {
		safeCall(sub.fn, ev)
	}
}

// Len returns the number of active subscriptions.
func (l *Listeners[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

func safeCall[T any](fn func(T), ev T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event listener panicked",
				"event", fmt.Sprintf("%T", ev),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn(ev)
}
