// ABOUTME: Type-indexed fire-and-forget event bus for cross-module notifications.
// ABOUTME: Each subscriber runs in its own goroutine; failures never reach the publisher.

package events

import (
	"log/slog"
	"reflect"
	"sync"
)

// Bus is a publish/subscribe registry keyed by the concrete type of the
// event payload. Two distinct payload types can never collide.
//
// Publish schedules each matching subscriber as an independent goroutine and
// returns immediately. There is no ordering guarantee between subscribers and
// no backpressure; a panicking subscriber is recovered and logged, invisible
// to the publisher and to other subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[reflect.Type][]func(any)
	logger *slog.Logger
}

// New creates a Bus. Pass nil logger for default.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[reflect.Type][]func(any)),
		logger: logger.With("component", "events"),
	}
}

// Subscribe registers a callback for events of type E. Subscriptions live for
// the process lifetime; there is no unsubscribe.
func Subscribe[E any](b *Bus, fn func(E)) {
	key := reflect.TypeOf((*E)(nil)).Elem()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[key] = append(b.subs[key], func(v any) {
		fn(v.(E))
	})
}

// Publish delivers an event to every subscriber of its type, each on its own
// goroutine. It returns without waiting for any subscriber to run.
func Publish[E any](b *Bus, event E) {
	key := reflect.TypeOf((*E)(nil)).Elem()

	b.mu.RLock()
	handlers := b.subs[key]
	b.mu.RUnlock()

	for _, h := range handlers {
		go func(h func(any)) {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event handler panicked",
						"event_type", key.String(),
						"panic", r,
					)
				}
			}()
			h(event)
		}(h)
	}
}

// SubscriberCount returns the number of subscribers for type E (for tests).
func SubscriberCount[E any](b *Bus) int {
	key := reflect.TypeOf((*E)(nil)).Elem()
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[key])
}
