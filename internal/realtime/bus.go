package realtime

import (
	"sync"

	"github.com/damoang/eventhub-backend/internal/metrics"
	"github.com/rs/zerolog"
)

// Handler receives published events
type Handler func(e Event)

type subscription struct {
	name    string
	handler Handler
}

// Bus is an in-process publish/subscribe hub. Handlers run synchronously in
// subscription order; a panicking handler is logged and skipped.
type Bus struct {
	subscribers []subscription
	mu          sync.RWMutex
	logger      zerolog.Logger
}

// NewBus 생성자
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{logger: logger.With().Str("component", "realtime").Logger()}
}

// Subscribe registers handler under name
func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscription{name: name, handler: handler})
	b.logger.Debug().Str("subscriber", name).Msg("subscribed")
}

// Unsubscribe removes every handler registered under name
func (b *Bus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	remaining := b.subscribers[:0]
	for _, s := range b.subscribers {
		if s.name != name {
			remaining = append(remaining, s)
		}
	}
	b.subscribers = remaining
}

// Publish delivers e to every subscriber
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	metrics.RealtimeEventsPublished.WithLabelValues(string(e.Kind)).Inc()

	b.mu.RLock()
	subs := make([]subscription, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error().Str("subscriber", s.name).Str("kind", string(e.Kind)).
						Interface("panic", r).Msg("event handler panicked")
				}
			}()
			s.handler(e)
		}()
	}
}

// Subscribers lists subscriber names
func (b *Bus) Subscribers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		names = append(names, s.name)
	}
	return names
}
