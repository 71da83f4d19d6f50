// Package event provides the in-memory plugin.EventBus used to fan out
// assistant activity (completed turns, Trakt list changes) to the
// webhook and WebSocket layers.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"go.uber.org/zap"
)

var _ plugin.EventBus = (*Bus)(nil)

// Bus dispatches events to per-topic and wildcard subscribers. Publish runs
// handlers in the caller's goroutine; PublishAsync runs each handler in its
// own goroutine and Wait blocks until those have finished.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	wildcard []subscription
	nextID   uint64
	inflight sync.WaitGroup
	logger   *zap.Logger
}

type subscription struct {
	id      uint64
	handler plugin.EventHandler
}

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]subscription),
		logger:   logger,
	}
}

// Publish delivers event synchronously. A zero Timestamp is set to now.
func (b *Bus) Publish(ctx context.Context, event plugin.Event) error {
	event = stamp(event)
	for _, s := range b.matching(event.Topic) {
		b.safeCall(ctx, s.handler, event)
	}
	return nil
}

// PublishAsync delivers event on background goroutines.
func (b *Bus) PublishAsync(ctx context.Context, event plugin.Event) {
	event = stamp(event)
	for _, s := range b.matching(event.Topic) {
		b.inflight.Add(1)
		go func(h plugin.EventHandler) {
			defer b.inflight.Done()
			b.safeCall(ctx, h, event)
		}(s.handler)
	}
}

// Wait blocks until every handler started by PublishAsync has returned.
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// Subscribe registers handler for topic.
func (b *Bus) Subscribe(topic string, handler plugin.EventHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers[topic] = without(b.handlers[topic], id)
	}
}

// SubscribeAll registers handler for every topic.
func (b *Bus) SubscribeAll(handler plugin.EventHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.wildcard = append(b.wildcard, subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.wildcard = without(b.wildcard, id)
	}
}

// matching snapshots the subscribers for topic so handlers may
// (un)subscribe while being called.
func (b *Bus) matching(topic string) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]subscription, 0, len(b.handlers[topic])+len(b.wildcard))
	out = append(out, b.handlers[topic]...)
	return append(out, b.wildcard...)
}

func (b *Bus) safeCall(ctx context.Context, handler plugin.EventHandler, event plugin.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", event.Topic),
				zap.String("source", event.Source),
				zap.Any("panic", r),
			)
		}
	}()
	handler(ctx, event)
}

func without(subs []subscription, id uint64) []subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

func stamp(event plugin.Event) plugin.Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return event
}
