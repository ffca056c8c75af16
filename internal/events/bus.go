package events

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// subscription is one listener on the bus. An empty types set receives
// every catalog and store event.
type subscription struct {
	ch    chan Event
	types map[string]struct{}
}

func (s *subscription) wants(eventType string) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// Bus fans catalog and store events out to in-process listeners and
// records them in the event log.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	log    *EventLog // may be nil
	logger *zap.Logger
	closed bool
}

// NewBus creates a bus. A nil log disables history.
func NewBus(log *EventLog, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{log: log, logger: logger}
}

// Publish records e in the event log and hands it to every matching
// subscriber. A subscriber whose buffer is full misses the event; Publish
// never waits on a listener. Persistence failures are logged, not returned,
// so a broken history table never fails a catalog write.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	targets := make([]chan Event, 0, len(b.subs))
	for _, s := range b.subs {
		if s.wants(e.EventType()) {
			targets = append(targets, s.ch)
		}
	}
	b.mu.RUnlock()

	if b.log != nil {
		if _, err := b.log.Append(ctx, e); err != nil {
			b.logger.Error("failed to record event",
				zap.String("type", e.EventType()),
				zap.String("entity_id", e.EntityID()),
				zap.Error(err))
		}
	}

	for _, ch := range targets {
		select {
		case ch <- e:
		default:
			b.logger.Warn("subscriber behind, dropping event",
				zap.String("type", e.EventType()),
				zap.String("entity_type", e.EntityType()),
				zap.String("entity_id", e.EntityID()))
		}
	}
	return nil
}

// Subscribe returns a channel receiving the named event types, or every
// event when none are named.
func (b *Bus) Subscribe(bufferSize int, eventTypes ...string) <-chan Event {
	s := &subscription{ch: make(chan Event, bufferSize)}
	if len(eventTypes) > 0 {
		s.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			s.types[t] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
		return s.ch
	}
	b.subs = append(b.subs, s)
	return s.ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.ch == ch {
			b.subs = slices.Delete(b.subs, i, i+1)
			close(s.ch)
			return
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	return nil
}
