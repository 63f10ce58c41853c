package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"sentinel/internal/shared/events"
)

// ErrBrokerUnavailable is returned when publishing while the broker is marked
// down. Callers use it to trigger their degraded-mode fallbacks.
var ErrBrokerUnavailable = errors.New("message broker unavailable")

// Broker is the event bus used by the scoring queue, the outbox relay and the
// notification fanout. Current implementation is in-process publish/subscribe
// while runtime wiring is finalized for external brokers. The availability
// flag lets operators (and tests) simulate a broker outage.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan events.Envelope
	available   atomic.Bool
	logger      *slog.Logger
}

func NewBroker(_ []string, logger *slog.Logger) (*Broker, error) {
	b := &Broker{
		subscribers: make(map[string][]chan events.Envelope),
		logger:      logger,
	}
	b.available.Store(true)
	return b, nil
}

// Available reports whether the broker currently accepts publishes.
func (b *Broker) Available(_ context.Context) bool {
	return b.available.Load()
}

// SetAvailable flips the simulated broker health.
func (b *Broker) SetAvailable(up bool) {
	b.available.Store(up)
}

func (b *Broker) Publish(ctx context.Context, topic string, event events.Envelope) error {
	if !b.available.Load() {
		return ErrBrokerUnavailable
	}

	b.mu.RLock()
	subs := append([]chan events.Envelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	// A full subscriber channel blocks the publisher instead of dropping the
	// event; callers keep their enqueue-failure fallbacks by bounding ctx.
	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		}
	}

	if b.logger != nil {
		b.logger.Info("event published",
			"event", "broker_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

func (b *Broker) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, events.Envelope) error,
) error {
	ch := make(chan events.Envelope, 128)

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(topic, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil && b.logger != nil {
					b.logger.Error("consumer handler failed",
						"event", "broker_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (b *Broker) removeSubscriber(topic string, target chan events.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]chan events.Envelope, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	b.subscribers[topic] = filtered
}
