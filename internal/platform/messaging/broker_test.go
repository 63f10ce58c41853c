package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"sentinel/internal/shared/events"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	broker, err := NewBroker(nil, nil)
	if err != nil {
		t.Fatalf("new broker failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	if err := broker.Subscribe(ctx, "moderation.lifecycle", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := broker.Publish(ctx, "moderation.lifecycle", events.Envelope{
		EventID:   "evt-1",
		EventType: "content.submitted",
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt-1" || event.EventType != "content.submitted" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber did not receive event")
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	broker, _ := NewBroker(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	if err := broker.Subscribe(ctx, "moderation.scoring", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := broker.Publish(ctx, "moderation.lifecycle", events.Envelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		t.Fatalf("subscriber on another topic received %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishFailsWhenMarkedDown(t *testing.T) {
	broker, _ := NewBroker(nil, nil)
	ctx := context.Background()

	broker.SetAvailable(false)
	if broker.Available(ctx) {
		t.Fatalf("expected broker to report unavailable")
	}
	err := broker.Publish(ctx, "moderation.lifecycle", events.Envelope{EventID: "evt-1"})
	if !errors.Is(err, ErrBrokerUnavailable) {
		t.Fatalf("expected ErrBrokerUnavailable, got %v", err)
	}

	broker.SetAvailable(true)
	if !broker.Available(ctx) {
		t.Fatalf("expected broker to report available again")
	}
	if err := broker.Publish(ctx, "moderation.lifecycle", events.Envelope{EventID: "evt-2"}); err != nil {
		t.Fatalf("publish after recovery failed: %v", err)
	}
}

func TestSubscriberRemovedOnContextCancel(t *testing.T) {
	broker, _ := NewBroker(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	if err := broker.Subscribe(ctx, "moderation.lifecycle", "test-cg", func(context.Context, events.Envelope) error {
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		broker.mu.RLock()
		remaining := len(broker.subscribers["moderation.lifecycle"])
		broker.mu.RUnlock()
		if remaining == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("subscriber was not removed after cancel")
}

func TestPublishAppliesBackpressureWhenSubscriberSaturated(t *testing.T) {
	broker, _ := NewBroker(nil, nil)
	subCtx, subCancel := context.WithCancel(context.Background())
	defer subCancel()

	gate := make(chan struct{})
	defer close(gate)
	if err := broker.Subscribe(subCtx, "moderation.scoring", "test-cg", func(context.Context, events.Envelope) error {
		<-gate
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// With the consumer wedged, the channel eventually fills and the publish
	// must surface the caller's deadline instead of dropping the event.
	var lastErr error
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		lastErr = broker.Publish(ctx, "moderation.scoring", events.Envelope{EventID: "evt"})
		cancel()
		if lastErr != nil {
			break
		}
	}
	if !errors.Is(lastErr, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error once saturated, got %v", lastErr)
	}
}
