package bus

import (
	"errors"
	"sync"
	"testing"
)

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got Event
	_, err := b.Subscribe("race.collision", func(e Event) error {
		got = e
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err = b.Publish(NewEvent("race.collision", "world", 123)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got == nil {
		t.Fatal("handler not called")
	}
	if got.Data() != 123 || got.Source() != "world" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Timestamp().IsZero() {
		t.Fatal("event should be timestamped")
	}
}

func TestDeliveryOrder(t *testing.T) {
	b := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		_, _ = b.Subscribe("ev", func(Event) error { order = append(order, i); return nil })
	}
	_ = b.Publish(NewEvent("ev", "src", nil))
	for i, v := range order {
		if v != i {
			t.Fatalf("handlers out of order: %v", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(order))
	}
}

func TestErrorsAreJoined(t *testing.T) {
	b := New()
	e1, e2 := errors.New("one"), errors.New("two")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return nil })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.Publish(NewEvent("x", "src", nil))
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if m := b.Metrics(); m.Errors != 1 || m.DeliveredHandlers != 3 {
		t.Fatalf("unexpected metrics: %+v", m)
	}

	err = b.PublishBatch(NewEvent("x", "src", nil), NewEvent("y", "src", nil))
	if !errors.Is(err, e2) {
		t.Fatalf("batch should surface handler errors, got %v", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.Subscribe("ev", func(Event) error { count++; return nil })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if sub.ID() == "" || sub.EventType() != "ev" {
		t.Fatalf("bad subscription: %s %s", sub.ID(), sub.EventType())
	}
	_ = b.Publish(NewEvent("ev", "src", nil))
	if err = b.Unsubscribe(sub); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if sub.IsActive() {
		t.Fatal("subscription should be inactive")
	}
	_ = b.Publish(NewEvent("ev", "src", nil))
	if count != 1 {
		t.Fatalf("expected 1 delivery, got %d", count)
	}
	if err = sub.Cancel(); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if err = b.Unsubscribe(nil); err != nil {
		t.Fatalf("nil unsubscribe: %v", err)
	}
	if m := b.Metrics(); m.SubscribersActive != 0 {
		t.Fatalf("expected no active subscribers, got %d", m.SubscribersActive)
	}
}

func TestNilHandler(t *testing.T) {
	if _, err := New().Subscribe("ev", nil); !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
}

func TestConcurrentSubscribePublish(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub, _ := b.Subscribe("ev", func(Event) error { return nil })
			_ = b.Publish(NewEvent("ev", "src", nil))
			_ = sub.Cancel()
		}()
	}
	wg.Wait()
	if m := b.Metrics(); m.Published != 8 || m.SubscribersActive != 0 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}
