package bus

import "time"

// EventBus is a synchronous, in-process pub/sub bus for race events.
//
// - Handlers subscribe by Event.Type().
// - Publish calls handlers in the caller goroutine, in subscription order.
// - Handler errors are joined and returned from Publish.
// - PublishBatch publishes in order and joins every handler error.
//
// All methods are safe for concurrent use.
type EventBus interface {
	Publish(event Event) error
	PublishBatch(events ...Event) error

	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. A nil subscription is ignored.
	Unsubscribe(Subscription) error

	Metrics() Metrics
}

// Event is an immutable message carried by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked per delivered event.
type EventHandler func(event Event) error

// Subscription is a registered handler. Cancel is idempotent.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// Metrics are running counters for the bus.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
