package event

import (
	"sync"
	"sync/atomic"
)

// HandlerFunc handles a dispatched event envelope.
type HandlerFunc func(Envelope)

// Subscription identifies one registered handler on the bus.
type Subscription struct {
	id      string
	pattern Topic
}

// ID returns the subscription's unique identifier.
func (s Subscription) ID() string { return s.id }

// Stats reports bus activity counters.
type Stats struct {
	EventsPublished  uint64
	HandlersExecuted uint64
	HandlerPanics    uint64
	Subscribers      int
}

// PanicHandler is invoked when a subscriber panics during dispatch.
type PanicHandler func(topic Topic, recovered any)

// Bus is a synchronous publish/subscribe event bus. Publish dispatches
// to every matching handler before returning; registration and
// publication are safe for concurrent use, though in practice all
// traffic runs on the scheduler goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]*registration

	onPanic PanicHandler

	eventsPublished  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerPanics    atomic.Uint64
}

type registration struct {
	sub     Subscription
	handler HandlerFunc
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets the handler invoked when a subscriber panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) { b.onPanic = h }
}

// NewBus creates a new synchronous event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{subs: make(map[string]*registration)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for every topic matching the pattern.
func (b *Bus) Subscribe(pattern Topic, fn HandlerFunc) (Subscription, error) {
	if fn == nil {
		return Subscription{}, ErrNilHandler
	}
	if pattern == "" {
		return Subscription{}, ErrInvalidTopic
	}

	sub := Subscription{id: generateID(), pattern: pattern}
	b.mu.Lock()
	b.subs[sub.id] = &registration{sub: sub, handler: fn}
	b.mu.Unlock()
	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.mu.Lock()
	_, ok := b.subs[sub.id]
	delete(b.subs, sub.id)
	b.mu.Unlock()
	if !ok {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Publish dispatches an event synchronously to all matching handlers.
// The event must be an Envelope or implement TopicProvider.
func (b *Bus) Publish(evt any) error {
	env, ok := toEnvelope(evt)
	if !ok {
		return ErrInvalidEvent
	}

	b.mu.RLock()
	matched := make([]*registration, 0, len(b.subs))
	for _, reg := range b.subs {
		if env.Topic.Matches(reg.sub.pattern) {
			matched = append(matched, reg)
		}
	}
	b.mu.RUnlock()

	b.eventsPublished.Add(1)
	for _, reg := range matched {
		b.dispatch(env, reg.handler)
	}
	return nil
}

// dispatch runs one handler with panic recovery.
func (b *Bus) dispatch(env Envelope, fn HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.onPanic != nil {
				b.onPanic(env.Topic, r)
			}
		}
	}()
	b.handlersExecuted.Add(1)
	fn(env)
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subs)
	b.mu.RUnlock()
	return Stats{
		EventsPublished:  b.eventsPublished.Load(),
		HandlersExecuted: b.handlersExecuted.Load(),
		HandlerPanics:    b.handlerPanics.Load(),
		Subscribers:      n,
	}
}

// toEnvelope extracts a type-erased envelope from a published value.
func toEnvelope(evt any) (Envelope, bool) {
	if env, ok := evt.(Envelope); ok {
		if env.Topic == "" {
			return Envelope{}, false
		}
		return env, true
	}
	tp, ok := evt.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return Envelope{}, false
	}
	env := Envelope{Topic: tp.EventTopic(), Payload: evt}
	if mp, ok := evt.(MetadataProvider); ok {
		env.Metadata = mp.EventMetadata()
	}
	return env, true
}
