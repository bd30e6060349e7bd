package event

import "errors"

// Sentinel errors returned by the bus.
var (
	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("event: handler cannot be nil")

	// ErrInvalidTopic is returned when subscribing with an empty topic.
	ErrInvalidTopic = errors.New("event: topic cannot be empty")

	// ErrInvalidEvent is returned when publishing a value whose topic
	// cannot be determined.
	ErrInvalidEvent = errors.New("event: cannot determine event topic")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown
	// subscription.
	ErrSubscriptionNotFound = errors.New("event: subscription not found")
)
