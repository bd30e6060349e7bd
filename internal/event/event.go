package event

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// Topic is a hierarchical event type name, e.g. "view.cursor.moved".
type Topic string

// Matches reports whether the topic matches a subscription pattern. A
// pattern either matches exactly or ends in ".*", which matches any
// topic sharing the prefix.
func (t Topic) Matches(pattern Topic) bool {
	if t == pattern {
		return true
	}
	if prefix, ok := strings.CutSuffix(string(pattern), ".*"); ok {
		return strings.HasPrefix(string(t), prefix+".")
	}
	return false
}

// Event represents an event in the system. Events are immutable once
// created.
type Event[T any] struct {
	// Type is the hierarchical event type.
	Type Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewEvent creates a new event with the given type and payload.
func NewEvent[T any](eventType Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        generateID(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() Topic {
	return e.Type
}

// EventMetadata returns the event's metadata for type-erased handling.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// TopicProvider is implemented by types that can provide their topic.
type TopicProvider interface {
	EventTopic() Topic
}

// MetadataProvider is implemented by types that can provide their metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}

// Envelope wraps any event for type-erased handling.
type Envelope struct {
	// Topic is the event topic.
	Topic Topic

	// Payload is the type-erased event payload.
	Payload any

	// Metadata is the event metadata.
	Metadata Metadata
}

// NewEnvelope creates a new envelope from a typed event.
func NewEnvelope[T any](e Event[T]) Envelope {
	return Envelope{
		Topic:    e.Type,
		Payload:  e.Payload,
		Metadata: e.Metadata,
	}
}

// generateID generates a unique event ID.
func generateID() string {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to timestamp-based ID if crypto/rand fails
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}
