package godbolt

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client.
var (
	// ErrNoBaseURL is returned when the client is created without a
	// service URL.
	ErrNoBaseURL = errors.New("godbolt: service URL is empty")

	// ErrBadBaseURL is returned when the service URL cannot be parsed
	// or lacks an http(s) scheme and host.
	ErrBadBaseURL = errors.New("godbolt: service URL is not usable")

	// ErrEmptySource is returned when a compile or format request
	// carries no source text.
	ErrEmptySource = errors.New("godbolt: source text is empty")
)

// ServiceError is a failure reported by the remote service. Message
// carries the service's own text so it can be shown to the user as-is.
type ServiceError struct {
	// StatusCode is the HTTP status of the failed call.
	StatusCode int

	// Message is the service's error text.
	Message string
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("godbolt: service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("godbolt: %s (status %d)", e.Message, e.StatusCode)
}
