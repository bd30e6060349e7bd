package config

import "errors"

// Sentinel errors for configuration validation and loading.
var (
	// ErrNoServiceURL is returned when no remote service URL is set.
	ErrNoServiceURL = errors.New("config: service URL is empty")

	// ErrInvalidTimeout is returned for a non-positive request timeout.
	ErrInvalidTimeout = errors.New("config: request timeout must be positive")

	// ErrInvalidLogLevel is returned for an unknown log level name.
	ErrInvalidLogLevel = errors.New("config: invalid log level")
)
