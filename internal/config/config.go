package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the application configuration.
type Config struct {
	// ServiceURL is the base URL of the remote compile service.
	ServiceURL string

	// RequestTimeout bounds one remote round trip.
	RequestTimeout time.Duration

	// LiveCorrelation enables highlight synchronization between the
	// source and generated views after a full-buffer compile.
	LiveCorrelation bool

	// HighlightStyle names the style used for correlated line
	// highlights ("cursorline", "reverse", or a hex color).
	HighlightStyle string

	// UserArguments are default extra compiler flags offered at the
	// options prompt.
	UserArguments string

	// IntelSyntax requests Intel assembly syntax from the service.
	IntelSyntax bool

	// LogLevel is the minimum level written to the log ("debug",
	// "info", "warn", "error").
	LogLevel string

	// LogPath is the log file location. Empty disables file logging.
	LogPath string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServiceURL:      "https://godbolt.org",
		RequestTimeout:  30 * time.Second,
		LiveCorrelation: true,
		HighlightStyle:  "cursorline",
		IntelSyntax:     true,
		LogLevel:        "info",
	}
}

// Load builds the configuration from all layers. tomlPath and luaPath
// may be empty, in which case the default locations are probed; a
// missing file at a default location is not an error, but an explicit
// path that cannot be read is.
func Load(tomlPath, luaPath string) (Config, error) {
	cfg := Default()

	if err := applyFile(&cfg, tomlPath, defaultTOMLPath(), loadTOML); err != nil {
		return cfg, err
	}
	if err := applyFile(&cfg, luaPath, defaultLuaPath(), loadLua); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.ServiceURL == "" {
		return ErrNoServiceURL
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.RequestTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}

// applyFile loads one layer from an explicit or default path.
func applyFile(cfg *Config, explicit, fallback string, load func(*Config, string) error) error {
	path := explicit
	if path == "" {
		path = fallback
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil // default location absent; not an error
		}
	}
	return load(cfg, path)
}

// configDir returns the user configuration directory for the tool.
func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "compscope")
}

// defaultTOMLPath is the probed TOML file location.
func defaultTOMLPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// defaultLuaPath is the probed Lua user file location.
func defaultLuaPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "user.lua")
}
