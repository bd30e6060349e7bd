package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables recognized as the highest-precedence layer.
// Empty string values are treated as valid values, not as unset.
const (
	envURL       = "COMPSCOPE_URL"
	envTimeout   = "COMPSCOPE_TIMEOUT_SECONDS"
	envLineMatch = "COMPSCOPE_LINE_MATCH"
	envHighlight = "COMPSCOPE_HIGHLIGHT"
	envArguments = "COMPSCOPE_USER_ARGUMENTS"
	envIntel     = "COMPSCOPE_INTEL_SYNTAX"
	envLogLevel  = "COMPSCOPE_LOG_LEVEL"
	envLogPath   = "COMPSCOPE_LOG_PATH"
)

// applyEnv overrides configuration fields from environment variables.
// Unparseable numeric or boolean values are ignored rather than fatal;
// the file layers beneath still provide a usable value.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envURL); ok {
		cfg.ServiceURL = v
	}
	if v, ok := os.LookupEnv(envTimeout); ok {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if v, ok := os.LookupEnv(envLineMatch); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LiveCorrelation = b
		}
	}
	if v, ok := os.LookupEnv(envHighlight); ok {
		cfg.HighlightStyle = v
	}
	if v, ok := os.LookupEnv(envArguments); ok {
		cfg.UserArguments = v
	}
	if v, ok := os.LookupEnv(envIntel); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.IntelSyntax = b
		}
	}
	if v, ok := os.LookupEnv(envLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(envLogPath); ok {
		cfg.LogPath = v
	}
}
