package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// tomlFile mirrors the config file layout. Pointer fields distinguish
// "absent" from zero values so the layer only overrides what it sets.
type tomlFile struct {
	Service struct {
		URL            *string `toml:"url"`
		TimeoutSeconds *int    `toml:"timeout_seconds"`
	} `toml:"service"`

	Compile struct {
		LiveCorrelation *bool   `toml:"line_match"`
		UserArguments   *string `toml:"user_arguments"`
		IntelSyntax     *bool   `toml:"intel_syntax"`
	} `toml:"compile"`

	UI struct {
		HighlightStyle *string `toml:"highlight"`
	} `toml:"ui"`

	Logging struct {
		Level *string `toml:"level"`
		Path  *string `toml:"path"`
	} `toml:"logging"`
}

// loadTOML applies one TOML file onto the configuration.
func loadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var file tomlFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if file.Service.URL != nil {
		cfg.ServiceURL = *file.Service.URL
	}
	if file.Service.TimeoutSeconds != nil {
		cfg.RequestTimeout = time.Duration(*file.Service.TimeoutSeconds) * time.Second
	}
	if file.Compile.LiveCorrelation != nil {
		cfg.LiveCorrelation = *file.Compile.LiveCorrelation
	}
	if file.Compile.UserArguments != nil {
		cfg.UserArguments = *file.Compile.UserArguments
	}
	if file.Compile.IntelSyntax != nil {
		cfg.IntelSyntax = *file.Compile.IntelSyntax
	}
	if file.UI.HighlightStyle != nil {
		cfg.HighlightStyle = *file.UI.HighlightStyle
	}
	if file.Logging.Level != nil {
		cfg.LogLevel = *file.Logging.Level
	}
	if file.Logging.Path != nil {
		cfg.LogPath = *file.Logging.Path
	}
	return nil
}
