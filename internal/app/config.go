package app

import (
	"fmt"
	"strings"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	// DefaultAddr is where the editor server listens unless told otherwise.
	DefaultAddr = "localhost:8080"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string // text or json
	LogLevel  string // debug, info, warn or error
}

// NewConfig validates cfg, filling in defaults for empty fields.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	return &cfg, nil
}
