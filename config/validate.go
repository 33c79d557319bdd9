package config

import (
	"fmt"
	"net/url"
)

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	if !isValidColorMode(cfg.Display.Colors) {
		return fmt.Errorf("invalid display.colors: %s (must be auto, always, or never)", cfg.Display.Colors)
	}

	if cfg.Analyzer.TimeoutSeconds <= 0 {
		return fmt.Errorf("analyzer.timeout_seconds must be positive")
	}
	if cfg.Analyzer.Endpoint != "" {
		if _, err := url.ParseRequestURI(cfg.Analyzer.Endpoint); err != nil {
			return fmt.Errorf("invalid analyzer.endpoint: %w", err)
		}
	}

	if cfg.Monitor.DebounceMs < 0 {
		return fmt.Errorf("monitor.debounce_ms must be non-negative")
	}
	if cfg.Monitor.MaxLogEntries <= 0 {
		return fmt.Errorf("monitor.max_log_entries must be positive")
	}

	return nil
}

// isValidColorMode returns true if the given mode is valid.
func isValidColorMode(mode ColorMode) bool {
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}
