package config

import (
	"github.com/spf13/viper"
)

// Monitoring defaults shared with the runtime layer.
const (
	// DefaultDebounceMs is the log persistence debounce window.
	DefaultDebounceMs = 300
	// DefaultMaxLogEntries caps the persisted scan log.
	DefaultMaxLogEntries = 2000
	// DefaultAnalyzerTimeoutSeconds bounds remote analysis calls.
	DefaultAnalyzerTimeoutSeconds = 30
)

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	// Storage defaults
	v.SetDefault("storage.path", "") // Empty means use platform default

	// Display defaults
	v.SetDefault("display.colors", "auto")

	// Analyzer defaults
	v.SetDefault("analyzer.endpoint", "")
	v.SetDefault("analyzer.timeout_seconds", DefaultAnalyzerTimeoutSeconds)

	// Monitor defaults
	v.SetDefault("monitor.watch_dir", "")
	v.SetDefault("monitor.debounce_ms", DefaultDebounceMs)
	v.SetDefault("monitor.max_log_entries", DefaultMaxLogEntries)
}
