// Package config provides configuration management using Viper.
//
// Two layers live here: the tool's own YAML config file (paths, display,
// analyzer endpoint) and the runtime monitoring Configuration shared with
// other contexts through the key-value store.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ColorMode represents the color output mode.
type ColorMode string

const (
	// ColorAuto automatically detects terminal support.
	ColorAuto ColorMode = "auto"
	// ColorAlways always uses colors.
	ColorAlways ColorMode = "always"
	// ColorNever never uses colors.
	ColorNever ColorMode = "never"
)

// Config holds the tool's own configuration values.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Display  DisplayConfig  `mapstructure:"display"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
}

// StorageConfig holds storage-related settings.
type StorageConfig struct {
	// Path overrides the platform-default database location when non-empty.
	Path string `mapstructure:"path"`
}

// DisplayConfig holds display-related settings.
type DisplayConfig struct {
	Colors ColorMode `mapstructure:"colors"`
}

// AnalyzerConfig holds remote analysis service settings.
type AnalyzerConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// MonitorConfig holds monitor daemon settings.
type MonitorConfig struct {
	// WatchDir is the staged-uploads directory observed by the file monitor.
	WatchDir string `mapstructure:"watch_dir"`
	// DebounceMs is the log persistence debounce window.
	DebounceMs int `mapstructure:"debounce_ms"`
	// MaxLogEntries caps the persisted scan log.
	MaxLogEntries int `mapstructure:"max_log_entries"`
}

// Paths holds resolved filesystem paths.
type Paths struct {
	ConfigFile   string
	ConfigDir    string
	DataDir      string
	DatabaseFile string
	CacheDir     string
}

// Load loads configuration from the given path or default locations.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		paths := ResolvePaths()
		v.SetConfigName("config")
		v.AddConfigPath(paths.ConfigDir)
	}

	v.SetEnvPrefix("PROMPTWARDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a Config with all default values.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)

	return &cfg
}

// ResolvePaths returns the resolved filesystem paths for the current platform.
func ResolvePaths() *Paths {
	configDir := getConfigDir()
	dataDir := getDataDir()
	cacheDir := getCacheDir()

	return &Paths{
		ConfigFile:   filepath.Join(configDir, "config.yaml"),
		ConfigDir:    configDir,
		DataDir:      dataDir,
		DatabaseFile: filepath.Join(dataDir, "warden.db"),
		CacheDir:     cacheDir,
	}
}

// GetDatabasePath returns the configured database path or the platform default.
func (c *Config) GetDatabasePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return ResolvePaths().DatabaseFile
}

// AnalyzerTimeout returns the configured analyzer call timeout.
func (c *Config) AnalyzerTimeout() time.Duration {
	return time.Duration(c.Analyzer.TimeoutSeconds) * time.Second
}

// ShouldUseColors returns true if colored output should be used.
func (c *Config) ShouldUseColors() bool {
	switch c.Display.Colors {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return true
	}
}
