package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Manager edits the tool's YAML config file. Reads always see defaults
// merged with the file; writes persist the complete merged state so a
// hand-edited partial file survives round-trips.
type Manager struct {
	v          *viper.Viper
	configPath string
}

// NewManager loads the config file at configPath. A missing file is fine;
// the manager starts from defaults.
func NewManager(configPath string) (*Manager, error) {
	v, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	return &Manager{v: v, configPath: configPath}, nil
}

func readConfigFile(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetConfigFile(configPath)

	err := v.ReadInConfig()
	switch {
	case err == nil:
		return v, nil
	case os.IsNotExist(err):
		return v, nil
	default:
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
}

// Get returns the value for key, or nil when the key is unknown.
func (m *Manager) Get(key string) interface{} {
	return m.v.Get(key)
}

// HasKey reports whether key exists, either as a default or in the file.
func (m *Manager) HasKey(key string) bool {
	return m.v.IsSet(key)
}

// Set updates key and writes the full config back to disk.
func (m *Manager) Set(key string, value interface{}) error {
	m.v.Set(key, value)
	return m.persist()
}

func (m *Manager) persist() error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(m.v.AllSettings())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Reset deletes the config file and returns the manager to defaults.
func (m *Manager) Reset() error {
	if err := os.Remove(m.configPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config: %w", err)
	}

	v, err := readConfigFile(m.configPath)
	if err != nil {
		return err
	}
	m.v = v
	return nil
}

// AllSettings returns every configuration value, defaults included.
func (m *Manager) AllSettings() map[string]interface{} {
	return m.v.AllSettings()
}

// ConfigPath returns the path of the managed file.
func (m *Manager) ConfigPath() string {
	return m.configPath
}

// ParseValue converts a CLI-supplied string into the value that should be
// stored: booleans, integers, and bracketed lists are recognized, anything
// else stays a string.
func ParseValue(value string) interface{} {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}

	if n, err := strconv.Atoi(value); err == nil {
		return n
	}

	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
		parts := strings.Split(inner, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts
	}

	return value
}
