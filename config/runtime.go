package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/safedep/dry/log"

	"github.com/wardenlabs/promptwarden/bus"
	"github.com/wardenlabs/promptwarden/storage"
)

// Configuration is the runtime monitoring configuration shared across
// contexts through the key-value store. It is mutated only through Save,
// which also broadcasts the enablement change.
type Configuration struct {
	Enabled          bool             `json:"enabled"`
	APIKey           string           `json:"apiKey"`
	AdvancedSettings AdvancedSettings `json:"advancedSettings"`
}

// AdvancedSettings holds the per-feature toggles of the runtime configuration.
type AdvancedSettings struct {
	BlockEnvFiles    bool `json:"blockEnvFiles"`
	RealTimeScanning bool `json:"realTimeScanning"`
	DebugMode        bool `json:"debugMode"`
	ScanExecutables  bool `json:"scanExecutables"`
}

// DefaultConfiguration returns the runtime configuration used when the store
// holds no value yet.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Enabled: true,
		AdvancedSettings: AdvancedSettings{
			BlockEnvFiles:    true,
			RealTimeScanning: true,
		},
	}
}

// LoadConfiguration reads the runtime configuration from the store. A
// missing or malformed value yields the defaults; read errors are logged
// and degrade to defaults as well.
func LoadConfiguration(ctx context.Context, store storage.Store) *Configuration {
	raw, err := store.Get(ctx, storage.KeyConfig)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Errorf("config: failed to read runtime configuration: %v", err)
		}
		return DefaultConfiguration()
	}

	var cfg Configuration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		log.Errorf("config: malformed runtime configuration, using defaults: %v", err)
		return DefaultConfiguration()
	}
	return &cfg
}

// SaveConfiguration persists the runtime configuration and broadcasts the
// new enablement state. Broadcast is best-effort; a missing listener is fine.
func SaveConfiguration(ctx context.Context, store storage.Store, ch bus.Channel, cfg *Configuration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal runtime configuration: %w", err)
	}
	if err := store.Set(ctx, storage.KeyConfig, raw); err != nil {
		return fmt.Errorf("failed to persist runtime configuration: %w", err)
	}

	if ch != nil {
		msg, err := bus.NewMessage(bus.TypeStatusChanged, bus.StatusPayload{IsEnabled: cfg.Enabled})
		if err == nil {
			_, _ = ch.Send(ctx, msg)
		}
	}
	return nil
}

// LoadAuthToken returns the stored authentication token, or empty when no
// user is authenticated. Only the gating effect is consumed here; token
// issuance belongs to the auth collaborator.
func LoadAuthToken(ctx context.Context, store storage.Store) string {
	raw, err := store.Get(ctx, storage.KeyAuthUser)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Errorf("config: failed to read auth state: %v", err)
		}
		return ""
	}

	var user storage.AuthUser
	if err := json.Unmarshal(raw, &user); err != nil {
		log.Errorf("config: malformed auth state: %v", err)
		return ""
	}
	return user.Token
}
