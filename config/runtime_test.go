package config

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenlabs/promptwarden/bus"
	"github.com/wardenlabs/promptwarden/storage"
)

func TestLoadConfiguration_Empty(t *testing.T) {
	store := storage.NewMemoryStore()

	cfg := LoadConfiguration(context.Background(), store)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.AdvancedSettings.BlockEnvFiles)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadConfiguration_Malformed(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyConfig, []byte("{not json")))

	cfg := LoadConfiguration(ctx, store)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Enabled, "malformed config degrades to defaults")
}

func TestSaveConfiguration_RoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	in := &Configuration{
		Enabled: false,
		APIKey:  "wk_live_123",
		AdvancedSettings: AdvancedSettings{
			BlockEnvFiles:    true,
			RealTimeScanning: true,
			DebugMode:        true,
			ScanExecutables:  true,
		},
	}
	require.NoError(t, SaveConfiguration(ctx, store, nil, in))

	out := LoadConfiguration(ctx, store)
	assert.Equal(t, in, out)
}

func TestSaveConfiguration_BroadcastsStatusChanged(t *testing.T) {
	store := storage.NewMemoryStore()
	ch := bus.NewLocal()
	ctx := context.Background()

	var got *bus.StatusPayload
	ch.Subscribe(func(_ context.Context, msg bus.Message) (*bus.Message, error) {
		if msg.Type != bus.TypeStatusChanged {
			return nil, nil
		}
		var payload bus.StatusPayload
		if err := msg.Decode(&payload); err != nil {
			return nil, err
		}
		got = &payload
		return nil, nil
	})

	cfg := DefaultConfiguration()
	cfg.Enabled = false
	require.NoError(t, SaveConfiguration(ctx, store, ch, cfg))

	require.NotNil(t, got)
	assert.False(t, got.IsEnabled)
}

func TestLoadAuthToken(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	assert.Empty(t, LoadAuthToken(ctx, store))

	raw, err := json.Marshal(storage.AuthUser{Token: "tok-1"})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, storage.KeyAuthUser, raw))

	assert.Equal(t, "tok-1", LoadAuthToken(ctx, store))
}
