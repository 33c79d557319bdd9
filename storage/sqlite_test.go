package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	err = store.Init(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.Set(ctx, KeyConfig, []byte(`{"enabled":true}`))
	require.NoError(t, err)

	value, err := store.Get(ctx, KeyConfig)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"enabled":true}`), value)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyAuthUser, []byte(`{"token":"a"}`)))
	require.NoError(t, store.Set(ctx, KeyAuthUser, []byte(`{"token":"b"}`)))

	value, err := store.Get(ctx, KeyAuthUser)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"token":"b"}`), value)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestSQLiteStore_Keys(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyPromptLogs, []byte("[]")))
	require.NoError(t, store.Set(ctx, KeyConfig, []byte("{}")))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyConfig, KeyPromptLogs}, keys)
}

// A value written through one store handle must read back identically from a
// second handle over the same file, simulating a separate browser context.
func TestSQLiteStore_CrossHandleRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shared.db")
	ctx := context.Background()

	writer, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, writer.Init(ctx))

	payload := []byte(`{"enabled":true,"api_key":"wk_live_1","advanced_settings":{"block_env_files":true}}`)
	require.NoError(t, writer.Set(ctx, KeyConfig, payload))
	require.NoError(t, writer.Close())

	reader, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	value, err := reader.Get(ctx, KeyConfig)
	require.NoError(t, err)
	assert.Equal(t, payload, value)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := []byte("original")
	require.NoError(t, store.Set(ctx, "k", original))

	// Mutating the caller's slice must not affect the stored value.
	original[0] = 'X'

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), value)
}
