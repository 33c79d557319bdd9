package promptlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenlabs/promptwarden/bus"
	"github.com/wardenlabs/promptwarden/core/scan"
	"github.com/wardenlabs/promptwarden/storage"
)

// countingStore wraps a MemoryStore and counts writes to the log key.
type countingStore struct {
	*storage.MemoryStore
	mu        sync.Mutex
	logWrites int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: storage.NewMemoryStore()}
}

func (c *countingStore) Set(ctx context.Context, key string, value []byte) error {
	if key == storage.KeyPromptLogs {
		c.mu.Lock()
		c.logWrites++
		c.mu.Unlock()
	}
	return c.MemoryStore.Set(ctx, key, value)
}

func (c *countingStore) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logWrites
}

func persistedEntries(t *testing.T, store storage.Store) []*scan.LogEntry {
	t.Helper()
	raw, err := store.Get(context.Background(), storage.KeyPromptLogs)
	require.NoError(t, err)
	var entries []*scan.LogEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	return entries
}

func TestService_Add_ReturnsCompleteEntry(t *testing.T) {
	svc := NewService(storage.NewMemoryStore(), nil)

	entry := svc.Add(context.Background(), scan.KindBlocked, "rm -rf /", "blocked", "dangerous_pattern")

	require.NotNil(t, entry)
	assert.NotEmpty(t, entry.ID)
	assert.NotEmpty(t, entry.Timestamp)
	assert.Equal(t, scan.KindBlocked, entry.Kind)
	assert.Equal(t, "dangerous_pattern", entry.Reason)
}

func TestService_Add_DebounceCoalescesWrites(t *testing.T) {
	store := newCountingStore()
	svc := NewService(store, nil, WithDebounce(50*time.Millisecond))
	ctx := context.Background()

	svc.Add(ctx, scan.KindSuccess, "first prompt", "", "")
	svc.Add(ctx, scan.KindSuccess, "second prompt", "", "")

	// Nothing lands before the window closes.
	assert.Equal(t, 0, store.writes())

	require.Eventually(t, func() bool {
		return store.writes() == 1
	}, 2*time.Second, 10*time.Millisecond)

	entries := persistedEntries(t, store)
	require.Len(t, entries, 2, "both adds are included in the single write")
	assert.Equal(t, "second prompt", entries[0].Subject, "newest first")
	assert.Equal(t, "first prompt", entries[1].Subject)

	// No further writes after the window.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, store.writes())
}

func TestService_Add_CapAppliedOnWrite(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store, nil, WithMaxEntries(5), WithDebounce(10*time.Millisecond))
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		svc.Add(ctx, scan.KindSuccess, fmt.Sprintf("prompt %d", i), "", "")
	}

	require.Eventually(t, func() bool {
		raw, err := store.Get(ctx, storage.KeyPromptLogs)
		return err == nil && len(raw) > 0
	}, 2*time.Second, 10*time.Millisecond)

	entries := persistedEntries(t, store)
	require.Len(t, entries, 5, "persisted collection keeps exactly the cap")
	assert.Equal(t, "prompt 7", entries[0].Subject, "newest entries retained")
	assert.Equal(t, "prompt 3", entries[4].Subject)
}

func TestService_Add_BroadcastsImmediately(t *testing.T) {
	ch := bus.NewLocal()
	svc := NewService(storage.NewMemoryStore(), ch, WithDebounce(time.Hour))

	var received *scan.LogEntry
	ch.Subscribe(func(_ context.Context, msg bus.Message) (*bus.Message, error) {
		if msg.Type != bus.TypePromptLog {
			return nil, nil
		}
		var entry scan.LogEntry
		if err := msg.Decode(&entry); err != nil {
			return nil, err
		}
		received = &entry
		return nil, nil
	})

	entry := svc.Add(context.Background(), scan.KindError, "prompt", "analysis failed", "timeout")

	// The broadcast is synchronous, independent of the pending write.
	require.NotNil(t, received)
	assert.Equal(t, entry.ID, received.ID)
	assert.Equal(t, scan.KindError, received.Kind)
}

func TestService_Clear(t *testing.T) {
	store := newCountingStore()
	ch := bus.NewLocal()
	svc := NewService(store, ch, WithDebounce(time.Hour))
	ctx := context.Background()

	cleared := false
	ch.Subscribe(func(_ context.Context, msg bus.Message) (*bus.Message, error) {
		if msg.Type == bus.TypePromptLogClear {
			cleared = true
		}
		return nil, nil
	})

	svc.Add(ctx, scan.KindSuccess, "prompt", "", "")
	require.NoError(t, svc.Clear(ctx))

	// Clear bypasses the debounce entirely.
	assert.Equal(t, 1, store.writes())
	assert.True(t, cleared)
	assert.Empty(t, persistedEntries(t, store))
	assert.Empty(t, svc.Load(ctx))

	// Clearing an already empty log still persists and broadcasts.
	cleared = false
	require.NoError(t, svc.Clear(ctx))
	assert.True(t, cleared)
	assert.Equal(t, 2, store.writes())
}

func TestService_Load_EmptyStore(t *testing.T) {
	svc := NewService(storage.NewMemoryStore(), nil)

	entries := svc.Load(context.Background())
	assert.Empty(t, entries)
}

func TestService_Load_MalformedStore(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyPromptLogs, []byte("{broken")))

	svc := NewService(store, nil)
	assert.Empty(t, svc.Load(ctx), "malformed data never fails the caller")
}

func TestService_Load_BackfillsOlderShapes(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	// An older persisted shape without summary/reason and with an unknown kind.
	older := `[{"id":"1-aa","timestamp":"2026-08-25T10:00:00Z","kind":"SUCCESS","subject":"hello"},
	           {"id":"2-bb","timestamp":"2026-08-25T10:01:00Z","kind":"legacy","subject":"world"}]`
	require.NoError(t, store.Set(ctx, storage.KeyPromptLogs, []byte(older)))

	svc := NewService(store, nil)
	entries := svc.Load(ctx)

	require.Len(t, entries, 2)
	assert.Equal(t, "", entries[0].Summary)
	assert.Equal(t, "", entries[0].Reason)
	assert.Equal(t, scan.KindInfo, entries[1].Kind, "unknown kinds normalize to INFO")
}

func TestService_Flush(t *testing.T) {
	store := newCountingStore()
	svc := NewService(store, nil, WithDebounce(time.Hour))
	ctx := context.Background()

	svc.Flush(ctx)
	assert.Equal(t, 0, store.writes(), "flush with nothing pending is a no-op")

	svc.Add(ctx, scan.KindInfo, "prompt", "", "")
	svc.Flush(ctx)
	assert.Equal(t, 1, store.writes())
	assert.Len(t, persistedEntries(t, store), 1)
}
