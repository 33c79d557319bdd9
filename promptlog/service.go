// Package promptlog provides the durable, ordered, size-bounded record of
// scan outcomes with live fan-out to listening contexts.
package promptlog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/safedep/dry/log"

	"github.com/wardenlabs/promptwarden/bus"
	"github.com/wardenlabs/promptwarden/core/scan"
	"github.com/wardenlabs/promptwarden/storage"
)

const (
	// DefaultMaxEntries is the retained entry cap, applied on write only.
	DefaultMaxEntries = 2000
	// DefaultDebounce is the persistence coalescing window.
	DefaultDebounce = 300 * time.Millisecond
)

// Service persists and broadcasts the scan log. Entries are kept
// newest-first; Add broadcasts immediately and persists on a debounced
// timer so bursts coalesce into a single write of the full state.
type Service struct {
	store      storage.Store
	ch         bus.Channel
	maxEntries int
	debounce   time.Duration

	mu      sync.Mutex
	loaded  bool
	entries []*scan.LogEntry
	pending *time.Timer
}

// Option configures a Service.
type Option func(*Service)

// WithMaxEntries overrides the retained entry cap.
func WithMaxEntries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithDebounce overrides the persistence debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// NewService creates a log service over the given store and broadcast
// channel. The channel may be nil when no other context is listening.
func NewService(store storage.Store, ch bus.Channel, opts ...Option) *Service {
	s := &Service{
		store:      store,
		ch:         ch,
		maxEntries: DefaultMaxEntries,
		debounce:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the persisted collection, newest-first. Missing optional
// fields are backfilled for older persisted shapes. Load never fails the
// caller: an empty or malformed store yields an empty sequence.
func (s *Service) Load(ctx context.Context) []*scan.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.entries = s.readLocked(ctx)
		s.loaded = true
	}
	return s.snapshotLocked()
}

// Add constructs an entry with a synthesized id and timestamp, prepends it,
// broadcasts it immediately, and schedules a debounced persistence write.
// The returned entry is complete; callers never wait for the write to land.
func (s *Service) Add(ctx context.Context, kind scan.Kind, subject, summary, reason string) *scan.LogEntry {
	entry := scan.NewLogEntry(kind, subject, summary, reason)

	s.mu.Lock()
	if !s.loaded {
		s.entries = s.readLocked(ctx)
		s.loaded = true
	}
	s.entries = append([]*scan.LogEntry{entry}, s.entries...)
	s.scheduleWriteLocked()
	s.mu.Unlock()

	s.broadcast(ctx, bus.TypePromptLog, entry)
	return entry
}

// Clear persists an empty collection immediately, bypassing the debounce,
// and broadcasts a clear event. Safe with zero existing entries.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cancelPendingLocked()
	s.entries = nil
	s.loaded = true
	s.mu.Unlock()

	if err := s.store.Set(ctx, storage.KeyPromptLogs, []byte("[]")); err != nil {
		log.Errorf("promptlog: failed to persist cleared log: %v", err)
	}

	s.broadcast(ctx, bus.TypePromptLogClear, nil)
	return nil
}

// Flush writes any pending state immediately and cancels the debounce
// timer. Used on shutdown.
func (s *Service) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.cancelPendingLocked()
	data, err := json.Marshal(s.truncatedLocked())
	s.mu.Unlock()

	if err != nil {
		log.Errorf("promptlog: failed to marshal log for flush: %v", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyPromptLogs, data); err != nil {
		log.Errorf("promptlog: failed to flush log: %v", err)
	}
}

// scheduleWriteLocked arms the debounce timer, replacing any pending one so
// only a single write of the latest full state lands per window.
func (s *Service) scheduleWriteLocked() {
	s.cancelPendingLocked()
	s.pending = time.AfterFunc(s.debounce, s.persist)
}

func (s *Service) cancelPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// persist runs on the debounce timer. It writes the accumulated sequence,
// truncated to the cap, keeping the newest entries.
func (s *Service) persist() {
	s.mu.Lock()
	s.pending = nil
	data, err := json.Marshal(s.truncatedLocked())
	s.mu.Unlock()

	if err != nil {
		log.Errorf("promptlog: failed to marshal log: %v", err)
		return
	}
	if err := s.store.Set(context.Background(), storage.KeyPromptLogs, data); err != nil {
		// Storage failures never block subsequent operations.
		log.Errorf("promptlog: failed to persist log: %v", err)
	}
}

// truncatedLocked returns the entries capped for persistence. The in-memory
// sequence is also trimmed so it cannot grow without bound.
func (s *Service) truncatedLocked() []*scan.LogEntry {
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	if s.entries == nil {
		return []*scan.LogEntry{}
	}
	return s.entries
}

func (s *Service) snapshotLocked() []*scan.LogEntry {
	out := make([]*scan.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// readLocked loads the persisted collection, tolerating every failure mode
// by returning an empty sequence.
func (s *Service) readLocked(ctx context.Context) []*scan.LogEntry {
	raw, err := s.store.Get(ctx, storage.KeyPromptLogs)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Errorf("promptlog: failed to read log: %v", err)
		}
		return nil
	}

	var entries []*scan.LogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Errorf("promptlog: malformed persisted log, starting empty: %v", err)
		return nil
	}

	// Backfill optional fields for entries persisted by older shapes.
	out := entries[:0]
	for _, e := range entries {
		if e == nil {
			continue
		}
		if !e.Kind.IsValid() {
			e.Kind = scan.KindInfo
		}
		out = append(out, e)
	}
	return out
}

// broadcast sends a log event to any listening context. Best-effort: a
// missing listener is never an error.
func (s *Service) broadcast(ctx context.Context, t bus.Type, payload any) {
	if s.ch == nil {
		return
	}
	msg, err := bus.NewMessage(t, payload)
	if err != nil {
		log.Errorf("promptlog: failed to build %s broadcast: %v", t, err)
		return
	}
	_, _ = s.ch.Send(ctx, msg)
}
