package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safedep/dry/log"
)

// Manager queues and auto-expires notifications without overlap. All state
// is guarded by a single mutex; expiry and exit transitions run on
// time.AfterFunc timers that Clear cancels synchronously.
type Manager struct {
	renderer Renderer

	mu          sync.Mutex
	stylesReady bool
	active      []*entry
}

type entry struct {
	n           Notification
	expireTimer *time.Timer
	exitTimer   *time.Timer
	exiting     bool
}

// NewManager creates a Manager rendering through the given renderer.
func NewManager(renderer Renderer) *Manager {
	return &Manager{renderer: renderer}
}

// Show displays a notification and returns its id synchronously. Unless
// persistent, the notification is removed after its duration (or the
// severity default).
func (m *Manager) Show(message string, severity Severity, opts *Options) string {
	if opts == nil {
		opts = &Options{}
	}
	if !severity.IsValid() {
		severity = SeverityInfo
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = severity.DefaultDuration()
	}

	m.mu.Lock()
	m.ensureStyles()

	n := Notification{
		ID:         id,
		Message:    message,
		Severity:   severity,
		Duration:   duration,
		Persistent: opts.Persistent,
		Offset:     baseOffset + offsetStep*m.countActiveLocked(),
	}
	e := &entry{n: n}
	m.active = append(m.active, e)

	if !opts.Persistent {
		e.expireTimer = time.AfterFunc(duration, func() {
			m.Hide(id)
		})
	}
	m.mu.Unlock()

	m.renderer.Render(n)
	return id
}

// Hide starts the exit transition for a notification; no-op if absent.
func (m *Manager) Hide(id string) {
	m.mu.Lock()
	e := m.findLocked(id)
	if e == nil || e.exiting {
		m.mu.Unlock()
		return
	}
	e.exiting = true
	if e.expireTimer != nil {
		e.expireTimer.Stop()
	}
	e.exitTimer = time.AfterFunc(exitDuration, func() {
		m.finalize(id)
	})
	m.mu.Unlock()

	m.renderer.Exit(id)
}

// Clear removes all active notifications immediately, cancelling any
// pending timers. Safe to call from unload paths; never blocks.
func (m *Manager) Clear() {
	m.mu.Lock()
	removed := m.active
	m.active = nil
	for _, e := range removed {
		if e.expireTimer != nil {
			e.expireTimer.Stop()
		}
		if e.exitTimer != nil {
			e.exitTimer.Stop()
		}
	}
	m.mu.Unlock()

	for _, e := range removed {
		m.renderer.Remove(e.n.ID)
	}
}

// Active returns a snapshot of the notifications that are displayed and not
// yet exiting, in stacking order.
func (m *Manager) Active() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Notification, 0, len(m.active))
	for _, e := range m.active {
		if !e.exiting {
			out = append(out, e.n)
		}
	}
	return out
}

// finalize detaches a notification after its exit transition and closes the
// gap left in the stack.
func (m *Manager) finalize(id string) {
	m.mu.Lock()
	idx := -1
	for i, e := range m.active {
		if e.n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.active = append(m.active[:idx], m.active[idx+1:]...)

	remaining := make([]Notification, 0, len(m.active))
	offset := baseOffset
	for _, e := range m.active {
		if e.exiting {
			continue
		}
		e.n.Offset = offset
		offset += offsetStep
		remaining = append(remaining, e.n)
	}
	m.mu.Unlock()

	m.renderer.Remove(id)
	m.renderer.Reposition(remaining)
}

// ensureStyles performs the renderer's one-time style setup. Callers hold
// the mutex.
func (m *Manager) ensureStyles() {
	if m.stylesReady {
		return
	}
	if err := m.renderer.Setup(); err != nil {
		log.Errorf("notify: renderer setup failed: %v", err)
		return
	}
	m.stylesReady = true
}

func (m *Manager) countActiveLocked() int {
	count := 0
	for _, e := range m.active {
		if !e.exiting {
			count++
		}
	}
	return count
}

func (m *Manager) findLocked(id string) *entry {
	for _, e := range m.active {
		if e.n.ID == id {
			return e
		}
	}
	return nil
}
