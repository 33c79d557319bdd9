package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRenderer captures renderer calls for assertions.
type recordingRenderer struct {
	mu          sync.Mutex
	setupCalls  int
	rendered    []Notification
	exited      []string
	removed     []string
	repositions [][]Notification
}

func (r *recordingRenderer) Setup() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setupCalls++
	return nil
}

func (r *recordingRenderer) Render(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = append(r.rendered, n)
}

func (r *recordingRenderer) Exit(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exited = append(r.exited, id)
}

func (r *recordingRenderer) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
}

func (r *recordingRenderer) Reposition(active []Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]Notification, len(active))
	copy(snapshot, active)
	r.repositions = append(r.repositions, snapshot)
}

func (r *recordingRenderer) removedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.removed))
	copy(out, r.removed)
	return out
}

func TestManager_Show_AssignsID(t *testing.T) {
	m := NewManager(&recordingRenderer{})

	id := m.Show("scanning enabled", SeverityInfo, nil)
	assert.NotEmpty(t, id)

	custom := m.Show("custom", SeverityInfo, &Options{ID: "my-id", Persistent: true})
	assert.Equal(t, "my-id", custom)
}

func TestManager_Show_StackingOffsets(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(r)

	m.Show("one", SeverityInfo, &Options{Persistent: true})
	m.Show("two", SeverityWarning, &Options{Persistent: true})
	m.Show("three", SeverityError, &Options{Persistent: true})

	active := m.Active()
	require.Len(t, active, 3)
	assert.Equal(t, 20, active[0].Offset)
	assert.Equal(t, 90, active[1].Offset)
	assert.Equal(t, 160, active[2].Offset)
}

func TestManager_Show_SeverityDefaults(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(r)

	m.Show("e", SeverityError, &Options{Persistent: true})
	m.Show("w", SeverityWarning, &Options{Persistent: true})
	m.Show("i", SeverityInfo, &Options{Persistent: true})
	m.Show("s", SeveritySuccess, &Options{Persistent: true})

	active := m.Active()
	require.Len(t, active, 4)
	assert.Equal(t, 7*time.Second, active[0].Duration)
	assert.Equal(t, 6*time.Second, active[1].Duration)
	assert.Equal(t, 5*time.Second, active[2].Duration)
	assert.Equal(t, 4*time.Second, active[3].Duration)
}

func TestManager_SetupRunsOnce(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(r)

	m.Show("one", SeverityInfo, &Options{Persistent: true})
	m.Show("two", SeverityInfo, &Options{Persistent: true})

	assert.Equal(t, 1, r.setupCalls)
}

func TestManager_ExpiryRepositionsWithoutGaps(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(r)

	first := m.Show("first", SeverityInfo, &Options{Duration: 20 * time.Millisecond})
	m.Show("second", SeverityInfo, &Options{Persistent: true})
	m.Show("third", SeverityInfo, &Options{Persistent: true})

	require.Eventually(t, func() bool {
		for _, id := range r.removedIDs() {
			if id == first {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	active := m.Active()
	require.Len(t, active, 2)
	assert.Equal(t, 20, active[0].Offset)
	assert.Equal(t, 90, active[1].Offset)
	assert.Equal(t, "second", active[0].Message)
	assert.Equal(t, "third", active[1].Message)
}

func TestManager_Hide(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(r)

	id := m.Show("going away", SeverityInfo, &Options{Persistent: true})
	m.Hide(id)

	// Exit transition starts immediately; the entry no longer counts as active.
	assert.Empty(t, m.Active())

	require.Eventually(t, func() bool {
		return len(r.removedIDs()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Hiding an unknown id is a no-op.
	m.Hide("missing")
}

func TestManager_Clear(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(r)

	m.Show("one", SeverityInfo, &Options{Persistent: true})
	m.Show("two", SeverityError, nil)
	m.Clear()

	assert.Empty(t, m.Active())
	assert.Len(t, r.removedIDs(), 2)

	// Clearing an empty manager is fine.
	m.Clear()
}

func TestManager_PersistentNeverExpires(t *testing.T) {
	r := &recordingRenderer{}
	m := NewManager(r)

	m.Show("pinned", SeverityWarning, &Options{Persistent: true, Duration: 10 * time.Millisecond})

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, m.Active(), 1)
	assert.Empty(t, r.removedIDs())
}
