package surface

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_PreventIdempotent(t *testing.T) {
	calls := 0
	c := &Capture{
		Kind:    CapturePrompt,
		Prompt:  "hello",
		prevent: func() error { calls++; return nil },
	}

	require.NoError(t, c.Prevent())
	require.NoError(t, c.Prevent())

	assert.True(t, c.Prevented())
	assert.Equal(t, 1, calls, "prevention hook runs once")
}

func TestCapture_PreventWithoutHook(t *testing.T) {
	c := &Capture{Kind: CapturePrompt, Prompt: "hello"}

	require.NoError(t, c.Prevent())
	assert.True(t, c.Prevented())
}

func TestCapture_Subject(t *testing.T) {
	prompt := &Capture{Kind: CapturePrompt, Prompt: "send the report"}
	assert.Equal(t, "send the report", prompt.Subject())

	file := &Capture{Kind: CaptureFile, FileName: "report.pdf"}
	assert.Equal(t, "report.pdf", file.Subject())
}

func TestChan_SubmitPrompt(t *testing.T) {
	ch := NewChan()
	ctx := context.Background()

	// Unattached surfaces allow everything.
	assert.False(t, ch.SubmitPrompt(ctx, "hello"))

	var seen *Capture
	require.NoError(t, ch.Attach(ctx, func(_ context.Context, c *Capture) {
		seen = c
		_ = c.Prevent()
	}))

	prevented := ch.SubmitPrompt(ctx, "password=hunter2")
	assert.True(t, prevented)
	require.NotNil(t, seen)
	assert.Equal(t, CapturePrompt, seen.Kind)
	assert.Equal(t, "password=hunter2", seen.Prompt)
}

func TestChan_SubmitFile(t *testing.T) {
	ch := NewChan()
	ctx := context.Background()

	require.NoError(t, ch.Attach(ctx, func(_ context.Context, c *Capture) {}))

	prevented := ch.SubmitFile(ctx, "notes.txt", []byte("meeting at noon"))
	assert.False(t, prevented)
}

func TestChan_ReattachReplacesHandler(t *testing.T) {
	ch := NewChan()
	ctx := context.Background()

	var first, second int
	require.NoError(t, ch.Attach(ctx, func(context.Context, *Capture) { first++ }))
	require.NoError(t, ch.Attach(ctx, func(context.Context, *Capture) { second++ }))

	ch.SubmitPrompt(ctx, "hello")
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)

	require.NoError(t, ch.Detach())
	ch.SubmitPrompt(ctx, "hello")
	assert.Equal(t, 1, second)
}

// captureRecorder collects captures delivered by a watch surface.
type captureRecorder struct {
	mu       sync.Mutex
	captures []*Capture
	prevent  bool
}

func (r *captureRecorder) handle(_ context.Context, c *Capture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prevent {
		_ = c.Prevent()
	}
	r.captures = append(r.captures, c)
}

func (r *captureRecorder) snapshot() []*Capture {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Capture(nil), r.captures...)
}

func TestWatch_CapturesCreatedFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWatch(dir)
	rec := &captureRecorder{}

	require.NoError(t, w.Attach(context.Background(), rec.handle))
	defer w.Detach()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "upload.txt"), []byte("hello"), 0600))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	c := rec.snapshot()[0]
	assert.Equal(t, CaptureFile, c.Kind)
	assert.Equal(t, "upload.txt", c.FileName)
	assert.Equal(t, []byte("hello"), c.FileData)
}

func TestWatch_WaitsForWritesToSettle(t *testing.T) {
	dir := t.TempDir()
	w := NewWatch(dir)
	rec := &captureRecorder{}

	require.NoError(t, w.Attach(context.Background(), rec.handle))
	defer w.Detach()

	// A copy into the directory lands as a create followed by more writes;
	// the capture must see the final content, not a half-written file.
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("first half "), 0600))

	time.Sleep(w.settle / 4)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("second half")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	c := rec.snapshot()[0]
	assert.Equal(t, []byte("first half second half"), c.FileData)

	// The settled file is delivered exactly once.
	time.Sleep(2 * w.settle)
	assert.Len(t, rec.snapshot(), 1)
}

func TestWatch_PreventQuarantines(t *testing.T) {
	dir := t.TempDir()
	w := NewWatch(dir)
	rec := &captureRecorder{prevent: true}

	require.NoError(t, w.Attach(context.Background(), rec.handle))
	defer w.Detach()

	path := filepath.Join(dir, "secrets.txt")
	require.NoError(t, os.WriteFile(path, []byte("password=hunter2"), 0600))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	// The original file is renamed out of pickup.
	require.Eventually(t, func() bool {
		_, err := os.Stat(path + blockedSuffix)
		return err == nil
	}, 3*time.Second, 10*time.Millisecond)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWatch_SkipsQuarantinedAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWatch(dir)
	rec := &captureRecorder{}

	require.NoError(t, w.Attach(context.Background(), rec.handle))
	defer w.Detach()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt.blocked"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("A=1"), 0600))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, ".env", rec.snapshot()[0].FileName)
}

func TestWatch_AttachIdempotentDetachSafe(t *testing.T) {
	dir := t.TempDir()
	w := NewWatch(dir)
	rec := &captureRecorder{}
	ctx := context.Background()

	require.NoError(t, w.Attach(ctx, rec.handle))
	require.NoError(t, w.Attach(ctx, rec.handle))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "once.txt"), []byte("x"), 0600))
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) >= 1
	}, 3*time.Second, 10*time.Millisecond)
	assert.Len(t, rec.snapshot(), 1, "double attach must not duplicate delivery")

	require.NoError(t, w.Detach())
	require.NoError(t, w.Detach())
}
