package surface

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/safedep/dry/log"
)

// blockedSuffix marks quarantined files so upload pickup skips them.
const blockedSuffix = ".blocked"

// maxCapturedFileBytes caps how much file content is read for scanning.
const maxCapturedFileBytes = 10 << 20

// settleDelay is how long a file must stay quiet after its last create or
// write event before it is captured. Copies into the watched directory
// arrive as a create followed by a burst of writes; capturing immediately
// would scan a half-written file.
const settleDelay = 200 * time.Millisecond

// Watch observes a staged-uploads directory through fsnotify. Each newly
// created file becomes a file capture once its writes settle; preventing
// the capture quarantines the file by renaming it with a .blocked suffix.
type Watch struct {
	dir    string
	settle time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	pending map[string]*time.Timer
}

// NewWatch creates a surface for the given directory.
func NewWatch(dir string) *Watch {
	return &Watch{dir: dir, settle: settleDelay}
}

// Attach starts watching the directory. Attaching an already attached
// surface has no duplicate effect.
func (w *Watch) Attach(ctx context.Context, h Handler) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.watcher = watcher
	w.done = make(chan struct{})
	w.pending = make(map[string]*time.Timer)
	go w.loop(ctx, watcher, w.done, h)
	return nil
}

// Detach stops watching and releases the fsnotify handle. Safe to call
// multiple times.
func (w *Watch) Detach() error {
	w.mu.Lock()
	watcher := w.watcher
	done := w.done
	w.watcher = nil
	w.done = nil
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	if watcher == nil {
		return nil
	}
	if err := watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	<-done
	return nil
}

func (w *Watch) loop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}, h Handler) {
	defer close(done)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.schedule(ctx, event.Name, h)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("surface: watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

// schedule arms the settle timer for path. Another create or write event
// inside the window restarts the clock, so the capture sees the file only
// after it stopped changing.
func (w *Watch) schedule(ctx context.Context, path string, h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending == nil {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		delete(w.pending, path)
		w.mu.Unlock()

		w.capture(ctx, path, h)
	})
}

func (w *Watch) capture(ctx context.Context, path string, h Handler) {
	base := filepath.Base(path)
	if strings.HasSuffix(base, blockedSuffix) {
		return
	}
	// Hidden files are skipped except the dotenv family, which the guards
	// have a policy for.
	if strings.HasPrefix(base, ".") && base != ".env" && !strings.HasPrefix(base, ".env.") {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	data, err := readCapped(path)
	if err != nil {
		log.Errorf("surface: failed to read %s: %v", path, err)
		return
	}

	c := &Capture{
		Kind:     CaptureFile,
		FileName: base,
		FileData: data,
		prevent: func() error {
			return os.Rename(path, path+blockedSuffix)
		},
	}
	h(ctx, c)
}

func readCapped(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, 0, 64<<10)
	tmp := make([]byte, 64<<10)
	for len(buf) < maxCapturedFileBytes {
		n, err := f.Read(tmp)
		buf = append(buf, tmp[:n]...)
		if err != nil {
			break
		}
	}
	return buf, nil
}

var _ Surface = (*Watch)(nil)
