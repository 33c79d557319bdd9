package guard

import (
	"github.com/wardenlabs/promptwarden/notify"
	"github.com/wardenlabs/promptwarden/promptlog"
	"github.com/wardenlabs/promptwarden/scanner"
	"github.com/wardenlabs/promptwarden/surface"
)

// FileUploadMonitor scans staged file uploads and quarantines the ones
// that must not leave.
type FileUploadMonitor struct {
	engine
}

// NewFileUploadMonitor creates a file upload monitor over the given
// surface.
func NewFileUploadMonitor(s surface.Surface, sc scanner.Scanner, n *notify.Manager, logs *promptlog.Service) *FileUploadMonitor {
	return &FileUploadMonitor{engine: engine{
		label:    "file upload",
		surface:  s,
		scanner:  sc,
		notifier: n,
		logs:     logs,
	}}
}

var _ Guard = (*FileUploadMonitor)(nil)
