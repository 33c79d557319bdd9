// Package surface provides the attachment points guards observe. A surface
// captures one category of outgoing action and lets the handler prevent the
// underlying action before it completes.
package surface

import "context"

// CaptureKind distinguishes the observed action categories.
type CaptureKind string

const (
	// CapturePrompt is an outgoing prompt submission.
	CapturePrompt CaptureKind = "prompt"
	// CaptureFile is an outgoing file selection.
	CaptureFile CaptureKind = "file"
)

// Capture is one observed action. How prevention is realized belongs to the
// surface that produced the capture.
type Capture struct {
	Kind     CaptureKind
	Prompt   string
	FileName string
	FileData []byte

	prevent   func() error
	prevented bool
}

// Prevent suppresses the underlying action. Idempotent; a capture without a
// prevention hook is a no-op.
func (c *Capture) Prevent() error {
	if c.prevented || c.prevent == nil {
		c.prevented = true
		return nil
	}
	c.prevented = true
	return c.prevent()
}

// Prevented reports whether Prevent was called.
func (c *Capture) Prevented() bool {
	return c.prevented
}

// Subject returns the loggable descriptor of the capture.
func (c *Capture) Subject() string {
	if c.Kind == CaptureFile {
		return c.FileName
	}
	return c.Prompt
}

// Handler processes one capture. Handlers run synchronously on the
// surface's delivery path so Prevent can take effect before the action
// completes.
type Handler func(ctx context.Context, c *Capture)

// Surface is one observable page surface. Attach and Detach are idempotent
// and leak-free: attaching twice never duplicates delivery, detaching
// releases all observation handles.
type Surface interface {
	Attach(ctx context.Context, h Handler) error
	Detach() error
}
