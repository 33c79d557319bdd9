package surface

import (
	"context"
	"sync"
)

// Chan is a surface fed programmatically: prompt submissions arriving over
// the message bus, stdin, or a test fixture.
type Chan struct {
	mu      sync.Mutex
	handler Handler
}

// NewChan creates an unattached channel surface.
func NewChan() *Chan {
	return &Chan{}
}

// Attach registers the handler. Re-attaching replaces the handler instead
// of duplicating delivery.
func (c *Chan) Attach(_ context.Context, h Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
	return nil
}

// Detach clears the handler.
func (c *Chan) Detach() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = nil
	return nil
}

// SubmitPrompt delivers a prompt capture and reports whether the handler
// prevented it. An unattached surface allows everything.
func (c *Chan) SubmitPrompt(ctx context.Context, text string) bool {
	return c.deliver(ctx, &Capture{Kind: CapturePrompt, Prompt: text})
}

// SubmitFile delivers a file capture and reports whether the handler
// prevented it.
func (c *Chan) SubmitFile(ctx context.Context, name string, data []byte) bool {
	return c.deliver(ctx, &Capture{Kind: CaptureFile, FileName: name, FileData: data})
}

func (c *Chan) deliver(ctx context.Context, capture *Capture) bool {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()

	if h == nil {
		return false
	}
	h(ctx, capture)
	return capture.Prevented()
}

var _ Surface = (*Chan)(nil)
