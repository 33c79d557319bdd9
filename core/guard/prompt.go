package guard

import (
	"github.com/wardenlabs/promptwarden/notify"
	"github.com/wardenlabs/promptwarden/promptlog"
	"github.com/wardenlabs/promptwarden/scanner"
	"github.com/wardenlabs/promptwarden/surface"
)

// PromptGuard scans outgoing prompt submissions before they leave.
type PromptGuard struct {
	engine
}

// NewPromptGuard creates a prompt guard over the given surface.
func NewPromptGuard(s surface.Surface, sc scanner.Scanner, n *notify.Manager, logs *promptlog.Service) *PromptGuard {
	return &PromptGuard{engine: engine{
		label:    "prompt",
		surface:  s,
		scanner:  sc,
		notifier: n,
		logs:     logs,
	}}
}

var _ Guard = (*PromptGuard)(nil)
