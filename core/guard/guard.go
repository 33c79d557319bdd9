// Package guard implements the protection units that observe capture
// surfaces, scan what they see, and block or allow the underlying action.
package guard

import (
	"context"
	"fmt"
	"sync"

	"github.com/safedep/dry/log"

	"github.com/wardenlabs/promptwarden/core/scan"
	"github.com/wardenlabs/promptwarden/notify"
	"github.com/wardenlabs/promptwarden/promptlog"
	"github.com/wardenlabs/promptwarden/scanner"
	"github.com/wardenlabs/promptwarden/surface"
)

// maxLoggedSubject caps how much of a capture subject lands in the log.
const maxLoggedSubject = 140

// Guard is the lifecycle contract shared by all protection units.
type Guard interface {
	// Initialize attaches the guard to its surface. Calling it on an
	// already initialized guard is a no-op.
	Initialize(ctx context.Context) error

	// SetEnabled toggles protection. A disabled guard stays attached but
	// passes every capture through untouched.
	SetEnabled(enabled bool)

	// IsProtectionReady reports whether the guard is attached and enabled.
	IsProtectionReady() bool

	// Cleanup detaches the guard from its surface. Safe to call multiple
	// times.
	Cleanup()
}

// engine carries the capture handling shared by the concrete guards. The
// label names the guarded action in notifications and log entries.
type engine struct {
	label    string
	surface  surface.Surface
	scanner  scanner.Scanner
	notifier *notify.Manager
	logs     *promptlog.Service

	mu          sync.Mutex
	initialized bool
	enabled     bool
}

func (e *engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return nil
	}
	e.initialized = true
	e.mu.Unlock()

	if err := e.surface.Attach(ctx, e.handle); err != nil {
		e.mu.Lock()
		e.initialized = false
		e.mu.Unlock()
		return fmt.Errorf("failed to attach %s guard: %w", e.label, err)
	}
	return nil
}

func (e *engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.enabled = enabled
	e.mu.Unlock()
}

func (e *engine) IsProtectionReady() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized && e.enabled
}

func (e *engine) Cleanup() {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return
	}
	e.initialized = false
	e.enabled = false
	e.mu.Unlock()

	if err := e.surface.Detach(); err != nil {
		log.Errorf("guard: failed to detach %s surface: %v", e.label, err)
	}
}

// handle runs on the surface's delivery path for every capture. Disabled
// guards pass the capture through without scanning. Scan failures keep the
// action moving: the user is warned and the failure is recorded, but
// nothing is blocked on an error alone.
func (e *engine) handle(ctx context.Context, c *surface.Capture) {
	if !e.IsProtectionReady() {
		return
	}

	verdict, err := e.scanCapture(ctx, c)
	subject := truncateSubject(scan.RedactSecrets(c.Subject()))

	if err != nil {
		log.Errorf("guard: %s scan failed: %v", e.label, err)
		e.notifier.Show(
			fmt.Sprintf("Security scan failed, %s allowed unscanned", e.label),
			notify.SeverityWarning, nil)
		e.logs.Add(ctx, scan.KindError, subject,
			fmt.Sprintf("%s scan failed: %v", e.label, err), "scan_failed")
	}

	if verdict == nil {
		return
	}

	if verdict.ShouldBlock {
		if perr := c.Prevent(); perr != nil {
			log.Errorf("guard: failed to prevent %s: %v", e.label, perr)
		}
		e.notifier.Show(
			fmt.Sprintf("Blocked %s: %s", e.label, verdict.Reason),
			notify.SeverityError, nil)
		e.logs.Add(ctx, scan.KindBlocked, subject,
			fmt.Sprintf("%s blocked (%s risk)", e.label, verdict.RiskLevel),
			verdict.Reason)
		return
	}

	if err == nil {
		e.logs.Add(ctx, scan.KindSuccess, subject,
			fmt.Sprintf("%s scanned clean (%s risk)", e.label, verdict.RiskLevel), "")
	}
}

func (e *engine) scanCapture(ctx context.Context, c *surface.Capture) (*scan.Verdict, error) {
	switch c.Kind {
	case surface.CaptureFile:
		return e.scanner.ScanFile(ctx, c.FileName, c.FileData)
	default:
		return e.scanner.ScanPrompt(ctx, c.Prompt)
	}
}

func truncateSubject(s string) string {
	if len(s) <= maxLoggedSubject {
		return s
	}
	return s[:maxLoggedSubject] + "..."
}
