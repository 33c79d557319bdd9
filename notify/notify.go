// Package notify provides transient, stacked user-facing alerts.
package notify

import "time"

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultDuration returns the auto-expiry duration for a severity.
func (s Severity) DefaultDuration() time.Duration {
	switch s {
	case SeverityError:
		return 7 * time.Second
	case SeverityWarning:
		return 6 * time.Second
	case SeveritySuccess:
		return 4 * time.Second
	default:
		return 5 * time.Second
	}
}

// IsValid returns true if the Severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

// Stacking geometry: the first notification sits at baseOffset, each
// additional active one shifts the next down by offsetStep.
const (
	baseOffset = 20
	offsetStep = 70
)

// exitDuration is the fixed exit transition run before detachment.
const exitDuration = 300 * time.Millisecond

// Notification is one active alert in the render layer.
type Notification struct {
	ID         string
	Message    string
	Severity   Severity
	Duration   time.Duration
	Persistent bool
	// Offset is the current vertical stacking offset.
	Offset int
}

// Options customizes a single Show call.
type Options struct {
	// ID overrides the generated identifier.
	ID string
	// Duration overrides the severity default. Zero means use the default.
	Duration time.Duration
	// Persistent suppresses auto-expiry.
	Persistent bool
}

// Renderer is the platform-specific presentation target for notifications.
type Renderer interface {
	// Setup performs one-time style preparation. The manager guarantees at
	// most one successful call.
	Setup() error

	// Render displays a notification at its stacking offset.
	Render(n Notification)

	// Exit starts the removal transition for a notification.
	Exit(id string)

	// Remove detaches a notification after its exit transition.
	Remove(id string)

	// Reposition re-applies stacking offsets for the remaining active set.
	Reposition(active []Notification)
}
