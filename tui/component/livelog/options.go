package livelog

import (
	"github.com/wardenlabs/promptwarden/core/scan"
)

// StreamEvent is one live update pushed into the follower.
type StreamEvent struct {
	// Entry is the appended log entry; nil for a clear event.
	Entry *scan.LogEntry
	// Cleared reports that the log was cleared upstream.
	Cleared bool
}

// Options configures the live log model.
type Options struct {
	// Initial holds the entries shown before the first live update,
	// newest-first as the log service returns them.
	Initial []*scan.LogEntry

	// Stream delivers live updates. Closing the channel freezes the view.
	Stream <-chan StreamEvent

	// MaxEntries bounds the in-memory scrollback.
	MaxEntries int
}

func (o Options) maxEntries() int {
	if o.MaxEntries > 0 {
		return o.MaxEntries
	}
	return 1000
}
