package livelog

import (
	"github.com/wardenlabs/promptwarden/core/scan"
)

type newEntryMsg struct {
	entry *scan.LogEntry
}

type clearedMsg struct{}

type streamClosedMsg struct{}
