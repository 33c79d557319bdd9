package scan

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// LogEntry is a single persisted scan record. Entries are immutable once
// created and kept in newest-first order by the log service.
type LogEntry struct {
	// ID is a time-based identifier with a random suffix. Collisions are
	// negligible but not impossible; the log never assumes uniqueness.
	ID string `json:"id"`
	// Timestamp is the creation instant in ISO-8601 (RFC 3339) form.
	Timestamp string `json:"timestamp"`
	// Kind is the outcome category.
	Kind Kind `json:"kind"`
	// Subject is the prompt text or file descriptor that was scanned.
	Subject string `json:"subject"`
	// Summary is a short human-readable description of the outcome.
	Summary string `json:"summary,omitempty"`
	// Reason carries the block or error reason when applicable.
	Reason string `json:"reason,omitempty"`
}

// NewLogEntry creates a LogEntry with a generated ID and current timestamp.
func NewLogEntry(kind Kind, subject, summary, reason string) *LogEntry {
	return &LogEntry{
		ID:        newEntryID(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Kind:      kind,
		Subject:   subject,
		Summary:   summary,
		Reason:    reason,
	}
}

// Time parses the entry timestamp. Returns the zero time for entries whose
// persisted timestamp is malformed.
func (e *LogEntry) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// newEntryID builds an identifier from the current unix-millisecond clock
// plus a short random hex suffix.
func newEntryID() string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + hex.EncodeToString(suffix)
}

// Verdict is the structured decision a guard produces for one observed
// action. Verdict computation is a pluggable strategy; guards only define
// the contract around capture, decide, act, and report.
type Verdict struct {
	// ShouldBlock indicates the underlying action must be prevented.
	ShouldBlock bool `json:"should_block"`
	// Reason explains a block; empty when the action is allowed.
	Reason string `json:"reason,omitempty"`
	// RiskLevel is the assessed severity of the observed action.
	RiskLevel RiskLevel `json:"risk_level"`
	// Detail carries scanner-specific findings.
	Detail map[string]any `json:"detail,omitempty"`
}

// Allow returns a non-blocking verdict at the given risk level.
func Allow(level RiskLevel) *Verdict {
	return &Verdict{ShouldBlock: false, RiskLevel: level}
}

// Block returns a blocking verdict with the given reason and risk level.
func Block(reason string, level RiskLevel) *Verdict {
	return &Verdict{ShouldBlock: true, Reason: reason, RiskLevel: level}
}
