// Package scanner provides pluggable verdict strategies for the guards.
// Guards only depend on the Scanner contract; whether a verdict comes from
// local heuristics or the remote analysis service is a wiring decision.
package scanner

import (
	"context"

	"github.com/wardenlabs/promptwarden/core/scan"
)

// Scanner evaluates one observed action and produces a verdict.
type Scanner interface {
	// Name returns the unique identifier for this scanner.
	Name() string

	// ScanPrompt evaluates outgoing prompt text.
	ScanPrompt(ctx context.Context, text string) (*scan.Verdict, error)

	// ScanFile evaluates an outgoing file by name and content.
	ScanFile(ctx context.Context, name string, data []byte) (*scan.Verdict, error)
}
