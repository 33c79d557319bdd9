package scanner

import (
	"context"

	"github.com/wardenlabs/promptwarden/core/scan"
)

// Config holds configuration options for the scanner chain.
type Config struct {
	// FailOpen determines behavior when a scanner returns an error.
	// If true, scanner errors don't block (fail open). If false, an error
	// yields a blocking verdict (fail closed).
	FailOpen bool
}

// Chain runs scanners in order. The first blocking verdict wins; allow
// verdicts accumulate the highest risk level seen.
type Chain struct {
	scanners []Scanner
	config   *Config
}

// NewChain creates a scanner chain. Fail-open is the default policy:
// blocking every prompt on a transient analyzer blip would make the host
// page unusable.
func NewChain(cfg *Config) *Chain {
	if cfg == nil {
		cfg = &Config{FailOpen: true}
	}
	return &Chain{config: cfg}
}

// Register appends a scanner to the chain.
func (c *Chain) Register(s Scanner) {
	c.scanners = append(c.scanners, s)
}

// Name returns the scanner identifier.
func (c *Chain) Name() string { return "chain" }

// ScanPrompt evaluates text through the chain. When every scanner fails and
// the chain is fail-open, the returned verdict allows the action and the
// error reports the failure so callers can log and warn.
func (c *Chain) ScanPrompt(ctx context.Context, text string) (*scan.Verdict, error) {
	return c.run(ctx, func(s Scanner) (*scan.Verdict, error) {
		return s.ScanPrompt(ctx, text)
	})
}

// ScanFile evaluates a file through the chain with the same semantics as
// ScanPrompt.
func (c *Chain) ScanFile(ctx context.Context, name string, data []byte) (*scan.Verdict, error) {
	return c.run(ctx, func(s Scanner) (*scan.Verdict, error) {
		return s.ScanFile(ctx, name, data)
	})
}

func (c *Chain) run(_ context.Context, scanOne func(Scanner) (*scan.Verdict, error)) (*scan.Verdict, error) {
	level := scan.RiskLow
	var lastErr error

	for _, s := range c.scanners {
		verdict, err := scanOne(s)
		if err != nil {
			if c.config.FailOpen {
				lastErr = err
				continue
			}
			v := scan.Block("scan_failed", scan.RiskHigh)
			v.Detail = map[string]any{"scanner": s.Name(), "error": err.Error()}
			return v, err
		}

		if verdict.ShouldBlock {
			return verdict, nil
		}
		if verdict.RiskLevel.AtLeast(level) {
			level = verdict.RiskLevel
		}
	}

	// Fail open: the action proceeds even when scanners failed, but the
	// error is reported for logging and user warning.
	return scan.Allow(level), lastErr
}

var _ Scanner = (*Chain)(nil)
