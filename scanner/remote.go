package scanner

import (
	"context"
	"fmt"

	"github.com/wardenlabs/promptwarden/analyzer"
	"github.com/wardenlabs/promptwarden/core/scan"
)

// Remote adapts the analysis service client to the Scanner contract. Every
// transport failure surfaces as an error; the chain decides the fail-open
// consequence.
type Remote struct {
	client *analyzer.Client
}

// NewRemote creates a remote scanner over the given client.
func NewRemote(client *analyzer.Client) *Remote {
	return &Remote{client: client}
}

// Name returns the scanner identifier.
func (r *Remote) Name() string { return "remote" }

// ScanPrompt delegates to the analysis service.
func (r *Remote) ScanPrompt(ctx context.Context, text string) (*scan.Verdict, error) {
	result, err := r.client.AnalyzePrompt(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("remote scan failed: %w", err)
	}
	return verdictFromAnalysis(result), nil
}

// ScanFile submits file content as prompt text. The service applies the
// same threat and PII analysis to file bodies.
func (r *Remote) ScanFile(ctx context.Context, name string, data []byte) (*scan.Verdict, error) {
	result, err := r.client.AnalyzePrompt(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("remote scan failed for %s: %w", name, err)
	}
	return verdictFromAnalysis(result), nil
}

func verdictFromAnalysis(a *analyzer.PromptAnalysis) *scan.Verdict {
	level, err := scan.ParseRiskLevel(a.RiskLevel)
	if err != nil {
		level = scan.RiskLow
	}

	detail := map[string]any{"scanner": "remote", "summary": a.Summary}
	if len(a.Threats) > 0 {
		detail["threats"] = a.Threats
	}
	if a.PIIDetection.HasPII {
		detail["pii_types"] = a.PIIDetection.Types
		detail["pii_count"] = a.PIIDetection.Count
	}

	if a.ShouldBlock {
		reason := a.BlockReason
		if reason == "" {
			reason = "threat_detected"
		}
		v := scan.Block(reason, level)
		v.Detail = detail
		return v
	}

	if a.PIIDetection.HasPII {
		v := scan.Block("pii_detected", maxLevel(level, scan.RiskHigh))
		v.Detail = detail
		return v
	}

	v := scan.Allow(level)
	v.Detail = detail
	return v
}

func maxLevel(a, b scan.RiskLevel) scan.RiskLevel {
	if a.AtLeast(b) {
		return a
	}
	return b
}

var _ Scanner = (*Remote)(nil)
