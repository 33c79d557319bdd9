package scanner

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wardenlabs/promptwarden/config"
	"github.com/wardenlabs/promptwarden/core/scan"
)

// SettingsProvider returns the current advanced settings. Guards re-read
// configuration on change notifications, so the heuristic scanner pulls
// settings per scan instead of capturing them at construction.
type SettingsProvider func() config.AdvancedSettings

// Heuristic is the built-in local scanner. It detects credentials, PII, and
// injection language with pattern matching and applies the env-file and
// executable policies from the advanced settings.
type Heuristic struct {
	settings SettingsProvider
	rules    []promptRule
}

type promptRule struct {
	reason  string
	level   scan.RiskLevel
	block   bool
	pattern *regexp.Regexp
}

// NewHeuristic creates a heuristic scanner with built-in detection rules.
func NewHeuristic(settings SettingsProvider) *Heuristic {
	if settings == nil {
		settings = func() config.AdvancedSettings {
			return config.DefaultConfiguration().AdvancedSettings
		}
	}
	return &Heuristic{
		settings: settings,
		rules:    buildPromptRules(),
	}
}

// Name returns the scanner identifier.
func (h *Heuristic) Name() string { return "heuristic" }

// ScanPrompt runs all prompt rules against the text. The first blocking
// rule wins; non-blocking matches raise the risk level of an allow verdict.
func (h *Heuristic) ScanPrompt(_ context.Context, text string) (*scan.Verdict, error) {
	level := scan.RiskLow
	var matched []string

	for _, r := range h.rules {
		if !r.pattern.MatchString(text) {
			continue
		}
		if r.block {
			v := scan.Block(r.reason, r.level)
			v.Detail = map[string]any{"rule": r.reason, "scanner": h.Name()}
			return v, nil
		}
		matched = append(matched, r.reason)
		if r.level.AtLeast(level) {
			level = r.level
		}
	}

	v := scan.Allow(level)
	if len(matched) > 0 {
		v.Detail = map[string]any{"flags": matched, "scanner": h.Name()}
	}
	return v, nil
}

// ScanFile applies the env-file and executable policies, then scans textual
// content for embedded secrets.
func (h *Heuristic) ScanFile(_ context.Context, name string, data []byte) (*scan.Verdict, error) {
	settings := h.settings()
	base := filepath.Base(name)

	if settings.BlockEnvFiles && isEnvFile(base) {
		v := scan.Block("env_file_blocked", scan.RiskCritical)
		v.Detail = map[string]any{"file": base, "scanner": h.Name()}
		return v, nil
	}

	if isExecutable(base) {
		if !settings.ScanExecutables {
			// Executables are skipped entirely unless opted in.
			return scan.Allow(scan.RiskLow), nil
		}
		v := scan.Block("executable_blocked", scan.RiskHigh)
		v.Detail = map[string]any{"file": base, "scanner": h.Name()}
		return v, nil
	}

	if secretPattern.Match(data) {
		v := scan.Block("secret_in_file", scan.RiskHigh)
		v.Detail = map[string]any{"file": base, "scanner": h.Name()}
		return v, nil
	}

	return scan.Allow(scan.RiskLow), nil
}

var _ Scanner = (*Heuristic)(nil)

// secretPattern flags credential material embedded in file content.
var secretPattern = regexp.MustCompile(`(?i)(-----BEGIN [A-Z ]*PRIVATE KEY-----|aws_secret_access_key\s*[=:]|api[_-]?key\s*[=:]\s*\S+|password\s*[=:]\s*\S+)`)

func buildPromptRules() []promptRule {
	return []promptRule{
		{
			reason:  "credential_leak",
			level:   scan.RiskHigh,
			block:   true,
			pattern: regexp.MustCompile(`(?i)(password\s*[=:]\s*\S+|api[_-]?key\s*[=:]\s*\S+|secret\s*[=:]\s*\S+|bearer\s+[A-Za-z0-9._\-]{16,}|-----BEGIN [A-Z ]*PRIVATE KEY-----|aws_secret_access_key)`),
		},
		{
			reason:  "pii_detected",
			level:   scan.RiskHigh,
			block:   true,
			pattern: regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b|\b\d{3}-\d{2}-\d{4}\b`),
		},
		{
			reason:  "instruction_override",
			level:   scan.RiskMedium,
			block:   false,
			pattern: regexp.MustCompile(`(?i)(ignore (all )?(previous|prior) (instructions|prompts)|disregard (the )?(system|previous) (prompt|instructions))`),
		},
		{
			reason:  "prompt_exfiltration",
			level:   scan.RiskMedium,
			block:   false,
			pattern: regexp.MustCompile(`(?i)(reveal|print|show).{0,20}(system prompt|hidden instructions)`),
		},
	}
}

// isEnvFile reports whether a file name matches the dotenv family.
func isEnvFile(base string) bool {
	return base == ".env" || strings.HasPrefix(base, ".env.")
}

var executableExtensions = map[string]bool{
	".exe": true,
	".dll": true,
	".bat": true,
	".cmd": true,
	".sh":  true,
	".bin": true,
	".msi": true,
	".app": true,
}

// isExecutable reports whether a file name carries an executable extension.
func isExecutable(base string) bool {
	return executableExtensions[strings.ToLower(filepath.Ext(base))]
}
