package scan

import (
	"regexp"
)

// redactedToken replaces every matched secret in persisted text.
const redactedToken = "[REDACTED]"

// Redactor masks credential material in free text. Log subjects pass
// through a Redactor before persistence so a blocked secret is not leaked
// a second time by the log that recorded the block.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor compiles the given patterns into a Redactor.
func NewRedactor(patterns []string) (*Redactor, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &Redactor{patterns: compiled}, nil
}

// DefaultRedactPatterns returns the built-in secret patterns.
func DefaultRedactPatterns() []string {
	return []string{
		`(?i)password\s*[=:]\s*\S+`,
		`(?i)api[_-]?key\s*[=:]\s*\S+`,
		`(?i)token\s*[=:]\s*\S+`,
		`(?i)secret\s*[=:]\s*\S+`,
		`(?i)bearer\s+\S+`,
		`(?i)aws_access_key_id\s*[=:]\s*\S+`,
		`(?i)aws_secret_access_key\s*[=:]\s*\S+`,
		`-----BEGIN [A-Z ]*PRIVATE KEY-----(?s:.*?)(-----END [A-Z ]*PRIVATE KEY-----|$)`,
	}
}

// Redact replaces every pattern match in content with the redaction token.
func (r *Redactor) Redact(content string) string {
	result := content
	for _, re := range r.patterns {
		result = re.ReplaceAllString(result, redactedToken)
	}
	return result
}

var defaultRedactor = mustRedactor(DefaultRedactPatterns())

func mustRedactor(patterns []string) *Redactor {
	r, err := NewRedactor(patterns)
	if err != nil {
		panic(err)
	}
	return r
}

// RedactSecrets masks credential material using the built-in patterns.
func RedactSecrets(content string) string {
	return defaultRedactor.Redact(content)
}
