// Package scan provides the core data model for prompt and file scan outcomes.
package scan

import "fmt"

// Kind represents the outcome category of a scan log entry.
type Kind string

const (
	// KindSuccess indicates the scanned action was clean and allowed.
	KindSuccess Kind = "SUCCESS"
	// KindError indicates the scan itself failed (remote error, timeout).
	KindError Kind = "ERROR"
	// KindBlocked indicates the action was blocked by a guard.
	KindBlocked Kind = "BLOCKED"
	// KindInfo indicates an informational entry (lifecycle, config change).
	KindInfo Kind = "INFO"
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the Kind is a known value.
func (k Kind) IsValid() bool {
	switch k {
	case KindSuccess, KindError, KindBlocked, KindInfo:
		return true
	default:
		return false
	}
}

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if k.IsValid() {
		return k, nil
	}
	return "", fmt.Errorf("invalid log kind: %q", s)
}

// RiskLevel represents the severity assigned to a verdict.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// riskRanks orders risk levels from least to most severe.
var riskRanks = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// String returns the string representation of a RiskLevel.
func (r RiskLevel) String() string {
	return string(r)
}

// IsValid returns true if the RiskLevel is a known value.
func (r RiskLevel) IsValid() bool {
	_, ok := riskRanks[r]
	return ok
}

// AtLeast returns true if r is as severe or more severe than other.
// Unknown levels compare as RiskLow.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return riskRanks[r] >= riskRanks[other]
}

// ParseRiskLevel parses a string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(s)
	if r.IsValid() {
		return r, nil
	}
	return "", fmt.Errorf("invalid risk level: %q", s)
}
