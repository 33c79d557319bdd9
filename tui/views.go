package tui

import (
	"time"
)

// StatusView represents the status output data.
type StatusView struct {
	Version  string            `json:"version"`
	Monitor  MonitorStatusView `json:"monitor"`
	Database DatabaseView      `json:"database"`
	Config   ConfigStatusView  `json:"config"`
}

// MonitorStatusView represents the monitoring state.
type MonitorStatusView struct {
	Domain        string `json:"domain"`
	Enabled       bool   `json:"enabled"`
	Authenticated bool   `json:"authenticated"`
	WatchDir      string `json:"watch_dir"`
}

// DatabaseView represents storage information.
type DatabaseView struct {
	Location    string    `json:"location"`
	SizeBytes   int64     `json:"size_bytes"`
	SizeHuman   string    `json:"size_human"`
	LogCount    int       `json:"log_count"`
	OldestEntry time.Time `json:"oldest_entry"`
	NewestEntry time.Time `json:"newest_entry"`
}

// ConfigStatusView represents configuration status.
type ConfigStatusView struct {
	Location         string `json:"location"`
	AnalyzerEndpoint string `json:"analyzer_endpoint"`
	MaxLogEntries    int    `json:"max_log_entries"`
	BlockEnvFiles    bool   `json:"block_env_files"`
	ScanExecutables  bool   `json:"scan_executables"`
}

// LogView represents a scan log entry for display.
type LogView struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Subject   string    `json:"subject"`
	Summary   string    `json:"summary"`
	Reason    string    `json:"reason,omitempty"`
}

// ScanView represents a one-shot scan verdict for display.
type ScanView struct {
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Blocked   bool   `json:"blocked"`
	Reason    string `json:"reason,omitempty"`
	RiskLevel string `json:"risk_level"`
	ScanError string `json:"scan_error,omitempty"`
}

// AuditView represents a remote audit record for display.
type AuditView struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	EventType string `json:"event_type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// ConfigView represents configuration for display.
type ConfigView struct {
	Location string         `json:"location"`
	Values   map[string]any `json:"values"`
}
