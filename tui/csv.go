package tui

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVPresenter renders output as CSV.
type CSVPresenter struct {
	w      io.Writer
	writer *csv.Writer
}

// NewCSVPresenter creates a new CSV presenter.
func NewCSVPresenter(opts PresenterOptions) *CSVPresenter {
	return &CSVPresenter{
		w:      opts.Writer,
		writer: csv.NewWriter(opts.Writer),
	}
}

// RenderStatus renders the monitoring status as CSV.
func (p *CSVPresenter) RenderStatus(status *StatusView) error {
	p.writer.Write([]string{"type", "name", "value"})

	p.writer.Write([]string{"version", "promptwarden", status.Version})
	p.writer.Write([]string{"monitor", "domain", status.Monitor.Domain})
	p.writer.Write([]string{"monitor", "enabled", FormatBool(status.Monitor.Enabled)})
	p.writer.Write([]string{"monitor", "authenticated", FormatBool(status.Monitor.Authenticated)})
	p.writer.Write([]string{"database", "location", status.Database.Location})
	p.writer.Write([]string{"database", "log_entries", fmt.Sprintf("%d", status.Database.LogCount)})
	p.writer.Write([]string{"config", "location", status.Config.Location})
	p.writer.Write([]string{"config", "analyzer_endpoint", status.Config.AnalyzerEndpoint})

	p.writer.Flush()
	return p.writer.Error()
}

// RenderLogs renders scan log entries as CSV.
func (p *CSVPresenter) RenderLogs(entries []*LogView) error {
	p.writer.Write([]string{"id", "timestamp", "kind", "reason", "subject", "summary"})

	for _, e := range entries {
		p.writer.Write([]string{
			e.ID,
			FormatTime(e.Timestamp),
			e.Kind,
			e.Reason,
			e.Subject,
			e.Summary,
		})
	}

	p.writer.Flush()
	return p.writer.Error()
}

// RenderScan renders a one-shot scan verdict as CSV.
func (p *CSVPresenter) RenderScan(result *ScanView) error {
	p.writer.Write([]string{"target", "kind", "blocked", "reason", "risk_level", "scan_error"})
	p.writer.Write([]string{
		result.Target,
		result.Kind,
		FormatBool(result.Blocked),
		result.Reason,
		result.RiskLevel,
		result.ScanError,
	})

	p.writer.Flush()
	return p.writer.Error()
}

// RenderAudits renders remote audit records as CSV.
func (p *CSVPresenter) RenderAudits(records []*AuditView) error {
	p.writer.Write([]string{"id", "timestamp", "event_type", "severity", "message"})

	for _, r := range records {
		p.writer.Write([]string{
			r.ID,
			r.Timestamp,
			r.EventType,
			r.Severity,
			r.Message,
		})
	}

	p.writer.Flush()
	return p.writer.Error()
}

// RenderConfig renders the configuration as CSV.
func (p *CSVPresenter) RenderConfig(config *ConfigView) error {
	p.writer.Write([]string{"key", "value"})
	p.renderConfigMap(config.Values, "")
	p.writer.Flush()
	return p.writer.Error()
}

func (p *CSVPresenter) renderConfigMap(m map[string]any, prefix string) {
	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case map[string]any:
			p.renderConfigMap(v, fullKey)
		default:
			p.writer.Write([]string{fullKey, fmt.Sprintf("%v", value)})
		}
	}
}

// RenderError renders an error message as CSV.
func (p *CSVPresenter) RenderError(err error) error {
	p.writer.Write([]string{"error"})
	p.writer.Write([]string{err.Error()})
	p.writer.Flush()
	return p.writer.Error()
}

// RenderMessage renders a simple message as CSV.
func (p *CSVPresenter) RenderMessage(message string) error {
	p.writer.Write([]string{"message"})
	p.writer.Write([]string{message})
	p.writer.Flush()
	return p.writer.Error()
}

// Ensure CSVPresenter implements Presenter
var _ Presenter = (*CSVPresenter)(nil)
