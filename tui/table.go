package tui

import (
	"fmt"
	"io"
	"sort"
)

// TablePresenter renders output in table format.
type TablePresenter struct {
	w         io.Writer
	color     *Colorizer
	termWidth int
}

// NewTablePresenter creates a new table presenter.
func NewTablePresenter(opts PresenterOptions) *TablePresenter {
	termWidth := opts.TerminalWidth
	if termWidth == 0 {
		termWidth = GetTerminalWidth()
	}
	return &TablePresenter{
		w:         opts.Writer,
		color:     NewColorizer(opts.UseColors),
		termWidth: termWidth,
	}
}

// RenderStatus renders the monitoring status.
func (p *TablePresenter) RenderStatus(status *StatusView) error {
	lw := newLineWriter(p.w)

	lw.printf("%s\n\n", p.color.Header("promptwarden "+status.Version))

	lw.printf("%s\n", p.color.Header("Monitoring"))
	lw.field("Domain", status.Monitor.Domain)
	lw.field("Enabled", FormatBool(status.Monitor.Enabled))
	lw.field("Authenticated", FormatBool(status.Monitor.Authenticated))
	if status.Monitor.WatchDir != "" {
		lw.field("Watch dir", p.color.Path(status.Monitor.WatchDir))
	}
	lw.line()

	lw.printf("%s\n", p.color.Header("Database"))
	lw.field("Location", p.color.Path(status.Database.Location))
	lw.field("Size", status.Database.SizeHuman)
	lw.field("Log entries", p.color.Number(FormatNumber(status.Database.LogCount)))
	if !status.Database.OldestEntry.IsZero() {
		lw.field("Oldest", FormatTime(status.Database.OldestEntry))
		lw.field("Latest", FormatTime(status.Database.NewestEntry))
	}
	lw.line()

	lw.printf("%s\n", p.color.Header("Config"))
	lw.field("Location", p.color.Path(status.Config.Location))
	endpoint := status.Config.AnalyzerEndpoint
	if endpoint == "" {
		endpoint = p.color.Dim("not configured")
	}
	lw.field("Analyzer", endpoint)
	lw.field("Log cap", status.Config.MaxLogEntries)
	lw.field("Block env files", FormatBool(status.Config.BlockEnvFiles))
	lw.field("Scan executables", FormatBool(status.Config.ScanExecutables))

	return lw.Err()
}

// logColumnWidths holds the calculated widths for the log table columns.
type logColumnWidths struct {
	time    int
	kind    int
	reason  int
	subject int
	total   int
}

// calculateLogColumnWidths computes column widths based on terminal width.
// Fixed columns: Time(19), Kind(8), Reason(22); the subject absorbs the
// remaining space.
func (p *TablePresenter) calculateLogColumnWidths() logColumnWidths {
	const (
		timeWidth     = 19
		kindWidth     = 8
		reasonWidth   = 22
		minSubject    = 15
		maxSubject    = 100
		columnSpacing = 3
	)

	fixedWidth := timeWidth + kindWidth + reasonWidth + columnSpacing
	subjectWidth := p.termWidth - fixedWidth
	if subjectWidth < minSubject {
		subjectWidth = minSubject
	}
	if subjectWidth > maxSubject {
		subjectWidth = maxSubject
	}

	return logColumnWidths{
		time:    timeWidth,
		kind:    kindWidth,
		reason:  reasonWidth,
		subject: subjectWidth,
		total:   fixedWidth + subjectWidth,
	}
}

// RenderLogs renders scan log entries.
func (p *TablePresenter) RenderLogs(entries []*LogView) error {
	lw := newLineWriter(p.w)

	if len(entries) == 0 {
		lw.line("No log entries found.")
		return lw.Err()
	}

	cols := p.calculateLogColumnWidths()

	lw.printf("Scan log (%d entries)\n", len(entries))
	lw.line(HorizontalLine(cols.total))

	rowFmt := fmt.Sprintf("%%-%ds %%-%ds %%-%ds %%s\n",
		cols.time, cols.kind, cols.reason)
	lw.printf(rowFmt, "Time", "Kind", "Reason", "Subject")
	lw.line(HorizontalLine(cols.total))

	for _, e := range entries {
		reason := e.Reason
		if reason == "" {
			reason = "-"
		}
		// The colorized kind carries invisible escape bytes, so pad the
		// raw value before coloring.
		kind := p.color.Kind(fmt.Sprintf("%-*s", cols.kind, e.Kind))

		lw.printf("%-*s %s %-*s %s\n",
			cols.time, FormatTime(e.Timestamp),
			kind,
			cols.reason, TruncateString(reason, cols.reason),
			TruncateString(e.Subject, cols.subject))
	}

	lw.line(HorizontalLine(cols.total))
	lw.printf("%d entries\n", len(entries))

	return lw.Err()
}

// RenderScan renders a one-shot scan verdict.
func (p *TablePresenter) RenderScan(result *ScanView) error {
	lw := newLineWriter(p.w)

	verdict := p.color.Success("ALLOWED")
	if result.Blocked {
		verdict = p.color.Error("BLOCKED")
	}

	lw.printf("%-12s %s\n", "Verdict", verdict)
	lw.printf("%-12s %s\n", "Target", TruncateString(result.Target, p.termWidth-13))
	lw.printf("%-12s %s\n", "Kind", result.Kind)
	lw.printf("%-12s %s\n", "Risk", result.RiskLevel)
	if result.Reason != "" {
		lw.printf("%-12s %s\n", "Reason", result.Reason)
	}
	if result.ScanError != "" {
		lw.printf("%-12s %s\n", "Scan error", p.color.Warning(result.ScanError))
	}

	return lw.Err()
}

// RenderAudits renders remote audit records.
func (p *TablePresenter) RenderAudits(records []*AuditView) error {
	lw := newLineWriter(p.w)

	if len(records) == 0 {
		lw.line("No remote audit events found.")
		return lw.Err()
	}

	lw.printf("Remote audit events (%d)\n", len(records))
	lw.line(HorizontalLine(p.termWidth))

	for _, r := range records {
		lw.printf("%-22s %-10s %-20s %s\n",
			r.Timestamp,
			p.color.Kind(r.Severity),
			r.EventType,
			TruncateString(r.Message, p.termWidth-55))
	}

	return lw.Err()
}

// RenderConfig renders the configuration.
func (p *TablePresenter) RenderConfig(config *ConfigView) error {
	lw := newLineWriter(p.w)

	lw.printf("%s\n", p.color.Header("Configuration"))
	lw.printf("Location: %s\n", p.color.Path(config.Location))
	lw.line(HorizontalLine(p.termWidth))
	lw.line()

	p.renderConfigMap(lw, config.Values, "")

	return lw.Err()
}

func (p *TablePresenter) renderConfigMap(lw *lineWriter, m map[string]any, prefix string) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := m[key].(type) {
		case map[string]any:
			p.renderConfigMap(lw, v, fullKey)
		default:
			lw.printf("  %-30s %v\n", fullKey, v)
		}
	}
}

// RenderError renders an error message.
func (p *TablePresenter) RenderError(err error) error {
	_, werr := fmt.Fprintf(p.w, "%s %s\n", p.color.Error("Error:"), err.Error())
	return werr
}

// RenderMessage renders a simple message.
func (p *TablePresenter) RenderMessage(message string) error {
	_, err := fmt.Fprintln(p.w, message)
	return err
}

// Ensure TablePresenter implements Presenter
var _ Presenter = (*TablePresenter)(nil)
