package tui

import (
	"encoding/json"
	"io"
)

// JSONLPresenter renders output as newline-delimited JSON, one record per
// line. Collection renders emit one line per element; scalar renders emit a
// single line.
type JSONLPresenter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONLPresenter creates a new JSONL presenter.
func NewJSONLPresenter(opts PresenterOptions) *JSONLPresenter {
	return &JSONLPresenter{
		w:       opts.Writer,
		encoder: json.NewEncoder(opts.Writer),
	}
}

// RenderStatus renders the monitoring status as a single JSON line.
func (p *JSONLPresenter) RenderStatus(status *StatusView) error {
	return p.encoder.Encode(status)
}

// RenderLogs renders scan log entries one per line.
func (p *JSONLPresenter) RenderLogs(entries []*LogView) error {
	for _, e := range entries {
		if err := p.encoder.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// RenderScan renders a one-shot scan verdict as a single JSON line.
func (p *JSONLPresenter) RenderScan(result *ScanView) error {
	return p.encoder.Encode(result)
}

// RenderAudits renders remote audit records one per line.
func (p *JSONLPresenter) RenderAudits(records []*AuditView) error {
	for _, r := range records {
		if err := p.encoder.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// RenderConfig renders the configuration as a single JSON line.
func (p *JSONLPresenter) RenderConfig(config *ConfigView) error {
	return p.encoder.Encode(config)
}

// RenderError renders an error message as a single JSON line.
func (p *JSONLPresenter) RenderError(err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return p.encoder.Encode(output)
}

// RenderMessage renders a simple message as a single JSON line.
func (p *JSONLPresenter) RenderMessage(message string) error {
	output := struct {
		Message string `json:"message"`
	}{
		Message: message,
	}
	return p.encoder.Encode(output)
}

// Ensure JSONLPresenter implements Presenter
var _ Presenter = (*JSONLPresenter)(nil)
