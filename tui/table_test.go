package tui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLogs() []*LogView {
	return []*LogView{
		{
			ID:        "1755000000000-abcd1234",
			Timestamp: time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
			Kind:      "BLOCKED",
			Subject:   "password=hunter2",
			Summary:   "prompt blocked (high risk)",
			Reason:    "credential_leak",
		},
		{
			ID:        "1755000000001-ef567890",
			Timestamp: time.Date(2026, 8, 25, 10, 31, 0, 0, time.UTC),
			Kind:      "SUCCESS",
			Subject:   "summarize the meeting",
			Summary:   "prompt scanned clean (low risk)",
		},
	}
}

func TestTablePresenter_RenderLogs(t *testing.T) {
	var buf bytes.Buffer
	p := NewTablePresenter(PresenterOptions{Writer: &buf, TerminalWidth: 100})

	require.NoError(t, p.RenderLogs(sampleLogs()))

	out := buf.String()
	assert.Contains(t, out, "Scan log (2 entries)")
	assert.Contains(t, out, "BLOCKED")
	assert.Contains(t, out, "credential_leak")
	assert.Contains(t, out, "password=hunter2")
	assert.NotContains(t, out, "\033[", "colors disabled by default")
}

func TestTablePresenter_RenderLogsEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := NewTablePresenter(PresenterOptions{Writer: &buf, TerminalWidth: 100})

	require.NoError(t, p.RenderLogs(nil))
	assert.Contains(t, buf.String(), "No log entries found.")
}

func TestTablePresenter_RenderStatus(t *testing.T) {
	var buf bytes.Buffer
	p := NewTablePresenter(PresenterOptions{Writer: &buf, TerminalWidth: 100})

	require.NoError(t, p.RenderStatus(&StatusView{
		Version: "1.2.3",
		Monitor: MonitorStatusView{Domain: "chat.example.com", Enabled: true, Authenticated: true},
		Database: DatabaseView{
			Location:  "/tmp/warden.db",
			SizeHuman: "12.0 KB",
			LogCount:  42,
		},
		Config: ConfigStatusView{Location: "/tmp/config.yml", MaxLogEntries: 2000},
	}))

	out := buf.String()
	assert.Contains(t, out, "promptwarden 1.2.3")
	assert.Contains(t, out, "chat.example.com")
	assert.Contains(t, out, "/tmp/warden.db")
	assert.Contains(t, out, "not configured")
}

func TestTablePresenter_RenderScan(t *testing.T) {
	var buf bytes.Buffer
	p := NewTablePresenter(PresenterOptions{Writer: &buf, TerminalWidth: 100})

	require.NoError(t, p.RenderScan(&ScanView{
		Target:    ".env",
		Kind:      "file",
		Blocked:   true,
		Reason:    "env_file_blocked",
		RiskLevel: "critical",
	}))

	out := buf.String()
	assert.Contains(t, out, "BLOCKED")
	assert.Contains(t, out, "env_file_blocked")
}

func TestJSONPresenter_RenderLogs(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSONPresenter(PresenterOptions{Writer: &buf})

	require.NoError(t, p.RenderLogs(sampleLogs()))

	var decoded []*LogView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "credential_leak", decoded[0].Reason)
}

func TestJSONLPresenter_RenderLogs(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSONLPresenter(PresenterOptions{Writer: &buf})

	require.NoError(t, p.RenderLogs(sampleLogs()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var decoded LogView
		require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	}
}

func TestCSVPresenter_RenderLogs(t *testing.T) {
	var buf bytes.Buffer
	p := NewCSVPresenter(PresenterOptions{Writer: &buf})

	require.NoError(t, p.RenderLogs(sampleLogs()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,timestamp,kind,reason,subject,summary", lines[0])
	assert.Contains(t, lines[1], "BLOCKED")
}
