// Package analyzer provides the client for the remote prompt analysis
// service. The service is an external collaborator; this client only
// consumes it and fails soft so guard call paths never see a panic or an
// unbounded wait.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every analysis call. A timed-out call is treated as
// a failure by callers, which then apply their fail-open policy.
const DefaultTimeout = 30 * time.Second

const (
	analyzePromptPath = "/api/v1/analyze/prompt"
	auditSearchPath   = "/api/v1/audit/events/search"
)

// Client talks to the analysis endpoint. A bearer token is attached when
// available.
type Client struct {
	baseURL string
	token   func() string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets a fixed bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = func() string { return token }
	}
}

// WithTokenSource resolves the bearer token on every request, so a rotated
// credential applies to a long-lived client without rebuilding it.
func WithTokenSource(source func() string) Option {
	return func(c *Client) {
		if source != nil {
			c.token = source
		}
	}
}

// WithTimeout overrides the default call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   func() string { return "" },
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PIIDetection reports personally identifiable information findings.
type PIIDetection struct {
	HasPII    bool     `json:"hasPII"`
	Types     []string `json:"types"`
	Count     int      `json:"count"`
	RiskLevel string   `json:"riskLevel"`
}

// PromptAnalysis is the remote verdict for one prompt.
type PromptAnalysis struct {
	IsThreats        bool         `json:"isThreats"`
	Threats          []string     `json:"threats"`
	RiskLevel        string       `json:"riskLevel"`
	Summary          string       `json:"summary"`
	QuickPattern     string       `json:"quickPattern"`
	DangerousPattern string       `json:"dangerousPattern"`
	ShouldBlock      bool         `json:"shouldBlock"`
	BlockReason      string       `json:"blockReason"`
	PIIDetection     PIIDetection `json:"piiDetection"`
}

// AuditRecord is one row from the remote audit trail.
type AuditRecord struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	EventType string `json:"eventType"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
}

// AuditPage is a page of remote audit records.
type AuditPage struct {
	Events []AuditRecord `json:"events"`
	Total  int           `json:"total"`
}

// AnalyzePrompt submits text for analysis. Any transport or service failure
// is returned as an error with a best-effort message extracted from the
// response body; callers decide the fail-open consequence.
func (c *Client) AnalyzePrompt(ctx context.Context, text string) (*PromptAnalysis, error) {
	var result PromptAnalysis
	if err := c.post(ctx, analyzePromptPath, map[string]string{"text": text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchAuditEvents retrieves a page of the remote audit trail.
func (c *Client) SearchAuditEvents(ctx context.Context, limit, offset int) (*AuditPage, error) {
	var result AuditPage
	req := map[string]int{"limit": limit, "offset": offset}
	if err := c.post(ctx, auditSearchPath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("analyzer: no endpoint configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analyzer: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analyzer: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("analyzer: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("analyzer: %s returned %d: %s", path, resp.StatusCode, extractErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("analyzer: failed to decode response: %w", err)
	}
	return nil
}

// extractErrorMessage pulls a human-readable message out of an error
// response body, best-effort.
func extractErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no response body"
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(data))
}
