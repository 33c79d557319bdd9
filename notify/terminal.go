package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TerminalRenderer renders notifications as styled lines on a terminal
// writer. Stacking offsets have no visual meaning on a scrolling terminal,
// so Exit, Remove, and Reposition are no-ops.
type TerminalRenderer struct {
	mu        sync.Mutex
	w         io.Writer
	useColors bool
	styles    map[Severity]lipgloss.Style
}

// NewTerminalRenderer creates a renderer writing to w.
func NewTerminalRenderer(w io.Writer, useColors bool) *TerminalRenderer {
	return &TerminalRenderer{w: w, useColors: useColors}
}

// Setup compiles the severity styles.
func (r *TerminalRenderer) Setup() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.styles = map[Severity]lipgloss.Style{
		SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
	return nil
}

// Render writes one styled notification line.
func (r *TerminalRenderer) Render(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := fmt.Sprintf("[%s]", n.Severity)
	if r.useColors {
		if style, ok := r.styles[n.Severity]; ok {
			label = style.Render(label)
		}
	}
	fmt.Fprintf(r.w, "%s %s\n", label, n.Message)
}

// Exit is a no-op on a scrolling terminal.
func (r *TerminalRenderer) Exit(string) {}

// Remove is a no-op on a scrolling terminal.
func (r *TerminalRenderer) Remove(string) {}

// Reposition is a no-op on a scrolling terminal.
func (r *TerminalRenderer) Reposition([]Notification) {}

var _ Renderer = (*TerminalRenderer)(nil)

// NopRenderer discards all notifications.
type NopRenderer struct{}

func (NopRenderer) Setup() error              { return nil }
func (NopRenderer) Render(Notification)       {}
func (NopRenderer) Exit(string)               {}
func (NopRenderer) Remove(string)             {}
func (NopRenderer) Reposition([]Notification) {}

var _ Renderer = (*NopRenderer)(nil)
