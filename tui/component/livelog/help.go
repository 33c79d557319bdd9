package livelog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpModel struct {
	visible bool
}

func newHelpModel() helpModel {
	return helpModel{}
}

func (h *helpModel) toggle() {
	h.visible = !h.visible
}

type keyBinding struct {
	key  string
	desc string
}

var helpEntries = []keyBinding{
	{"q / Ctrl+C", "Quit"},
	{"p / Space", "Toggle pause"},
	{"?", "Toggle help"},
	{"Up / k", "Scroll up"},
	{"Down / j", "Scroll down"},
	{"PgUp/PgDn", "Page scroll"},
	{"G / End", "Jump to bottom"},
	{"g / Home", "Jump to top"},
	{"1-4", "Toggle filter (blocked/error/success/info)"},
	{"0", "Clear all filters"},
	{"c", "Clear entries"},
	{"s", "Toggle sidebar"},
}

// view renders the centered help overlay, or nothing when hidden.
func (h helpModel) view(width, height int) string {
	if !h.visible {
		return ""
	}

	keyWidth := 0
	for _, e := range helpEntries {
		if len(e.key) > keyWidth {
			keyWidth = len(e.key)
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(colorWhite).Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, e := range helpEntries {
		b.WriteString(helpKeyStyle.Render(fmt.Sprintf("%-*s  ", keyWidth, e.key)))
		b.WriteString(helpDescStyle.Render(e.desc))
		b.WriteByte('\n')
	}

	overlay := helpOverlayStyle.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
}
