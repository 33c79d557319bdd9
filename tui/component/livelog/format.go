package livelog

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/wardenlabs/promptwarden/core/scan"
	"github.com/wardenlabs/promptwarden/tui"
)

const (
	colTimeWidth   = 8 // "15:04:05"
	colIconWidth   = 1
	colKindWidth   = 8 // "BLOCKED " padded
	colReasonWidth = 20
	colSpacing     = 5
	colMinSubject  = 15
	colMaxSubject  = 120
)

func subjectWidth(streamWidth int) int {
	avail := streamWidth - (colTimeWidth + colIconWidth + colKindWidth + colReasonWidth + colSpacing)
	if avail < colMinSubject {
		return colMinSubject
	}
	if avail > colMaxSubject {
		return colMaxSubject
	}
	return avail
}

func formatEntry(e *scan.LogEntry, width int) string {
	ks := kindStyleFor(e.Kind)
	kindColor := lipgloss.NewStyle().Foreground(ks.color)

	ts := entryTimeStyle.Render(tui.FormatTimeShort(e.Time()))
	icon := kindColor.Render(ks.symbol)
	kind := kindColor.Render(fmt.Sprintf("%-*s", colKindWidth, e.Kind))

	reason := e.Reason
	if reason == "" {
		reason = "-"
	}
	reasonCol := lipgloss.NewStyle().Foreground(colorDim).
		Render(fmt.Sprintf("%-*s", colReasonWidth, tui.TruncateString(reason, colReasonWidth)))

	subject := tui.TruncateString(e.Subject, subjectWidth(width))

	return fmt.Sprintf("%s %s %s %s %s", ts, icon, kind, reasonCol, subject)
}
