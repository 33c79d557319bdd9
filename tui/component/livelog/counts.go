package livelog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wardenlabs/promptwarden/core/scan"
)

const sidebarWidth = 24

// countsModel keeps per-kind totals for the sidebar.
type countsModel struct {
	byKind map[scan.Kind]int
	total  int
}

func newCountsModel() countsModel {
	return countsModel{byKind: make(map[scan.Kind]int)}
}

func (c *countsModel) record(e *scan.LogEntry) {
	c.byKind[e.Kind]++
	c.total++
}

func (c *countsModel) reset() {
	c.byKind = make(map[scan.Kind]int)
	c.total = 0
}

var sidebarOrder = []scan.Kind{
	scan.KindBlocked,
	scan.KindError,
	scan.KindSuccess,
	scan.KindInfo,
}

func (c countsModel) view(height int) string {
	var b strings.Builder
	b.WriteString(sidebarHeaderStyle.Render("Totals"))
	b.WriteString("\n\n")

	b.WriteString(sidebarLabelStyle.Render("entries "))
	b.WriteString(sidebarValueStyle.Render(fmt.Sprintf("%d", c.total)))
	b.WriteString("\n\n")

	for _, kind := range sidebarOrder {
		ks := kindStyleFor(kind)
		label := lipgloss.NewStyle().Foreground(ks.color).Render(fmt.Sprintf("%-8s", kind))
		b.WriteString(label)
		b.WriteString(sidebarValueStyle.Render(fmt.Sprintf("%d", c.byKind[kind])))
		b.WriteByte('\n')
	}

	return sidebarStyle.Width(sidebarWidth - 2).Height(height).Render(b.String())
}
