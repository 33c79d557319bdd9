package livelog

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wardenlabs/promptwarden/core/scan"
)

var (
	colorGreen  = lipgloss.Color("#6BCB77")
	colorRed    = lipgloss.Color("#E74C3C")
	colorAmber  = lipgloss.Color("#F0AD4E")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorViolet = lipgloss.Color("#9B59B6")
	colorWhite  = lipgloss.Color("#ECF0F1")
	colorDim    = lipgloss.Color("#7F8C8D")
	colorBg     = lipgloss.Color("#1E1E2E")

	headerStyle = lipgloss.NewStyle().
			Background(colorBg).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Background(colorBg).
			Foreground(colorDim).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorDim).
			Padding(0, 1)

	sidebarLabelStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	sidebarValueStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true)

	sidebarHeaderStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true).
				Underline(true)

	entryTimeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	pauseIndicatorStyle = lipgloss.NewStyle().
				Foreground(colorAmber).
				Bold(true)

	scrollLockStyle = lipgloss.NewStyle().
			Foreground(colorViolet).
			Bold(true)

	helpOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorViolet).
				Padding(1, 2).
				Foreground(colorWhite)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

type kindStyle struct {
	symbol string
	color  lipgloss.Color
}

var kindStyles = map[scan.Kind]kindStyle{
	scan.KindSuccess: {symbol: "+", color: colorGreen},
	scan.KindError:   {symbol: "!", color: colorRed},
	scan.KindBlocked: {symbol: "x", color: colorAmber},
	scan.KindInfo:    {symbol: "*", color: colorBlue},
}

func kindStyleFor(kind scan.Kind) kindStyle {
	if s, ok := kindStyles[kind]; ok {
		return s
	}
	return kindStyle{symbol: "?", color: colorDim}
}
