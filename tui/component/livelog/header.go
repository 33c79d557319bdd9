package livelog

import (
	"fmt"
	"time"
)

type headerModel struct {
	blockedCount int
}

func newHeaderModel() headerModel {
	return headerModel{}
}

func (h headerModel) view(width int) string {
	title := "promptwarden live"
	clock := time.Now().Format("15:04:05")
	blocked := fmt.Sprintf("%d blocked", h.blockedCount)

	content := fmt.Sprintf(" %s | %s | %s", title, blocked, clock)
	return headerStyle.Width(width).Render(content)
}
