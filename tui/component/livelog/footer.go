package livelog

type footerModel struct {
	paused     bool
	scrollLock bool
	closed     bool
}

func newFooterModel() footerModel {
	return footerModel{}
}

func (f footerModel) view(width int) string {
	hints := " q quit  p pause  ? help  1-4 filter  G bottom"

	var indicators string
	if f.paused {
		indicators += "  " + pauseIndicatorStyle.Render("PAUSED")
	}
	if f.scrollLock {
		indicators += "  " + scrollLockStyle.Render("SCROLL")
	}
	if f.closed {
		indicators += "  " + pauseIndicatorStyle.Render("STREAM ENDED")
	}

	return footerStyle.Width(width).Render(hints + indicators)
}
