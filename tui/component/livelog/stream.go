package livelog

import (
	tea "github.com/charmbracelet/bubbletea"
)

// waitForStream blocks on the next live update. The model re-issues this
// command after every received message so the channel is drained one event
// per Update cycle.
func waitForStream(ch <-chan StreamEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		if ev.Cleared {
			return clearedMsg{}
		}
		return newEntryMsg{entry: ev.Entry}
	}
}
