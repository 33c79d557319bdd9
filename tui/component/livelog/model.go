// Package livelog implements the interactive live view over the scan log
// broadcast stream.
package livelog

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wardenlabs/promptwarden/core/scan"
)

type Model struct {
	opts   Options
	width  int
	height int

	header    headerModel
	footer    footerModel
	counts    countsModel
	entryList entryListModel
	help      helpModel

	showSidebar bool
	paused      bool
	pending     []*scan.LogEntry
	ready       bool
	seeded      bool
}

func New(opts Options) Model {
	return Model{
		opts:        opts,
		header:      newHeaderModel(),
		footer:      newFooterModel(),
		counts:      newCountsModel(),
		entryList:   newEntryListModel(opts.maxEntries()),
		help:        newHelpModel(),
		showSidebar: true,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForStream(m.opts.Stream)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if !m.seeded {
			m.seeded = true
			m.seedInitial()
		}
		return m, nil

	case newEntryMsg:
		if m.paused {
			m.pending = append(m.pending, msg.entry)
		} else {
			m.appendEntries([]*scan.LogEntry{msg.entry})
		}
		return m, waitForStream(m.opts.Stream)

	case clearedMsg:
		m.entryList.clear()
		m.counts.reset()
		m.pending = nil
		m.header.blockedCount = 0
		return m, waitForStream(m.opts.Stream)

	case streamClosedMsg:
		m.footer.closed = true
		return m, nil
	}

	return m, nil
}

// seedInitial replays the preloaded entries oldest-first so the stream
// reads chronologically.
func (m *Model) seedInitial() {
	initial := m.opts.Initial
	ordered := make([]*scan.LogEntry, 0, len(initial))
	for i := len(initial) - 1; i >= 0; i-- {
		ordered = append(ordered, initial[i])
	}
	m.appendEntries(ordered)
}

func (m *Model) appendEntries(entries []*scan.LogEntry) {
	for _, e := range entries {
		m.counts.record(e)
		if e.Kind == scan.KindBlocked {
			m.header.blockedCount++
		}
	}
	m.entryList.append(entries, m.streamWidth())
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return *m, tea.Quit

	case "p", " ":
		m.paused = !m.paused
		m.footer.paused = m.paused
		if !m.paused && len(m.pending) > 0 {
			m.appendEntries(m.pending)
			m.pending = nil
		}
		return *m, nil

	case "?":
		m.help.toggle()
		return *m, nil

	case "up", "k":
		m.entryList.scrollUp(1)
		m.footer.scrollLock = !m.entryList.autoScroll
		return *m, nil

	case "down", "j":
		m.entryList.scrollDown(1, m.streamHeight())
		m.footer.scrollLock = !m.entryList.autoScroll
		return *m, nil

	case "pgup":
		m.entryList.scrollUp(m.streamHeight())
		m.footer.scrollLock = !m.entryList.autoScroll
		return *m, nil

	case "pgdown":
		m.entryList.scrollDown(m.streamHeight(), m.streamHeight())
		m.footer.scrollLock = !m.entryList.autoScroll
		return *m, nil

	case "G", "end":
		m.entryList.jumpToBottom(m.streamHeight())
		m.footer.scrollLock = false
		return *m, nil

	case "g", "home":
		m.entryList.jumpToTop()
		m.footer.scrollLock = true
		return *m, nil

	case "1":
		m.entryList.toggleFilter(scan.KindBlocked)
		return *m, nil
	case "2":
		m.entryList.toggleFilter(scan.KindError)
		return *m, nil
	case "3":
		m.entryList.toggleFilter(scan.KindSuccess)
		return *m, nil
	case "4":
		m.entryList.toggleFilter(scan.KindInfo)
		return *m, nil
	case "0":
		m.entryList.clearFilters()
		return *m, nil

	case "c":
		m.entryList.clear()
		return *m, nil

	case "s":
		m.showSidebar = !m.showSidebar
		return *m, nil
	}

	return *m, nil
}

func (m Model) sidebarVisible() bool {
	return m.showSidebar && m.width >= 90
}

func (m Model) streamWidth() int {
	if m.sidebarVisible() {
		return m.width - sidebarWidth
	}
	if m.width > 0 {
		return m.width
	}
	return 80
}

func (m Model) streamHeight() int {
	return m.height - 2 // header + footer
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.header.view(m.width)
	footer := m.footer.view(m.width)

	contentHeight := m.height - 2

	if m.help.visible {
		helpOverlay := m.help.view(m.width, contentHeight)
		return lipgloss.JoinVertical(lipgloss.Left, header, helpOverlay, footer)
	}

	streamW := m.streamWidth()
	stream := lipgloss.NewStyle().Width(streamW).Render(
		m.entryList.view(streamW, contentHeight),
	)

	var content string
	if m.sidebarVisible() {
		sidebar := m.counts.view(contentHeight)
		content = lipgloss.JoinHorizontal(lipgloss.Top, stream, sidebar)
	} else {
		content = stream
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
