package livelog

import (
	"strings"

	"github.com/wardenlabs/promptwarden/core/scan"
)

type entryListModel struct {
	max        int
	items      []*scan.LogEntry
	lines      []string
	offset     int
	autoScroll bool
	filters    map[scan.Kind]bool
}

func newEntryListModel(max int) entryListModel {
	return entryListModel{
		max:        max,
		autoScroll: true,
		filters:    make(map[scan.Kind]bool),
	}
}

func (m *entryListModel) append(entries []*scan.LogEntry, width int) {
	for _, e := range entries {
		m.items = append(m.items, e)
		m.lines = append(m.lines, formatEntry(e, width))
	}
	if len(m.items) > m.max {
		drop := len(m.items) - m.max
		m.items = m.items[drop:]
		m.lines = m.lines[drop:]
		m.offset -= drop
		if m.offset < 0 {
			m.offset = 0
		}
	}
}

func (m *entryListModel) clear() {
	m.items = nil
	m.lines = nil
	m.offset = 0
	m.autoScroll = true
}

func (m *entryListModel) toggleFilter(kind scan.Kind) {
	if m.filters[kind] {
		delete(m.filters, kind)
	} else {
		m.filters[kind] = true
	}
}

func (m *entryListModel) clearFilters() {
	m.filters = make(map[scan.Kind]bool)
}

func (m *entryListModel) hasFilters() bool {
	return len(m.filters) > 0
}

func (m entryListModel) filteredLines() []string {
	if !m.hasFilters() {
		return m.lines
	}
	var result []string
	for i, e := range m.items {
		if m.filters[e.Kind] {
			result = append(result, m.lines[i])
		}
	}
	return result
}

func (m *entryListModel) scrollUp(n int) {
	m.autoScroll = false
	m.offset -= n
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *entryListModel) scrollDown(n int, viewHeight int) {
	lines := m.filteredLines()
	m.offset += n
	maxOffset := len(lines) - viewHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset >= maxOffset {
		m.offset = maxOffset
		m.autoScroll = true
	}
}

func (m *entryListModel) jumpToBottom(viewHeight int) {
	lines := m.filteredLines()
	m.offset = len(lines) - viewHeight
	if m.offset < 0 {
		m.offset = 0
	}
	m.autoScroll = true
}

func (m *entryListModel) jumpToTop() {
	m.offset = 0
	m.autoScroll = false
}

func (m entryListModel) view(width, height int) string {
	lines := m.filteredLines()

	var visible []string
	if m.autoScroll {
		start := len(lines) - height
		if start < 0 {
			start = 0
		}
		visible = lines[start:]
	} else {
		end := m.offset + height
		if end > len(lines) {
			end = len(lines)
		}
		visible = lines[m.offset:end]
	}

	if len(visible) < height {
		padding := make([]string, height-len(visible))
		visible = append(visible, padding...)
	}
	return strings.Join(visible, "\n")
}
