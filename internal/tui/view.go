package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/csheth/menubook/internal/flipbook"
)

func (m *model) View() string {
	if m.engine == nil {
		return m.viewEmpty()
	}
	var body string
	switch {
	case m.lightbox.open:
		body = lipgloss.Place(m.bodyWidth(), m.layout.pageHeight, lipgloss.Center, lipgloss.Center, m.lightboxView())
	case m.helpVisible:
		body = lipgloss.Place(m.bodyWidth(), m.layout.pageHeight, lipgloss.Left, lipgloss.Top, m.help.View(m.keys))
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.stackView(), m.pageView(), m.peekView())
	}
	// The header and category bar always take one row each so that mouse
	// rows line up with the layout.
	bar, _ := m.categoryBar()
	parts := []string{m.headerView(), bar, body, m.statusView()}
	if footer := m.footerHelp(); footer != "" {
		parts = append(parts, footer)
	}
	return strings.Join(parts, "\n")
}

func (m *model) viewEmpty() string {
	box := m.theme.page.Width(m.layout.pageWidth - 2).Render(helperStyle.Render(m.infoMessage))
	parts := []string{m.headerView(), "", box}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	parts = append(parts, m.footerHelp())
	return joinNonEmpty(parts)
}

func (m *model) bodyWidth() int {
	return stackWidth + m.layout.pageWidth + peekWidth
}

func (m *model) headerView() string {
	title := m.theme.title.Render(m.book.Profile.Name)
	if m.engine == nil {
		return title
	}
	page := m.book.Pages[m.engine.Cursor()]
	if page.Title == "" || page.Title == m.book.Profile.Name {
		return title
	}
	return title + helperStyle.Render(" · "+page.Title)
}

// categoryBar renders the section labels and the span each one occupies,
// so clicks can be mapped back to a label.
func (m *model) categoryBar() (string, []categorySpan) {
	if len(m.sections) == 0 {
		return "", nil
	}
	limit := m.layout.windowWidth
	if limit <= 0 {
		limit = m.bodyWidth()
	}
	var (
		b     strings.Builder
		spans []categorySpan
		x     int
	)
	for i, section := range m.sections {
		text := fmt.Sprintf("%d %s", i+1, section.Label)
		style := m.theme.category
		if i == m.selected {
			style = m.theme.selected
		}
		rendered := style.Render(text)
		width := lipgloss.Width(rendered)
		if x+width > limit {
			break
		}
		spans = append(spans, categorySpan{label: section.Label, start: x, end: x + width})
		b.WriteString(rendered)
		x += width
	}
	return b.String(), spans
}

func (m *model) categorySpans() []categorySpan {
	_, spans := m.categoryBar()
	return spans
}

func (m *model) stackView() string {
	count := m.view.flippedCount()
	depth := count
	if depth > stackDepth {
		depth = stackDepth
	}
	edge := strings.Repeat(" ", stackWidth-depth) + strings.Repeat("▏", depth)
	rows := make([]string, m.layout.pageHeight)
	for i := range rows {
		rows[i] = edge
	}
	if count > 0 {
		rows[len(rows)-1] = fmt.Sprintf("%*d", stackWidth-1, count) + " "
	}
	return stackStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) peekView() string {
	peek, ok := m.view.withTier(flipbook.TierPeek)
	rows := make([]string, m.layout.pageHeight)
	if !ok {
		for i := range rows {
			rows[i] = strings.Repeat(" ", peekWidth)
		}
		return strings.Join(rows, "\n")
	}
	title := []rune(m.book.Pages[peek.Index].Title)
	for i := range rows {
		ch := " "
		if i >= 1 && i-1 < len(title) && i < len(rows)-1 {
			ch = string(title[i-1])
		}
		rows[i] = "▕" + ch + " "
	}
	return peekStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) pageView() string {
	index := m.engine.Cursor()
	style := m.theme.page
	marker := ""
	scroll := m.scroll
	if a := m.view.animating; a != nil {
		style = m.theme.turning
		if a.Index != index {
			scroll = 0
		}
		index = a.Index
		if a.Flipped {
			marker = "↷ "
		} else {
			marker = "↶ "
		}
	}
	page := m.book.Pages[index]
	width := m.layout.contentWidth()
	rows := m.layout.bodyRows()

	out := make([]string, 0, rows+2)
	out = append(out, truncate.StringWithTail(m.theme.heading.Render(marker+page.Title), uint(width), "…"), "")

	lines := m.pageLines(page, width)
	start, end, indicator := window(len(lines), rows, scroll)
	for _, line := range lines[start:end] {
		out = append(out, truncate.String(line.text, uint(width)))
	}
	if indicator {
		out = append(out, indicatorStyle.Render(fmt.Sprintf("↓ %d more", len(lines)-end)))
	}
	for len(out) < rows+2 {
		out = append(out, "")
	}
	return style.Width(m.layout.pageWidth - 2).Height(m.layout.pageHeight - 2).Render(strings.Join(out, "\n"))
}

func (m *model) statusView() string {
	status := statusBarStyle.Render(fmt.Sprintf("page %d/%d · %s", m.engine.Cursor()+1, m.engine.PageCount(), m.engine.State()))
	switch {
	case m.errorMessage != "":
		return status + " " + errorStyle.Render(m.errorMessage)
	case m.infoMessage != "":
		return status + " " + helperStyle.Render(m.infoMessage)
	}
	return status
}

func (m *model) footerHelp() string {
	if m.helpVisible {
		return ""
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}
