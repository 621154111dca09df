package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/menubook/internal/hostbridge"
	"github.com/csheth/menubook/internal/menu"
)

// lightbox is the full-screen photo view of one item. Closing keeps it on
// screen, faded, until the fade tick with the matching gen arrives.
type lightbox struct {
	open    bool
	closing bool
	item    menu.Item
	gen     int
}

func (m *model) openLightbox(item menu.Item) {
	if item.ImageURL == "" {
		return
	}
	if m.lightbox.open && !m.lightbox.closing {
		return
	}
	m.lightbox.gen++
	m.lightbox.open = true
	m.lightbox.closing = false
	m.lightbox.item = item
	m.config.Host.Post(hostbridge.CloseButton(false))
}

func (m *model) closeLightbox() tea.Cmd {
	if !m.lightbox.open || m.lightbox.closing {
		return nil
	}
	m.lightbox.closing = true
	m.config.Host.Post(hostbridge.CloseButton(true))
	return lightboxFadeCmd(m.config.LightboxFade, m.lightbox.gen)
}

func (m *model) handleLightboxFade(msg lightboxFadeMsg) {
	if msg.gen != m.lightbox.gen || !m.lightbox.closing {
		return
	}
	m.lightbox.open = false
	m.lightbox.closing = false
}

func (m *model) lightboxView() string {
	item := m.lightbox.item
	width := m.layout.contentWidth()
	var b strings.Builder
	b.WriteString(m.theme.title.Render(item.Name))
	b.WriteString("  ")
	b.WriteString(priceStyle.Render(menu.FormatPrice(m.book.Profile.CurrencySymbol, item.Price)))
	b.WriteString("\n\n")
	b.WriteString("▣ ")
	b.WriteString(autolink(item.ImageURL, m.theme.link))
	if item.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(wordwrap.String(item.Description, width))
	}
	if item.AllergyInfo != "" {
		b.WriteString("\n\n")
		b.WriteString(allergyStyle.Render("⚠ " + item.AllergyInfo))
	}
	b.WriteString("\n\n")
	b.WriteString(helperStyle.Render("esc or click to close"))

	box := m.theme.lightboxBox.Width(width).Render(b.String())
	if m.lightbox.closing {
		box = lipgloss.NewStyle().Faint(true).Render(box)
	}
	return box
}
