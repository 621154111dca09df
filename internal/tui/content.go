package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/menubook/internal/menu"
)

// pageLines lays out the body of a page at the given content width.
func (m *model) pageLines(page menu.Page, width int) []pageLine {
	if width < 10 {
		width = 10
	}
	var lines []pageLine
	plain := func(text string) {
		for _, row := range strings.Split(wordwrap.String(text, width), "\n") {
			lines = append(lines, m.textLine(row, actionNone, -1))
		}
	}
	blank := func() { lines = append(lines, pageLine{}) }

	switch page.Kind {
	case menu.PageCover:
		if m.book.Profile.CoverImage != "" {
			lines = append(lines, pageLine{text: helperStyle.Render("▣ cover photo")})
		}
		if page.Body != "" {
			blank()
			plain(page.Body)
		}
		blank()
		lines = append(lines, pageLine{text: helperStyle.Render(m.book.Profile.TOCFooter + " →")})
	case menu.PageContents:
		for _, entry := range page.Contents {
			label := truncate.StringWithTail(entry.Label, uint(width-8), "…")
			pageNo := fmt.Sprintf("p.%d", entry.Page+1)
			fill := width - lipgloss.Width(label) - len(pageNo) - 2
			if fill < 1 {
				fill = 1
			}
			lines = append(lines, pageLine{
				text:   label + " " + helperStyle.Render(strings.Repeat("·", fill)) + " " + pageNo,
				action: actionJump,
				label:  entry.Label,
			})
		}
		if page.Footer != "" {
			blank()
			lines = append(lines, pageLine{text: helperStyle.Render(page.Footer)})
		}
	case menu.PageCategory:
		symbol := m.book.Profile.CurrencySymbol
		for i, item := range page.Items {
			if i > 0 {
				blank()
			}
			lines = append(lines, m.itemLines(i, item, symbol, width)...)
		}
	case menu.PageBack:
		if page.Body != "" {
			plain(page.Body)
		}
		for _, link := range page.Links {
			blank()
			lines = append(lines, pageLine{
				text:   m.theme.title.Render(link.Label+" →") + " " + m.theme.link.Render(link.URL),
				action: actionLink,
				url:    link.URL,
			})
		}
	case menu.PagePrinted:
		for _, row := range strings.Split(page.Body, "\n") {
			if strings.TrimSpace(row) == page.Title {
				continue
			}
			plain(row)
		}
	}
	return lines
}

func (m *model) itemLines(index int, item menu.Item, symbol string, width int) []pageLine {
	action := actionNone
	name := item.Name
	if item.ImageURL != "" {
		action = actionLightbox
		name += " ▣"
	}
	price := priceStyle.Render(menu.FormatPrice(symbol, item.Price))
	priceWidth := lipgloss.Width(price)
	if item.OnSale() {
		original := strikeStyle.Render(menu.FormatPrice(symbol, *item.OriginalPrice))
		price = original + " " + price
		priceWidth += lipgloss.Width(original) + 1
	}
	name = truncate.StringWithTail(name, uint(max(width-priceWidth-2, 4)), "…")
	gap := width - lipgloss.Width(name) - priceWidth
	if gap < 1 {
		gap = 1
	}
	row := func(text string) pageLine {
		return pageLine{text: text, action: action, item: index}
	}
	lines := []pageLine{row(m.theme.title.Render(name) + strings.Repeat(" ", gap) + price)}
	if item.Description != "" {
		for _, text := range strings.Split(wordwrap.String(item.Description, width-2), "\n") {
			lines = append(lines, m.textLine("  "+text, action, index))
		}
	}
	if item.AllergyInfo != "" {
		lines = append(lines, row("  "+allergyStyle.Render("⚠ "+item.AllergyInfo)))
	}
	if len(item.Labels) > 0 {
		var tags []string
		for _, label := range item.Labels {
			tags = append(tags, labelStyle.Render(label))
		}
		lines = append(lines, row("  "+strings.Join(tags, " ")))
	}
	return lines
}

// textLine renders a row of free text. A row holding a URL becomes a link
// row, so pressing it follows the first link instead of its fallback.
func (m *model) textLine(text string, fallback lineAction, item int) pageLine {
	line := pageLine{text: autolink(text, m.theme.link), action: fallback, item: item}
	if links := findLinks(text); len(links) > 0 {
		line.action = actionLink
		line.url = links[0]
	}
	return line
}
