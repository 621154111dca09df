package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

const trailingPunctuation = ".,;!"

// findLinks returns the URLs in text with one trailing punctuation mark
// removed.
func findLinks(text string) []string {
	var links []string
	for _, raw := range urlPattern.FindAllString(text, -1) {
		links = append(links, cleanLink(raw))
	}
	return links
}

func cleanLink(raw string) string {
	if raw != "" && strings.ContainsRune(trailingPunctuation, rune(raw[len(raw)-1])) {
		return raw[:len(raw)-1]
	}
	return raw
}

// autolink styles every URL in text. Punctuation stripped from a link is
// kept as plain text after it.
func autolink(text string, style lipgloss.Style) string {
	return urlPattern.ReplaceAllStringFunc(text, func(raw string) string {
		link := cleanLink(raw)
		return style.Render(link) + raw[len(link):]
	})
}
