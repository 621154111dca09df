package menu

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LoadHTML scrapes a rendered menu page.
func LoadHTML(path string) (Menu, error) {
	f, err := os.Open(path)
	if err != nil {
		return Menu{}, fmt.Errorf("opening menu page %s: %w", path, err)
	}
	defer f.Close()
	m, err := ParseHTML(f)
	if err != nil {
		return Menu{}, fmt.Errorf("parsing menu page %s: %w", path, err)
	}
	return m, nil
}

// ParseHTML reads category sections (section.menu-category-section with an
// h2 heading) and their .menu-item cards. The page title names the
// restaurant unless an h1 does.
func ParseHTML(r io.Reader) (Menu, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Menu{}, err
	}

	var m Menu
	m.Profile.Name = firstText(doc.Find("h1").First(), doc.Find("title").First())

	var id int64
	doc.Find("section.menu-category-section").Each(func(_ int, section *goquery.Selection) {
		category := strings.TrimSpace(section.Find("h2").First().Text())
		if category != "" {
			m.Profile.CategoryOrder = append(m.Profile.CategoryOrder, category)
		}
		section.Find(".menu-item").Each(func(_ int, card *goquery.Selection) {
			name := firstText(card.Find(".item-name").First(), card.Find("h3").First())
			if name == "" {
				return
			}
			id++
			item := Item{
				ID:          id,
				Name:        name,
				Category:    category,
				Price:       parsePrice(card.Find(".item-price").First().Text()),
				Description: strings.TrimSpace(card.Find(".item-description").First().Text()),
				AllergyInfo: strings.TrimSpace(card.Find(".item-allergy").First().Text()),
				Available:   !card.HasClass("unavailable"),
			}
			if original := strings.TrimSpace(card.Find(".item-original-price").First().Text()); original != "" {
				item.OriginalPrice = parseOptionalPrice(original)
			}
			if src, ok := card.Find("img").First().Attr("src"); ok {
				item.ImageURL = strings.TrimSpace(src)
			}
			card.Find(".item-label").Each(func(_ int, label *goquery.Selection) {
				if text := strings.TrimSpace(label.Text()); text != "" {
					item.Labels = append(item.Labels, text)
				}
			})
			m.Items = append(m.Items, item)
		})
	})
	return m, nil
}

func firstText(selections ...*goquery.Selection) string {
	for _, s := range selections {
		if text := strings.TrimSpace(s.Text()); text != "" {
			return text
		}
	}
	return ""
}
