package menu

import (
	"sort"
	"strings"
)

// PageKind names the layout a page is drawn with.
type PageKind string

const (
	PageCover    PageKind = "cover"
	PageContents PageKind = "contents"
	PageCategory PageKind = "category"
	PageBack     PageKind = "back"
	PagePrinted  PageKind = "printed"
)

// ContentsEntry is one line of the table of contents.
type ContentsEntry struct {
	Label string
	Page  int
}

// Link is an outbound call to action on the back page.
type Link struct {
	Label string
	URL   string
}

// Page is one sheet of the book. Headings are what section lookup scans.
type Page struct {
	Index    int
	Kind     PageKind
	Title    string
	Headings []string
	Items    []Item
	Contents []ContentsEntry
	Body     string
	Footer   string
	Links    []Link
}

// Book is the fixed page sequence mounted under the flip engine.
type Book struct {
	Profile Profile
	Pages   []Page
}

// Len returns the page count.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Pages)
}

// Empty reports whether there is nothing to page through.
func (b *Book) Empty() bool {
	return b.Len() == 0
}

// FindSection returns the first page carrying a heading equal to label.
// The pages are scanned on every call.
func (b *Book) FindSection(label string) (int, bool) {
	if b == nil {
		return 0, false
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, false
	}
	for _, page := range b.Pages {
		for _, heading := range page.Headings {
			if strings.TrimSpace(heading) == label {
				return page.Index, true
			}
		}
	}
	return 0, false
}

// Sections lists the navigable category sections in page order.
func (b *Book) Sections() []ContentsEntry {
	if b == nil {
		return nil
	}
	var entries []ContentsEntry
	for _, page := range b.Pages {
		if page.Kind != PageCategory && page.Kind != PagePrinted {
			continue
		}
		if len(page.Headings) == 0 {
			continue
		}
		entries = append(entries, ContentsEntry{Label: page.Headings[0], Page: page.Index})
	}
	return entries
}

// Group keeps available items and buckets them by category, in source
// order. Items without a category land in "Other".
func Group(items []Item) map[string][]Item {
	groups := map[string][]Item{}
	for _, item := range items {
		if !item.Available {
			continue
		}
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = defaultCategory
		}
		item.Category = category
		groups[category] = append(groups[category], item)
	}
	return groups
}

// OrderCategories puts the saved order first, skipping categories with no
// items, then appends the rest alphabetically.
func OrderCategories(groups map[string][]Item, order []string) []string {
	seen := map[string]bool{}
	ordered := make([]string, 0, len(groups))
	for _, category := range order {
		category = strings.TrimSpace(category)
		if _, ok := groups[category]; !ok || seen[category] {
			continue
		}
		seen[category] = true
		ordered = append(ordered, category)
	}
	var remaining []string
	for category := range groups {
		if !seen[category] {
			remaining = append(remaining, category)
		}
	}
	sort.Strings(remaining)
	return append(ordered, remaining...)
}

// Compose lays the menu out as cover, contents, one page per category and
// a back page. A menu without available items composes an empty book.
func Compose(m Menu) *Book {
	profile := m.Profile.WithDefaults()
	book := &Book{Profile: profile}
	groups := Group(m.Items)
	if len(groups) == 0 {
		return book
	}
	categories := OrderCategories(groups, profile.CategoryOrder)

	const firstCategoryPage = 2
	contents := make([]ContentsEntry, len(categories))
	for i, category := range categories {
		contents[i] = ContentsEntry{Label: category, Page: firstCategoryPage + i}
	}

	book.Pages = append(book.Pages,
		Page{
			Kind:  PageCover,
			Title: profile.Name,
			Body:  profile.About,
		},
		Page{
			Kind:     PageContents,
			Title:    profile.TOCTitle,
			Headings: []string{profile.TOCTitle},
			Contents: contents,
			Footer:   profile.TOCFooter,
		},
	)
	for _, category := range categories {
		book.Pages = append(book.Pages, Page{
			Kind:     PageCategory,
			Title:    category,
			Headings: []string{category},
			Items:    groups[category],
		})
	}
	back := Page{
		Kind:     PageBack,
		Title:    profile.LastPageTitle,
		Headings: []string{profile.LastPageTitle},
	}
	var blurbs []string
	if profile.DeliveryURL != "" {
		blurbs = append(blurbs, profile.OrderDesc)
		back.Links = append(back.Links, Link{Label: "Order Online", URL: profile.DeliveryURL})
	}
	if profile.BookingURL != "" {
		blurbs = append(blurbs, profile.ReservationDesc)
		back.Links = append(back.Links, Link{Label: "Book a Table", URL: profile.BookingURL})
	}
	back.Body = strings.Join(blurbs, "\n\n")
	book.Pages = append(book.Pages, back)

	for i := range book.Pages {
		book.Pages[i].Index = i
	}
	return book
}
