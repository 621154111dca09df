package menu

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfWhitespace = regexp.MustCompile(`[ \t]+`)

// LoadPDF turns every page of a printed menu into one book page. The first
// non-blank line of a page is its heading.
func LoadPDF(path string) (*Book, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	book := &Book{Profile: Profile{Name: name}.WithDefaults()}

	total := reader.NumPage()
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= total; i++ {
		page := Page{Index: i - 1, Kind: PagePrinted}
		p := reader.Page(i)
		if !p.V.IsNull() {
			text, err := p.GetPlainText(fonts)
			if err != nil {
				return nil, fmt.Errorf("failed to extract pdf page %d: %w", i, err)
			}
			page.Body = cleanPDFText(text)
		}
		page.Title = firstLine(page.Body)
		if page.Title != "" {
			page.Headings = []string{page.Title}
		} else {
			page.Title = fmt.Sprintf("Page %d", i)
		}
		book.Pages = append(book.Pages, page)
	}
	return book, nil
}

func cleanPDFText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		kept = append(kept, strings.TrimSpace(pdfWhitespace.ReplaceAllString(line, " ")))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
