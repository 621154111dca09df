package menu

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	workbookMenuSheet    = "Menu"
	workbookProfileSheet = "Profile"
)

var workbookColumns = []string{
	"name", "category", "price", "original_price", "description",
	"image_url", "allergy_info", "labels", "available",
}

// LoadWorkbook reads a spreadsheet menu. Items come from the "Menu" sheet
// (or the first sheet), keyed by its header row; an optional "Profile"
// sheet holds key/value rows.
func LoadWorkbook(path string) (Menu, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Menu{}, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Menu{}, nil
	}
	itemSheet := findSheet(sheets, workbookMenuSheet)
	if itemSheet == "" {
		itemSheet = sheets[0]
	}
	rows, err := f.GetRows(itemSheet)
	if err != nil {
		return Menu{}, fmt.Errorf("reading sheet %s: %w", itemSheet, err)
	}
	m := Menu{Items: itemsFromRows(rows)}

	if profileSheet := findSheet(sheets, workbookProfileSheet); profileSheet != "" && profileSheet != itemSheet {
		rows, err := f.GetRows(profileSheet)
		if err != nil {
			return Menu{}, fmt.Errorf("reading sheet %s: %w", profileSheet, err)
		}
		m.Profile = profileFromRows(rows)
	}
	return m, nil
}

// SaveWorkbook writes the menu in the layout LoadWorkbook reads.
func SaveWorkbook(path string, m Menu) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", workbookMenuSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(workbookMenuSheet)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(workbookColumns))
	for i, column := range workbookColumns {
		header[i] = column
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, item := range m.Items {
		original := ""
		if item.OriginalPrice != nil {
			original = strconv.FormatFloat(*item.OriginalPrice, 'f', -1, 64)
		}
		row := []interface{}{
			item.Name, item.Category, item.Price, original, item.Description,
			item.ImageURL, item.AllergyInfo, strings.Join(item.Labels, ", "), strconv.FormatBool(item.Available),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if _, err := f.NewSheet(workbookProfileSheet); err != nil {
		return err
	}
	for i, pair := range profilePairs(m.Profile) {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(workbookProfileSheet, keyCell, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(workbookProfileSheet, valueCell, pair[1]); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func findSheet(sheets []string, name string) string {
	for _, sheet := range sheets {
		if strings.EqualFold(strings.TrimSpace(sheet), name) {
			return sheet
		}
	}
	return ""
}

func itemsFromRows(rows [][]string) []Item {
	if len(rows) < 2 {
		return nil
	}
	index := map[string]int{}
	for i, cell := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	get := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	items := make([]Item, 0, len(rows)-1)
	for n, row := range rows[1:] {
		name := get(row, "name")
		if name == "" {
			continue
		}
		items = append(items, Item{
			ID:            int64(n + 1),
			Name:          name,
			Category:      get(row, "category"),
			Price:         parsePrice(get(row, "price")),
			OriginalPrice: parseOptionalPrice(get(row, "original_price")),
			Description:   get(row, "description"),
			ImageURL:      get(row, "image_url"),
			AllergyInfo:   get(row, "allergy_info"),
			Labels:        splitLabels(get(row, "labels")),
			Available:     parseBool(get(row, "available"), true),
		})
	}
	return items
}

func profileFromRows(rows [][]string) Profile {
	values := map[string]string{}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		values[strings.ToLower(strings.TrimSpace(row[0]))] = strings.TrimSpace(row[1])
	}
	return Profile{
		Name:            values["name"],
		PublicID:        values["public_id"],
		Slug:            values["slug"],
		CurrencySymbol:  values["currency_symbol"],
		ThemeColor:      values["theme_color"],
		BookThemeColor:  values["book_theme_color"],
		CoverImage:      values["cover_image"],
		LogoImage:       values["logo_image"],
		CategoryOrder:   splitLabels(values["category_order"]),
		TOCTitle:        values["toc_title"],
		TOCFooter:       values["toc_footer"],
		LastPageTitle:   values["last_page_title"],
		OrderDesc:       values["last_page_order_desc"],
		ReservationDesc: values["last_page_res_desc"],
		DeliveryURL:     values["delivery_url"],
		BookingURL:      values["booking_url"],
		About:           values["about"],
	}
}

func profilePairs(p Profile) [][2]string {
	pairs := [][2]string{
		{"name", p.Name},
		{"public_id", p.PublicID},
		{"slug", p.Slug},
		{"currency_symbol", p.CurrencySymbol},
		{"theme_color", p.ThemeColor},
		{"book_theme_color", p.BookThemeColor},
		{"cover_image", p.CoverImage},
		{"logo_image", p.LogoImage},
		{"category_order", strings.Join(p.CategoryOrder, ", ")},
		{"toc_title", p.TOCTitle},
		{"toc_footer", p.TOCFooter},
		{"last_page_title", p.LastPageTitle},
		{"last_page_order_desc", p.OrderDesc},
		{"last_page_res_desc", p.ReservationDesc},
		{"delivery_url", p.DeliveryURL},
		{"booking_url", p.BookingURL},
		{"about", p.About},
	}
	filtered := pairs[:0]
	for _, pair := range pairs {
		if pair[1] != "" {
			filtered = append(filtered, pair)
		}
	}
	return filtered
}
