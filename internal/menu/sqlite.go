package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

const selectClient = `
SELECT c.id, c.public_id, c.restaurant_name,
	COALESCE(c.slug, ''), COALESCE(c.theme_color, ''), COALESCE(c.currency_symbol, ''),
	COALESCE(c.delivery_url, ''), COALESCE(c.booking_url, ''),
	COALESCE(k.about_us, ''), COALESCE(k.book_theme_color, ''), COALESCE(k.book_cover_image, ''),
	COALESCE(k.book_logo_image, ''), COALESCE(k.category_order, ''),
	COALESCE(k.toc_title, ''), COALESCE(k.toc_footer_text, ''), COALESCE(k.last_page_title, ''),
	COALESCE(k.last_page_order_desc, ''), COALESCE(k.last_page_res_desc, ''),
	COALESCE(k.reservation_url, '')
FROM clients c
LEFT JOIN knowledge_base k ON k.client_id = c.id
WHERE ? = '' OR c.public_id = ? OR c.slug = ?
ORDER BY c.id
LIMIT 1`

const selectItems = `
SELECT id, name, COALESCE(category, ''), COALESCE(price, 0), COALESCE(description, ''),
	COALESCE(image_url, ''), COALESCE(allergy_info, ''), COALESCE(is_available, 1)
FROM menu_items
WHERE client_id = ?
ORDER BY id`

// LoadSQLite reads one restaurant out of a dashboard database. An empty
// restaurant selects the first client.
func LoadSQLite(ctx context.Context, path, restaurant string) (Menu, error) {
	if _, err := os.Stat(path); err != nil {
		return Menu{}, fmt.Errorf("opening database %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Menu{}, fmt.Errorf("opening database %s: %w", path, err)
	}
	defer db.Close()

	restaurant = strings.TrimSpace(restaurant)
	var (
		clientID       int64
		categoryOrder  string
		reservationURL string
		p              Profile
	)
	err = db.QueryRowContext(ctx, selectClient, restaurant, restaurant, restaurant).Scan(
		&clientID, &p.PublicID, &p.Name,
		&p.Slug, &p.ThemeColor, &p.CurrencySymbol,
		&p.DeliveryURL, &p.BookingURL,
		&p.About, &p.BookThemeColor, &p.CoverImage,
		&p.LogoImage, &categoryOrder,
		&p.TOCTitle, &p.TOCFooter, &p.LastPageTitle,
		&p.OrderDesc, &p.ReservationDesc,
		&reservationURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		if restaurant == "" {
			return Menu{}, fmt.Errorf("%w: database holds no clients", ErrRestaurantNotFound)
		}
		return Menu{}, fmt.Errorf("%w: %q", ErrRestaurantNotFound, restaurant)
	}
	if err != nil {
		return Menu{}, fmt.Errorf("querying client: %w", err)
	}
	if p.BookingURL == "" {
		p.BookingURL = reservationURL
	}
	if categoryOrder != "" {
		if err := json.Unmarshal([]byte(categoryOrder), &p.CategoryOrder); err != nil {
			p.CategoryOrder = splitLabels(categoryOrder)
		}
	}

	rows, err := db.QueryContext(ctx, selectItems, clientID)
	if err != nil {
		return Menu{}, fmt.Errorf("querying menu items: %w", err)
	}
	defer rows.Close()

	m := Menu{Profile: p}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Description,
			&item.ImageURL, &item.AllergyInfo, &item.Available); err != nil {
			return Menu{}, fmt.Errorf("scanning menu item: %w", err)
		}
		m.Items = append(m.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Menu{}, fmt.Errorf("reading menu items: %w", err)
	}
	return m, nil
}
