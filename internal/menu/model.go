package menu

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultCategory        = "Other"
	defaultCurrencySymbol  = "$"
	defaultThemeColor      = "#2563EB"
	defaultRestaurantName  = "Our Menu"
	defaultTOCTitle        = "Table of Contents"
	defaultTOCFooter       = "Tap to browse menu"
	defaultLastPageTitle   = "Thank You for Visiting"
	defaultOrderDesc       = "Enjoy our food from the comfort of your home. We deliver straight to your door."
	defaultReservationDesc = "Planning a special dinner? Book a table with us and let us serve you."
)

// Item is one dish or drink on the menu.
type Item struct {
	ID            int64    `yaml:"id,omitempty"`
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category,omitempty"`
	Price         float64  `yaml:"price"`
	OriginalPrice *float64 `yaml:"original_price,omitempty"`
	Description   string   `yaml:"description,omitempty"`
	ImageURL      string   `yaml:"image_url,omitempty"`
	AllergyInfo   string   `yaml:"allergy_info,omitempty"`
	Labels        []string `yaml:"labels,omitempty"`
	Available     bool     `yaml:"available"`
}

// UnmarshalYAML treats a missing "available" key as available.
func (i *Item) UnmarshalYAML(value *yaml.Node) error {
	type plain Item
	decoded := plain{Available: true}
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*i = Item(decoded)
	return nil
}

// OnSale reports whether the item carries a higher struck-through price.
func (i Item) OnSale() bool {
	return i.OriginalPrice != nil && *i.OriginalPrice > i.Price
}

// Profile carries the restaurant-level settings that shape the book.
type Profile struct {
	Name            string   `yaml:"name"`
	PublicID        string   `yaml:"public_id,omitempty"`
	Slug            string   `yaml:"slug,omitempty"`
	CurrencySymbol  string   `yaml:"currency_symbol,omitempty"`
	ThemeColor      string   `yaml:"theme_color,omitempty"`
	BookThemeColor  string   `yaml:"book_theme_color,omitempty"`
	CoverImage      string   `yaml:"cover_image,omitempty"`
	LogoImage       string   `yaml:"logo_image,omitempty"`
	CategoryOrder   []string `yaml:"category_order,omitempty"`
	TOCTitle        string   `yaml:"toc_title,omitempty"`
	TOCFooter       string   `yaml:"toc_footer,omitempty"`
	LastPageTitle   string   `yaml:"last_page_title,omitempty"`
	OrderDesc       string   `yaml:"last_page_order_desc,omitempty"`
	ReservationDesc string   `yaml:"last_page_res_desc,omitempty"`
	DeliveryURL     string   `yaml:"delivery_url,omitempty"`
	BookingURL      string   `yaml:"booking_url,omitempty"`
	About           string   `yaml:"about,omitempty"`
}

// WithDefaults fills every blank display field.
func (p Profile) WithDefaults() Profile {
	fill := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}
	fill(&p.Name, defaultRestaurantName)
	fill(&p.CurrencySymbol, defaultCurrencySymbol)
	fill(&p.ThemeColor, defaultThemeColor)
	fill(&p.TOCTitle, defaultTOCTitle)
	fill(&p.TOCFooter, defaultTOCFooter)
	fill(&p.LastPageTitle, defaultLastPageTitle)
	fill(&p.OrderDesc, defaultOrderDesc)
	fill(&p.ReservationDesc, defaultReservationDesc)
	return p
}

// Accent is the color the book is drawn in: the book theme when set,
// otherwise the widget theme.
func (p Profile) Accent() string {
	if p.BookThemeColor != "" {
		return p.BookThemeColor
	}
	return p.ThemeColor
}

// Menu is a restaurant profile and its items.
type Menu struct {
	Profile Profile `yaml:"restaurant"`
	Items   []Item  `yaml:"items"`
}

// FormatPrice renders a price with the profile's currency symbol.
func FormatPrice(symbol string, price float64) string {
	if symbol == "" {
		symbol = defaultCurrencySymbol
	}
	return fmt.Sprintf("%s%.2f", symbol, price)
}

// parsePrice accepts both "12.50" and "12,50"; garbage reads as zero.
func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	raw = strings.TrimLeft(raw, "$€£¥₹ ")
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseOptionalPrice(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	value := parsePrice(raw)
	return &value
}

func splitLabels(raw string) []string {
	var labels []string
	for _, part := range strings.Split(raw, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func parseBool(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return fallback
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
