package menu

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const yamlMenu = `
restaurant:
  name: Harbour Cafe
  currency_symbol: "£"
  category_order: [Mains, Drinks]
items:
  - name: Fish Pie
    category: Mains
    price: 14.5
  - name: Lemonade
    category: Drinks
    price: 3
  - name: Old Special
    category: Mains
    price: 9
    available: false
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func sectionLabels(book *Book) []string {
	var labels []string
	for _, s := range book.Sections() {
		labels = append(labels, s.Label)
	}
	return labels
}

func TestParseDocumentDefaultsAvailable(t *testing.T) {
	t.Parallel()

	m, err := ParseDocument(strings.NewReader(yamlMenu))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if len(m.Items) != 3 {
		t.Fatalf("expected three items, got %d", len(m.Items))
	}
	if !m.Items[0].Available || m.Items[2].Available {
		t.Fatalf("unexpected availability: %#v", m.Items)
	}
	if m.Profile.CurrencySymbol != "£" {
		t.Fatalf("expected currency symbol, got %q", m.Profile.CurrencySymbol)
	}

	empty, err := ParseDocument(strings.NewReader(""))
	if err != nil || len(empty.Items) != 0 {
		t.Fatalf("expected empty document to parse as empty menu, got %#v, %v", empty, err)
	}
}

func TestOpenYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "menu.yaml", yamlMenu)
	book, err := Open(context.Background(), Source{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if book.Len() != 5 {
		t.Fatalf("expected cover, contents, two categories and back page, got %d", book.Len())
	}
	if got := sectionLabels(book); !reflect.DeepEqual(got, []string{"Mains", "Drinks"}) {
		t.Fatalf("sections = %v", got)
	}
}

func TestDocumentSaveLoadKeepsUnavailable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "menu.yaml")
	in := sampleMenu()
	if err := SaveDocument(path, in); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	out, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if len(out.Items) != len(in.Items) || out.Items[4].Available {
		t.Fatalf("expected unavailable soup to survive, got %#v", out.Items)
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "menu.xlsx")
	in := sampleMenu()
	if err := SaveWorkbook(path, in); err != nil {
		t.Fatalf("SaveWorkbook() error = %v", err)
	}
	out, err := LoadWorkbook(path)
	if err != nil {
		t.Fatalf("LoadWorkbook() error = %v", err)
	}
	if out.Profile.Name != "Jesse's" || !reflect.DeepEqual(out.Profile.CategoryOrder, in.Profile.CategoryOrder) {
		t.Fatalf("unexpected profile %#v", out.Profile)
	}
	if len(out.Items) != len(in.Items) {
		t.Fatalf("expected %d items, got %d", len(in.Items), len(out.Items))
	}
	pie := out.Items[2]
	if pie.Name != "apple pie" || pie.Price != 6 || pie.OriginalPrice == nil || *pie.OriginalPrice != 9 {
		t.Fatalf("unexpected sale item %#v", pie)
	}
	if out.Items[4].Available {
		t.Fatalf("expected soup to stay unavailable")
	}

	want := sectionLabels(Compose(in))
	if got := sectionLabels(Compose(out)); !reflect.DeepEqual(got, want) {
		t.Fatalf("workbook sections = %v, want %v", got, want)
	}
}

const htmlMenu = `<!doctype html>
<html><head><title>Harbour Cafe | Menu</title></head>
<body>
<h1>Harbour Cafe</h1>
<section class="menu-category-section">
  <h2>Mains</h2>
  <div class="menu-item">
    <h3 class="item-name">Fish Pie</h3>
    <span class="item-price">£14.50</span>
    <span class="item-original-price">£16.00</span>
    <p class="item-description">Smoked haddock, mash.</p>
    <img src="https://img.example.com/pie.jpg">
    <span class="item-label">Chef's pick</span>
  </div>
  <div class="menu-item unavailable">
    <h3 class="item-name">Old Special</h3>
    <span class="item-price">£9</span>
  </div>
</section>
<section class="menu-category-section">
  <h2>Drinks</h2>
  <div class="menu-item"><h3>Lemonade</h3><span class="item-price">3,00</span></div>
</section>
</body></html>`

func TestParseHTML(t *testing.T) {
	t.Parallel()

	m, err := ParseHTML(strings.NewReader(htmlMenu))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	if m.Profile.Name != "Harbour Cafe" {
		t.Fatalf("expected restaurant name from h1, got %q", m.Profile.Name)
	}
	if len(m.Items) != 3 {
		t.Fatalf("expected three cards, got %#v", m.Items)
	}
	pie := m.Items[0]
	if pie.Category != "Mains" || pie.Price != 14.5 || !pie.OnSale() || pie.ImageURL == "" || len(pie.Labels) != 1 {
		t.Fatalf("unexpected first card %#v", pie)
	}
	if m.Items[1].Available {
		t.Fatalf("expected unavailable card to be marked")
	}
	if m.Items[2].Name != "Lemonade" || m.Items[2].Price != 3 {
		t.Fatalf("unexpected drink card %#v", m.Items[2])
	}

	path := writeFile(t, "menu.html", htmlMenu)
	book, err := Open(context.Background(), Source{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := sectionLabels(book); !reflect.DeepEqual(got, []string{"Mains", "Drinks"}) {
		t.Fatalf("sections = %v", got)
	}
}

const testSchema = `
CREATE TABLE clients (
	id INTEGER PRIMARY KEY,
	public_id TEXT NOT NULL,
	restaurant_name TEXT NOT NULL,
	slug TEXT,
	theme_color TEXT,
	currency_symbol TEXT,
	delivery_url TEXT,
	booking_url TEXT
);
CREATE TABLE knowledge_base (
	id INTEGER PRIMARY KEY,
	client_id INTEGER NOT NULL,
	about_us TEXT,
	reservation_url TEXT,
	book_theme_color TEXT,
	book_cover_image TEXT,
	book_logo_image TEXT,
	category_order TEXT,
	last_page_title TEXT,
	last_page_order_desc TEXT,
	last_page_res_desc TEXT,
	toc_title TEXT,
	toc_footer_text TEXT
);
CREATE TABLE menu_items (
	id INTEGER PRIMARY KEY,
	client_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	category TEXT,
	price REAL,
	description TEXT,
	is_available INTEGER,
	image_url TEXT,
	allergy_info TEXT
);
INSERT INTO clients (id, public_id, restaurant_name, slug, currency_symbol) VALUES
	(1, 'aaa-111', 'First Diner', 'first-diner', '$'),
	(2, 'bbb-222', 'Harbour Cafe', 'harbour-cafe', '£');
INSERT INTO knowledge_base (client_id, category_order, toc_title, reservation_url, book_theme_color) VALUES
	(2, '["Drinks", "Mains"]', 'Contents', 'https://book.example.com', '#8B4513');
INSERT INTO menu_items (client_id, name, category, price, is_available) VALUES
	(1, 'Pancakes', 'Breakfast', 6, 1),
	(2, 'Fish Pie', 'Mains', 14.5, 1),
	(2, 'Lemonade', 'Drinks', 3, 1),
	(2, 'Old Special', 'Mains', 9, 0),
	(2, 'Bread', NULL, 1, NULL);
`

func seedDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("seeding schema: %v", err)
	}
	return path
}

func TestLoadSQLite(t *testing.T) {
	t.Parallel()

	path := seedDatabase(t)
	ctx := context.Background()

	m, err := LoadSQLite(ctx, path, "harbour-cafe")
	if err != nil {
		t.Fatalf("LoadSQLite() error = %v", err)
	}
	if m.Profile.Name != "Harbour Cafe" || m.Profile.BookingURL != "https://book.example.com" || m.Profile.Accent() != "#8B4513" {
		t.Fatalf("unexpected profile %#v", m.Profile)
	}
	if len(m.Items) != 4 || m.Items[2].Available || !m.Items[3].Available {
		t.Fatalf("unexpected items %#v", m.Items)
	}

	book := Compose(m)
	if got := sectionLabels(book); !reflect.DeepEqual(got, []string{"Drinks", "Mains", "Other"}) {
		t.Fatalf("sections = %v", got)
	}
	if book.Pages[1].Title != "Contents" {
		t.Fatalf("expected saved contents title, got %q", book.Pages[1].Title)
	}

	first, err := LoadSQLite(ctx, path, "")
	if err != nil || first.Profile.Name != "First Diner" {
		t.Fatalf("expected first client by default, got %#v, %v", first.Profile, err)
	}
	byID, err := LoadSQLite(ctx, path, "bbb-222")
	if err != nil || byID.Profile.Slug != "harbour-cafe" {
		t.Fatalf("expected lookup by public id, got %#v, %v", byID.Profile, err)
	}

	if _, err := LoadSQLite(ctx, path, "nobody"); !errors.Is(err, ErrRestaurantNotFound) {
		t.Fatalf("expected ErrRestaurantNotFound, got %v", err)
	}
}

func TestOpenRejectsUnknownSources(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "menu.txt", "hello")
	if _, err := Open(context.Background(), Source{Path: path}); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource, got %v", err)
	}
	if _, err := Open(context.Background(), Source{}); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource for empty path, got %v", err)
	}
	if (Source{Path: "Menu.PDF"}).Structured() {
		t.Fatalf("expected pdf source to be unstructured")
	}
}

func TestCleanPDFText(t *testing.T) {
	t.Parallel()

	text := cleanPDFText("\r\n   \r\n  Starters   and\tSoups \r\nTomato   soup  4.50\r\n")
	if text != "Starters and Soups\nTomato soup 4.50" {
		t.Fatalf("cleanPDFText() = %q", text)
	}
	if firstLine("\n\n  Desserts\nCake") != "Desserts" {
		t.Fatalf("expected first non-blank line")
	}
}
