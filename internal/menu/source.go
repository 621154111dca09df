package menu

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedSource is returned for a file type no loader understands.
	ErrUnsupportedSource = errors.New("menu: unsupported source")
	// ErrRestaurantNotFound is returned when a database holds no matching client.
	ErrRestaurantNotFound = errors.New("menu: restaurant not found")
)

// Source points at menu data on disk or at an http(s) URL. Restaurant
// selects a client by public id or slug when the file holds more than one.
type Source struct {
	Path       string
	Restaurant string
}

// Remote reports whether the source is fetched over HTTP.
func (s Source) Remote() bool {
	lower := strings.ToLower(s.Path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Ext returns the lower-cased file extension. For URLs only the path
// counts.
func (s Source) Ext() string {
	if s.Remote() {
		if u, err := url.Parse(s.Path); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(s.Path))
}

var loaders = map[string]bool{
	".yaml": true, ".yml": true, ".json": true,
	".xlsx": true,
	".html": true, ".htm": true,
	".db": true, ".sqlite": true, ".sqlite3": true,
	".pdf": true,
}

// resolve swaps a remote source for its cached local copy.
func resolve(ctx context.Context, src Source) (Source, error) {
	if strings.TrimSpace(src.Path) == "" {
		return src, fmt.Errorf("%w: no path given", ErrUnsupportedSource)
	}
	if !src.Remote() {
		return src, nil
	}
	// Without an extension the response media type decides.
	if ext := src.Ext(); ext != "" && !loaders[ext] {
		return src, fmt.Errorf("%w: %q", ErrUnsupportedSource, src.Path)
	}
	cache, err := NewCache(nil)
	if err != nil {
		return src, err
	}
	local, err := cache.Fetch(ctx, src)
	if err != nil {
		return src, fmt.Errorf("fetching %s: %w", src.Path, err)
	}
	return local, nil
}

// Structured reports whether the source yields items rather than printed pages.
func (s Source) Structured() bool {
	return s.Ext() != ".pdf"
}

// Open loads the source and composes its book.
func Open(ctx context.Context, src Source) (*Book, error) {
	src, err := resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	if !src.Structured() {
		return LoadPDF(src.Path)
	}
	m, err := loadMenu(ctx, src)
	if err != nil {
		return nil, err
	}
	return Compose(m), nil
}

// LoadMenu reads items and profile from a structured source.
func LoadMenu(ctx context.Context, src Source) (Menu, error) {
	src, err := resolve(ctx, src)
	if err != nil {
		return Menu{}, err
	}
	return loadMenu(ctx, src)
}

func loadMenu(ctx context.Context, src Source) (Menu, error) {
	switch src.Ext() {
	case ".yaml", ".yml", ".json":
		return LoadDocument(src.Path)
	case ".xlsx":
		return LoadWorkbook(src.Path)
	case ".html", ".htm":
		return LoadHTML(src.Path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, src.Path, src.Restaurant)
	default:
		return Menu{}, fmt.Errorf("%w: %q", ErrUnsupportedSource, src.Path)
	}
}
