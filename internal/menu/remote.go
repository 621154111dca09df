package menu

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar  = "MENUBOOK_CACHE_DIR"
	cacheSubdir  = "menubook/sources"
	cacheTTL     = 5 * time.Minute
	fetchTimeout = 60 * time.Second
	entryFile    = "source.json"
)

// mediaTypes picks the loader for URLs whose path has no extension, such as
// https://cafe.example.com/menu.
var mediaTypes = map[string]string{
	"application/yaml":   ".yaml",
	"application/x-yaml": ".yaml",
	"text/yaml":          ".yaml",
	"text/x-yaml":        ".yaml",
	"application/json":   ".json",
	"text/html":          ".html",
	"application/pdf":    ".pdf",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/vnd.sqlite3": ".sqlite",
	"application/x-sqlite3":   ".sqlite",
}

// Cache keeps local copies of menus published over HTTP, one directory per
// URL. A copy fetched within the TTL is used as is. Older copies are
// revalidated, and kept when the publisher cannot be reached.
type Cache struct {
	dir    string
	client *http.Client
	now    func() time.Time
}

// cacheEntry records what was fetched for one URL and which loader reads it.
type cacheEntry struct {
	URL          string    `json:"url"`
	Ext          string    `json:"ext"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"lastModified,omitempty"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

func (e cacheEntry) file(dir string) string {
	return filepath.Join(dir, "menu"+e.Ext)
}

// usable reports whether the entry points at a copy still on disk.
func (e cacheEntry) usable(dir string) bool {
	if e.Ext == "" {
		return false
	}
	info, err := os.Stat(e.file(dir))
	return err == nil && info.Size() > 0
}

// NewCache opens the cache directory, MENUBOOK_CACHE_DIR or the user cache
// dir. A nil client gets a default with a timeout.
func NewCache(client *http.Client) (*Cache, error) {
	dir := os.Getenv(cacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "menubook-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Cache{dir: dir, client: client, now: time.Now}, nil
}

// Fetch returns src pointing at the local copy of its URL. The copy is named
// after the loader that reads it, so Open dispatches on it like any file.
func (c *Cache) Fetch(ctx context.Context, src Source) (Source, error) {
	dir := filepath.Join(c.dir, cacheKey(src.Path))
	entry, err := readEntry(dir)
	if err != nil || entry.URL != src.Path {
		entry = cacheEntry{}
	}
	local := func(e cacheEntry) Source {
		return Source{Path: e.file(dir), Restaurant: src.Restaurant}
	}

	if entry.usable(dir) && c.now().Sub(entry.FetchedAt) < cacheTTL {
		return local(entry), nil
	}
	next, err := c.refresh(ctx, src.Path, dir, entry)
	if err != nil {
		if entry.usable(dir) {
			return local(entry), nil
		}
		return Source{}, err
	}
	return local(next), nil
}

func (c *Cache) refresh(ctx context.Context, rawURL, dir string, entry cacheEntry) (cacheEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return entry, err
	}
	cached := entry.usable(dir)
	if cached {
		if entry.ETag != "" {
			req.Header.Set("If-None-Match", entry.ETag)
		}
		if entry.LastModified != "" {
			req.Header.Set("If-Modified-Since", entry.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return entry, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && cached:
		entry.FetchedAt = c.now().UTC()
		return entry, writeEntry(dir, entry)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return entry, fmt.Errorf("menu download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	ext, err := sourceExt(rawURL, resp.Header.Get("Content-Type"))
	if err != nil {
		return entry, err
	}
	next := cacheEntry{
		URL:          rawURL,
		Ext:          ext,
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		FetchedAt:    c.now().UTC(),
	}
	if err := storeBody(dir, next.file(dir), resp.Body); err != nil {
		return entry, err
	}
	if entry.Ext != "" && entry.Ext != ext {
		_ = os.Remove(entry.file(dir))
	}
	return next, writeEntry(dir, next)
}

// sourceExt names the loader for a downloaded menu: the URL's own extension
// when it has one, else the response media type.
func sourceExt(rawURL, contentType string) (string, error) {
	if ext := (Source{Path: rawURL}).Ext(); ext != "" {
		return ext, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		if ext, ok := mediaTypes[mediaType]; ok {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %s served as %q", ErrUnsupportedSource, rawURL, contentType)
}

// storeBody writes the body next to its final name and renames it into place,
// so a broken download never replaces a good copy.
func storeBody(dir, dest string, body io.Reader) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "download-*")
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func cacheKey(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

func readEntry(dir string) (cacheEntry, error) {
	data, err := os.ReadFile(filepath.Join(dir, entryFile))
	if err != nil {
		return cacheEntry{}, err
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return cacheEntry{}, err
	}
	return entry, nil
}

func writeEntry(dir string, entry cacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, entryFile), data, 0o644)
}
