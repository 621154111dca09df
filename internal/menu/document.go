package menu

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDocument reads a YAML (or JSON) menu document.
func LoadDocument(path string) (Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Menu{}, fmt.Errorf("reading menu %s: %w", path, err)
	}
	m, err := ParseDocument(bytes.NewReader(data))
	if err != nil {
		return Menu{}, fmt.Errorf("parsing menu %s: %w", path, err)
	}
	return m, nil
}

// ParseDocument decodes a menu document. An empty document is an empty menu.
func ParseDocument(r io.Reader) (Menu, error) {
	var m Menu
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if err == io.EOF {
			return Menu{}, nil
		}
		return Menu{}, err
	}
	return m, nil
}

// SaveDocument writes the menu as YAML.
func SaveDocument(path string, m Menu) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshalling menu: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
