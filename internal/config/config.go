package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/csheth/menubook/internal/flipbook"
)

const envPrefix = "MENUBOOK_"

// sections are the nested config blocks; env keys that start with one of
// them get a "." after the section name.
var sections = []string{"timing", "theme", "bridge", "watch"}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MENUBOOK_*). A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// MENUBOOK_TIMING_DEBOUNCE_MS -> timing.debounce_ms
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	t := c.Timing
	if t.DebounceMs < 0 || t.AnimationMs < 0 || t.SettleMs < 0 || t.JumpStepMs < 0 || t.LightboxFadeMs < 0 {
		return fmt.Errorf("timing values must be non-negative")
	}
	if err := c.FlipTiming().Validate(); err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}
	if c.Bridge.Enabled && strings.TrimSpace(c.Bridge.Addr) == "" {
		return fmt.Errorf("bridge.addr is required when the bridge is enabled")
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must be non-negative")
	}
	return nil
}

// FlipTiming converts the millisecond settings for the flip engine.
// Debounce and settle may be zero, which turns them off. Animation and jump
// step must run, so zero there means the stock timing.
func (c *Config) FlipTiming() flipbook.Timing {
	def := flipbook.DefaultTiming()
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	orDefault := func(n int, fallback time.Duration) time.Duration {
		if n == 0 {
			return fallback
		}
		return ms(n)
	}
	return flipbook.Timing{
		Debounce:  ms(c.Timing.DebounceMs),
		Animation: orDefault(c.Timing.AnimationMs, def.Animation),
		Settle:    ms(c.Timing.SettleMs),
		JumpStep:  orDefault(c.Timing.JumpStepMs, def.JumpStep),
	}
}

// LightboxFade is how long the lightbox takes to close.
func (c *Config) LightboxFade() time.Duration {
	if c.Timing.LightboxFadeMs <= 0 {
		return DefaultLightboxFadeMs * time.Millisecond
	}
	return time.Duration(c.Timing.LightboxFadeMs) * time.Millisecond
}

// WatchDebounce is the quiet period before a changed source is reloaded.
func (c *Config) WatchDebounce() time.Duration {
	if c.Watch.DebounceMs <= 0 {
		return DefaultWatchDebounce * time.Millisecond
	}
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}
