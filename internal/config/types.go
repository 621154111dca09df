package config

// Config is the menubook configuration, corresponding to menubook.yaml.
type Config struct {
	Source     string       `yaml:"source" koanf:"source"`
	Restaurant string       `yaml:"restaurant" koanf:"restaurant"`
	Timing     TimingConfig `yaml:"timing" koanf:"timing"`
	Theme      ThemeConfig  `yaml:"theme" koanf:"theme"`
	Bridge     BridgeConfig `yaml:"bridge" koanf:"bridge"`
	Watch      WatchConfig  `yaml:"watch" koanf:"watch"`
	LogFile    string       `yaml:"log_file" koanf:"log_file"`
}

// TimingConfig holds the page-flip timings in milliseconds.
type TimingConfig struct {
	DebounceMs     int `yaml:"debounce_ms" koanf:"debounce_ms"`
	AnimationMs    int `yaml:"animation_ms" koanf:"animation_ms"`
	SettleMs       int `yaml:"settle_ms" koanf:"settle_ms"`
	JumpStepMs     int `yaml:"jump_step_ms" koanf:"jump_step_ms"`
	LightboxFadeMs int `yaml:"lightbox_fade_ms" koanf:"lightbox_fade_ms"`
}

// ThemeConfig overrides the colors the menu carries.
type ThemeConfig struct {
	Accent string `yaml:"accent" koanf:"accent"`
}

// BridgeConfig controls the host-frame websocket bridge.
type BridgeConfig struct {
	Enabled        bool     `yaml:"enabled" koanf:"enabled"`
	Addr           string   `yaml:"addr" koanf:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// WatchConfig controls reloading when the source file changes.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled" koanf:"enabled"`
	DebounceMs int  `yaml:"debounce_ms" koanf:"debounce_ms"`
}
