package config

import "github.com/csheth/menubook/internal/flipbook"

const (
	DefaultPath           = "menubook.yaml"
	DefaultBridgeAddr     = "127.0.0.1:8765"
	DefaultLightboxFadeMs = 300
	DefaultWatchDebounce  = 250
)

// DefaultConfig returns a Config with the stock flip timings.
func DefaultConfig() *Config {
	return &Config{
		Timing: TimingConfig{
			DebounceMs:     int(flipbook.DefaultDebounce.Milliseconds()),
			AnimationMs:    int(flipbook.DefaultAnimation.Milliseconds()),
			SettleMs:       int(flipbook.DefaultSettle.Milliseconds()),
			JumpStepMs:     int(flipbook.DefaultJumpStep.Milliseconds()),
			LightboxFadeMs: DefaultLightboxFadeMs,
		},
		Bridge: BridgeConfig{
			Addr:           DefaultBridgeAddr,
			AllowedOrigins: []string{"*"},
		},
		Watch: WatchConfig{
			DebounceMs: DefaultWatchDebounce,
		},
	}
}
