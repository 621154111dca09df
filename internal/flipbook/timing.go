package flipbook

import (
	"errors"
	"time"
)

const (
	DefaultDebounce  = 1000 * time.Millisecond
	DefaultAnimation = 800 * time.Millisecond
	DefaultSettle    = 10 * time.Millisecond
	DefaultJumpStep  = 150 * time.Millisecond
)

// Timing holds the wall-clock intervals of the flip pipeline. Debounce is
// measured between the starts of two single-step flips and is independent
// of Animation.
type Timing struct {
	Debounce  time.Duration
	Animation time.Duration
	Settle    time.Duration
	JumpStep  time.Duration
}

// DefaultTiming returns the stock intervals.
func DefaultTiming() Timing {
	return Timing{
		Debounce:  DefaultDebounce,
		Animation: DefaultAnimation,
		Settle:    DefaultSettle,
		JumpStep:  DefaultJumpStep,
	}
}

// Validate checks that every interval is usable. A jump step must be
// shorter than a full flip animation.
func (t Timing) Validate() error {
	if t.Debounce < 0 {
		return errors.New("debounce must be non-negative")
	}
	if t.Animation <= 0 {
		return errors.New("animation must be positive")
	}
	if t.Settle < 0 {
		return errors.New("settle must be non-negative")
	}
	if t.JumpStep <= 0 {
		return errors.New("jump step must be positive")
	}
	if t.JumpStep >= t.Animation {
		return errors.New("jump step must be shorter than the flip animation")
	}
	return nil
}
