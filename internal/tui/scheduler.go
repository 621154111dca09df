package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/menubook/internal/flipbook"
)

// scheduler is the engine's timer source plus a way to hand the queued
// timers to the bubbletea runtime.
type scheduler interface {
	flipbook.Scheduler
	Drain() tea.Cmd
}

// tickScheduler turns engine delays into tea.Tick commands. Schedule is
// called from inside Update, so the ticks are collected and returned from
// the same Update call.
type tickScheduler struct {
	gen     int
	pending []tea.Cmd
}

func newTickScheduler(gen int) scheduler {
	return &tickScheduler{gen: gen}
}

func (s *tickScheduler) Schedule(delay time.Duration, w flipbook.Wake) {
	gen := s.gen
	s.pending = append(s.pending, tea.Tick(delay, func(time.Time) tea.Msg {
		return flipWakeMsg{gen: gen, wake: w}
	}))
}

func (s *tickScheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
