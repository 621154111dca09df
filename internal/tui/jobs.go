package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// reloadStartedMsg reports that reload seq is loading the source.
type reloadStartedMsg struct {
	seq int
}

// reloads runs source loads off the event loop. Every load is numbered so a
// slow one that lands after a newer load started can be told apart.
type reloads struct {
	seq    int
	logger *log.Logger
}

func newReloads(logger *log.Logger) *reloads {
	return &reloads{logger: logger}
}

func (r *reloads) start(load Loader) tea.Cmd {
	r.seq++
	seq := r.seq
	logger := r.logger
	return tea.Sequence(
		func() tea.Msg { return reloadStartedMsg{seq: seq} },
		func() tea.Msg {
			started := time.Now()
			msg := loadBook(context.Background(), load)
			msg.seq = seq
			logger.Printf("[jobs] reload %d finished in %s (err=%v)", seq, time.Since(started).Round(time.Millisecond), msg.Err)
			return msg
		},
	)
}

// stale reports whether msg came from a load that a newer one replaced.
// Results not started here carry seq 0 and are never stale.
func (r *reloads) stale(msg ReloadMsg) bool {
	return msg.seq != 0 && msg.seq != r.seq
}
