package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/menubook/internal/menu"
)

// Loader reads the menu source again.
type Loader func(context.Context) (*menu.Book, error)

const reloadTimeout = 30 * time.Second

// loadBook runs one load under the reload timeout.
func loadBook(parent context.Context, load Loader) ReloadMsg {
	ctx, cancel := context.WithTimeout(parent, reloadTimeout)
	defer cancel()
	book, err := load(ctx)
	return ReloadMsg{Book: book, Err: err}
}

func lightboxFadeCmd(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return lightboxFadeMsg{gen: gen}
	})
}
