package tui

import (
	"github.com/csheth/menubook/internal/flipbook"
	"github.com/csheth/menubook/internal/hostbridge"
	"github.com/csheth/menubook/internal/menu"
)

const (
	headerHeight  = 2
	footerHeight  = 2
	stackWidth    = 4
	peekWidth     = 3
	minPageWidth  = 30
	maxPageWidth  = 76
	minPageHeight = 8
	stackDepth    = 3
)

// flipWakeMsg carries an engine wake token back into Update. gen ties it to
// the mount that scheduled it so tokens from a replaced engine are dropped.
type flipWakeMsg struct {
	gen  int
	wake flipbook.Wake
}

type lightboxFadeMsg struct {
	gen int
}

// ReloadMsg swaps in a freshly loaded book. A non-nil Err keeps the current
// book on screen.
type ReloadMsg struct {
	Book *menu.Book
	Err  error

	seq int
}

// SourceChangedMsg asks the model to load its source again.
type SourceChangedMsg struct{}

// RemoteMsg is a navigation command that arrived from the host frame.
type RemoteMsg struct {
	Command hostbridge.Message
}

type lineAction int

const (
	actionNone lineAction = iota
	actionJump
	actionLightbox
	actionLink
	actionScroll
)

// pageLine is one rendered row of a page body. Rows with an action are
// interactive children: pressing them never turns the page.
type pageLine struct {
	text   string
	action lineAction
	label  string
	item   int
	url    string
}

func (l pageLine) interactive() bool {
	return l.action != actionNone
}
