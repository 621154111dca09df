package tui

import (
	"github.com/csheth/menubook/internal/flipbook"
	"github.com/csheth/menubook/internal/menu"
)

// bookView is the engine's View. It keeps one handle per page, keyed by the
// page identity, and the latest tier assignment for the renderer.
type bookView struct {
	handles   map[string]int
	states    []flipbook.PageState
	animating *flipbook.PageState
}

func newBookView(book *menu.Book) *bookView {
	v := &bookView{handles: map[string]int{}}
	for _, page := range book.Pages {
		v.handles[flipbook.Identity(page.Index)] = page.Index
	}
	return v
}

func (v *bookView) HasPage(index int) bool {
	_, ok := v.handles[flipbook.Identity(index)]
	return ok
}

func (v *bookView) Render(pages []flipbook.PageState) {
	v.states = pages
	v.animating = nil
}

func (v *bookView) Animate(page flipbook.PageState) {
	p := page
	v.animating = &p
}

func (v *bookView) flippedCount() int {
	n := 0
	for _, s := range v.states {
		if s.Tier == flipbook.TierFlipped {
			n++
		}
	}
	return n
}

func (v *bookView) withTier(tier flipbook.Tier) (flipbook.PageState, bool) {
	for _, s := range v.states {
		if s.Tier == tier {
			return s, true
		}
	}
	return flipbook.PageState{}, false
}
