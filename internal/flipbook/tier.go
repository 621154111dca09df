package flipbook

import "fmt"

// Tier is a page's visual and interactive classification relative to the cursor.
type Tier int

const (
	TierHidden Tier = iota
	TierFlipped
	TierActive
	TierPeek
)

func (t Tier) String() string {
	switch t {
	case TierHidden:
		return "hidden"
	case TierFlipped:
		return "flipped"
	case TierActive:
		return "active"
	case TierPeek:
		return "peek"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

const (
	layerPeek      = 50
	layerActive    = 100
	layerAnimating = 150
)

// PageState is everything the view needs to draw one page: tier membership,
// the "flipped" flag driving the turn animation, a stacking layer and
// whether the page accepts pointer input.
type PageState struct {
	Index       int
	Tier        Tier
	Flipped     bool
	Layer       int
	Interactive bool
}

// Visible reports whether the page should be drawn at all.
func (p PageState) Visible() bool {
	return p.Tier != TierHidden
}

// ComputeTiers derives the state of every page from the cursor and lock.
// It has no side effects.
func ComputeTiers(pageCount, cursor int, locked bool) []PageState {
	if pageCount <= 0 {
		return nil
	}
	states := make([]PageState, pageCount)
	for i := range states {
		states[i] = tierFor(i, cursor, locked)
	}
	return states
}

func tierFor(index, cursor int, locked bool) PageState {
	switch {
	case index < cursor:
		return PageState{Index: index, Tier: TierFlipped, Flipped: true, Layer: index}
	case index == cursor:
		return PageState{Index: index, Tier: TierActive, Layer: layerActive, Interactive: !locked}
	case index == cursor+1:
		return PageState{Index: index, Tier: TierPeek, Layer: layerPeek}
	default:
		return PageState{Index: index, Tier: TierHidden}
	}
}
