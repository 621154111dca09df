// Package flipbook implements the page-flip engine behind the menu book: a
// cursor over a fixed sequence of pages, a three-tier visual stacking that
// is recomputed after every cursor move, and a single serialized animation
// pipeline guarded by a flip lock and a debounce window.
//
// The engine owns no timers and no drawing. Delays go through a Scheduler,
// which must hand the Wake token back via Engine.Wake, and all visual
// updates go through an injected View.
package flipbook

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"
)

// ErrNoPages is returned when mounting an engine over an empty book.
var ErrNoPages = errors.New("flipbook: no pages to mount")

// State is the engine's position in the flip pipeline.
type State int

const (
	StateIdle State = iota
	StateFlipping
	StateJumping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFlipping:
		return "flipping"
	case StateJumping:
		return "jumping"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type wakeKind int

const (
	wakeNone wakeKind = iota
	wakeNextDone
	wakePrevSettle
	wakePrevDone
	wakeJumpStep
)

// Wake is an opaque resumption token. Only the most recently scheduled
// token is honoured; anything else is dropped.
type Wake struct {
	seq  uint64
	kind wakeKind
}

// Scheduler delivers a Wake back to the engine once delay has elapsed.
type Scheduler interface {
	Schedule(delay time.Duration, w Wake)
}

// View receives every visual update. HasPage reports whether the page's
// view handle still exists; Render gets the full tier recompute and
// Animate a single page raised for a running flip.
type View interface {
	HasPage(index int) bool
	Render(pages []PageState)
	Animate(page PageState)
}

// SectionLookup resolves a section label to a page index.
type SectionLookup func(label string) (int, bool)

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Cursor    int
	PageCount int
	State     State
	Pages     []PageState
}

// Config wires an engine to its collaborators.
type Config struct {
	PageCount int
	Sections  SectionLookup
	View      View
	Scheduler Scheduler
	Timing    Timing
	Now       func() time.Time
	Logger    *log.Logger
	OnChange  func(Snapshot)
}

// Engine is the page-flip state machine. It is not safe for concurrent use;
// every call must come from the same event loop that delivers Wake tokens.
type Engine struct {
	pageCount int
	cursor    int
	state     State

	lastFlip   time.Time
	hasFlipped bool

	animating int
	target    int
	direction int

	seq    uint64
	expect wakeKind

	timing   Timing
	sections SectionLookup
	view     View
	sched    Scheduler
	now      func() time.Time
	logger   *log.Logger
	onChange func(Snapshot)
}

// New mounts an engine on the cover page and renders the initial tiers.
func New(cfg Config) (*Engine, error) {
	if cfg.PageCount < 1 {
		return nil, ErrNoPages
	}
	if cfg.View == nil {
		return nil, errors.New("flipbook: view is required")
	}
	if cfg.Scheduler == nil {
		return nil, errors.New("flipbook: scheduler is required")
	}
	timing := cfg.Timing
	if timing == (Timing{}) {
		timing = DefaultTiming()
	}
	if err := timing.Validate(); err != nil {
		return nil, fmt.Errorf("flipbook: %w", err)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	e := &Engine{
		pageCount: cfg.PageCount,
		timing:    timing,
		sections:  cfg.Sections,
		view:      cfg.View,
		sched:     cfg.Scheduler,
		now:       now,
		logger:    logger,
		onChange:  cfg.OnChange,
	}
	e.recompute()
	return e, nil
}

// Identity returns the stable view key for a page index.
func Identity(index int) string {
	return fmt.Sprintf("page-%d", index)
}

func (e *Engine) Cursor() int    { return e.cursor }
func (e *Engine) PageCount() int { return e.pageCount }
func (e *Engine) State() State   { return e.state }

// Locked reports whether a flip or jump is in flight.
func (e *Engine) Locked() bool {
	return e.state != StateIdle
}

// Tiers returns the tier assignment for the current cursor and lock.
func (e *Engine) Tiers() []PageState {
	return ComputeTiers(e.pageCount, e.cursor, e.Locked())
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Cursor:    e.cursor,
		PageCount: e.pageCount,
		State:     e.state,
		Pages:     e.Tiers(),
	}
}

// FlipNext turns the active page forward. It returns false, changing
// nothing, when already on the last page, while locked, inside the debounce
// window, or when the active page has no view.
func (e *Engine) FlipNext() bool {
	if e.cursor >= e.pageCount-1 {
		e.logger.Printf("[flipbook] flip next ignored: %s is the last page", Identity(e.cursor))
		return false
	}
	if !e.acceptFlip("next") {
		return false
	}
	if !e.view.HasPage(e.cursor) {
		e.logger.Printf("[flipbook] flip next aborted: %s has no view", Identity(e.cursor))
		return false
	}
	e.beginFlip(e.cursor)
	e.view.Animate(PageState{Index: e.cursor, Tier: TierActive, Flipped: true, Layer: layerAnimating})
	e.schedule(e.timing.Animation, wakeNextDone)
	return true
}

// FlipPrev turns the previous page back over the active one.
func (e *Engine) FlipPrev() bool {
	if e.cursor <= 0 {
		e.logger.Printf("[flipbook] flip prev ignored: already on the cover")
		return false
	}
	if !e.acceptFlip("prev") {
		return false
	}
	target := e.cursor - 1
	if !e.view.HasPage(target) {
		e.logger.Printf("[flipbook] flip prev aborted: %s has no view", Identity(target))
		return false
	}
	e.beginFlip(target)
	e.cursor = target
	e.view.Animate(PageState{Index: target, Tier: TierActive, Flipped: true, Layer: layerAnimating})
	e.schedule(e.timing.Settle, wakePrevSettle)
	return true
}

// JumpToSection riffles page by page to the page holding label. Unknown
// labels, the current page and a held lock are all ignored.
func (e *Engine) JumpToSection(label string) bool {
	if e.Locked() {
		e.logger.Printf("[flipbook] jump to %q ignored: %s in progress", label, e.state)
		return false
	}
	if e.sections == nil {
		e.logger.Printf("[flipbook] jump to %q ignored: no section index", label)
		return false
	}
	target, ok := e.sections(label)
	if !ok {
		e.logger.Printf("[flipbook] jump to %q ignored: section not found", label)
		return false
	}
	if target < 0 || target >= e.pageCount {
		e.logger.Printf("[flipbook] jump to %q ignored: page %d out of range", label, target)
		return false
	}
	if target == e.cursor {
		return false
	}
	e.state = StateJumping
	e.target = target
	e.direction = 1
	if target < e.cursor {
		e.direction = -1
	}
	e.jumpStep()
	return true
}

// HandleSurfaceClick maps a pointer press on a page to a flip. Presses on
// any page but the active one, or on an interactive child of the page, are
// ignored. The right half flips forward, the left half back.
func (e *Engine) HandleSurfaceClick(page int, x, width float64, onInteractive bool) bool {
	if page != e.cursor || onInteractive {
		return false
	}
	if x > width/2 {
		return e.FlipNext()
	}
	return e.FlipPrev()
}

// Wake resumes the pipeline at the point the matching Schedule call left it.
func (e *Engine) Wake(w Wake) {
	if w.seq != e.seq || w.kind != e.expect || w.kind == wakeNone {
		e.logger.Printf("[flipbook] stale wake dropped (seq=%d, want=%d)", w.seq, e.seq)
		return
	}
	e.expect = wakeNone
	switch w.kind {
	case wakeNextDone:
		if e.cursor < e.pageCount-1 {
			e.cursor++
		}
		e.finish()
	case wakePrevSettle:
		if !e.view.HasPage(e.animating) {
			e.logger.Printf("[flipbook] flip prev: %s vanished mid-animation, releasing lock", Identity(e.animating))
			e.finish()
			return
		}
		e.view.Animate(PageState{Index: e.animating, Tier: TierActive, Layer: layerAnimating})
		e.schedule(e.timing.Animation, wakePrevDone)
	case wakePrevDone:
		e.finish()
	case wakeJumpStep:
		e.jumpStep()
	}
}

func (e *Engine) acceptFlip(direction string) bool {
	if e.Locked() {
		e.logger.Printf("[flipbook] flip %s ignored: %s in progress", direction, e.state)
		return false
	}
	if e.hasFlipped {
		if elapsed := e.now().Sub(e.lastFlip); elapsed < e.timing.Debounce {
			e.logger.Printf("[flipbook] flip %s ignored: debounced (%s since last flip)", direction, elapsed)
			return false
		}
	}
	return true
}

func (e *Engine) beginFlip(animating int) {
	e.state = StateFlipping
	e.lastFlip = e.now()
	e.hasFlipped = true
	e.animating = animating
}

func (e *Engine) jumpStep() {
	if e.cursor == e.target {
		e.finish()
		return
	}
	e.cursor += e.direction
	e.recompute()
	e.schedule(e.timing.JumpStep, wakeJumpStep)
}

func (e *Engine) finish() {
	e.state = StateIdle
	e.recompute()
}

func (e *Engine) schedule(delay time.Duration, kind wakeKind) {
	e.seq++
	e.expect = kind
	e.sched.Schedule(delay, Wake{seq: e.seq, kind: kind})
}

func (e *Engine) recompute() {
	pages := e.Tiers()
	e.view.Render(pages)
	if e.onChange != nil {
		e.onChange(Snapshot{Cursor: e.cursor, PageCount: e.pageCount, State: e.state, Pages: pages})
	}
}
