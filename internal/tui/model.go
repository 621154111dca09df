package tui

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/menubook/internal/flipbook"
	"github.com/csheth/menubook/internal/hostbridge"
	"github.com/csheth/menubook/internal/menu"
)

const defaultLightboxFade = 300 * time.Millisecond

// Config wires runtime options into the TUI program.
type Config struct {
	Book         *menu.Book
	Load         Loader
	Timing       flipbook.Timing
	LightboxFade time.Duration
	Accent       string
	Host         hostbridge.Notifier
	Logger       *log.Logger
	Now          func() time.Time
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config, newTickScheduler)
}

func newModel(config Config, newScheduler func(gen int) scheduler) *model {
	if config.Host == nil {
		config.Host = hostbridge.NopNotifier{}
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard, "", 0)
	}
	if config.LightboxFade <= 0 {
		config.LightboxFade = defaultLightboxFade
	}
	if config.Book == nil {
		config.Book = &menu.Book{Profile: menu.Profile{}.WithDefaults()}
	}
	m := &model{
		config:       config,
		newScheduler: newScheduler,
		layout:       newPageLayout(),
		keys:         newKeyMap(),
		help:         help.New(),
		reloads:      newReloads(config.Logger),
	}
	m.mount(config.Book)
	return m
}

type model struct {
	config       Config
	newScheduler func(gen int) scheduler

	book   *menu.Book
	engine *flipbook.Engine
	view   *bookView
	sched  scheduler
	gen    int

	layout   pageLayout
	theme    theme
	keys     keyMap
	help     help.Model
	reloads  *reloads
	sections []menu.ContentsEntry

	selected      int
	scroll        int
	lastCursor    int
	lightbox      lightbox
	pendingReload *menu.Book
	helpVisible   bool
	infoMessage   string
	errorMessage  string
}

// mount replaces the book and starts a fresh engine on its cover. An empty
// book is shown as a notice and gets no engine.
func (m *model) mount(book *menu.Book) {
	m.gen++
	m.book = book
	m.sections = book.Sections()
	m.selected = 0
	m.scroll = 0
	m.lastCursor = 0
	m.pendingReload = nil
	if m.lightbox.open && !m.lightbox.closing {
		m.config.Host.Post(hostbridge.CloseButton(true))
	}
	m.lightbox = lightbox{gen: m.lightbox.gen + 1}
	accent := m.config.Accent
	if accent == "" {
		accent = book.Profile.Accent()
	}
	m.theme = newTheme(accent)

	m.engine = nil
	m.view = nil
	m.sched = m.newScheduler(m.gen)
	if book.Empty() {
		m.infoMessage = "This menu has no available items yet."
		return
	}
	m.view = newBookView(book)
	engine, err := flipbook.New(flipbook.Config{
		PageCount: book.Len(),
		Sections:  book.FindSection,
		View:      m.view,
		Scheduler: m.sched,
		Timing:    m.config.Timing,
		Now:       m.config.Now,
		Logger:    m.config.Logger,
		OnChange:  m.onEngineChange,
	})
	if err != nil {
		m.config.Logger.Printf("[tui] mount failed: %v", err)
		m.errorMessage = err.Error()
		m.view = nil
		return
	}
	m.engine = engine
	m.infoMessage = fmt.Sprintf("%s · %d pages", book.Profile.Name, book.Len())
	m.config.Logger.Printf("[tui] mounted %d pages (gen %d)", book.Len(), m.gen)
}

func (m *model) onEngineChange(s flipbook.Snapshot) {
	if s.Cursor != m.lastCursor {
		m.lastCursor = s.Cursor
		m.scroll = 0
		for i, section := range m.sections {
			if section.Page == s.Cursor {
				m.selected = i
			}
		}
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil
	case flipWakeMsg:
		if msg.gen != m.gen || m.engine == nil {
			return m, nil
		}
		m.engine.Wake(msg.wake)
		m.applyPendingReload()
		return m, m.sched.Drain()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case lightboxFadeMsg:
		m.handleLightboxFade(msg)
		return m, nil
	case SourceChangedMsg:
		return m, m.startReload()
	case reloadStartedMsg:
		m.infoMessage = "Reloading menu…"
		return m, nil
	case ReloadMsg:
		m.handleReload(msg)
		return m, m.sched.Drain()
	case RemoteMsg:
		m.handleRemote(msg.Command)
		return m, m.sched.Drain()
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.lightbox.open {
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Lightbox) {
			return m, m.closeLightbox()
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Back) {
		if m.helpVisible {
			m.helpVisible = false
			return m, nil
		}
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return m, nil
	}
	if key.Matches(msg, m.keys.Reload) {
		return m, m.startReload()
	}
	if m.engine == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.engine.FlipNext()
	case key.Matches(msg, m.keys.Prev):
		m.engine.FlipPrev()
	case key.Matches(msg, m.keys.NextSection):
		m.cycleSection(1)
	case key.Matches(msg, m.keys.PrevSection):
		m.cycleSection(-1)
	case key.Matches(msg, m.keys.Jump):
		if m.selected < len(m.sections) {
			m.engine.JumpToSection(m.sections[m.selected].Label)
		}
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.Lightbox):
		if item, ok := m.focusedItem(); ok {
			m.openLightbox(item)
		} else {
			m.infoMessage = "No photo on this page."
		}
	default:
		if n, ok := sectionDigit(msg.String()); ok && n < len(m.sections) {
			m.selected = n
			m.engine.JumpToSection(m.sections[n].Label)
		}
	}
	return m, m.sched.Drain()
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.lightbox.open {
		if msg.Type == tea.MouseLeft {
			return m, m.closeLightbox()
		}
		return m, nil
	}
	// The help overlay covers the page; a click only dismisses it.
	if m.helpVisible {
		if msg.Type == tea.MouseLeft {
			m.helpVisible = false
			m.help.ShowAll = false
		}
		return m, nil
	}
	if m.engine == nil {
		return m, nil
	}
	switch msg.Type {
	case tea.MouseWheelUp:
		m.scrollBy(-1)
		return m, nil
	case tea.MouseWheelDown:
		m.scrollBy(1)
		return m, nil
	case tea.MouseLeft:
	default:
		return m, nil
	}

	h := m.layout.hitTest(msg.X, msg.Y)
	cursor := m.engine.Cursor()
	switch h.region {
	case regionCategoryBar:
		if label, ok := spanAt(m.categorySpans(), h.x); ok {
			m.engine.JumpToSection(label)
		}
	case regionStack:
		m.engine.HandleSurfaceClick(cursor-1, float64(h.x), float64(h.width), false)
	case regionPeek:
		m.engine.HandleSurfaceClick(cursor+1, float64(h.x), float64(h.width), false)
	case regionPage:
		line, onLine := m.lineAtRow(h.row)
		interactive := onLine && line.interactive()
		if interactive && m.activeInteractive() {
			m.activate(line)
		}
		m.engine.HandleSurfaceClick(cursor, float64(h.x), float64(h.width), interactive)
	}
	return m, m.sched.Drain()
}

// activate runs an interactive row's own action.
func (m *model) activate(line pageLine) {
	switch line.action {
	case actionJump:
		m.engine.JumpToSection(line.label)
	case actionLightbox:
		page := m.book.Pages[m.engine.Cursor()]
		if line.item >= 0 && line.item < len(page.Items) {
			m.openLightbox(page.Items[line.item])
		}
	case actionLink:
		m.infoMessage = "Open " + line.url
	case actionScroll:
		m.scrollBy(m.layout.bodyRows() - 1)
	}
}

func (m *model) handleRemote(cmd hostbridge.Message) {
	if m.engine == nil || m.lightbox.open {
		return
	}
	switch cmd.Type {
	case hostbridge.FlipNext:
		m.engine.FlipNext()
	case hostbridge.FlipPrev:
		m.engine.FlipPrev()
	case hostbridge.JumpToSection:
		m.engine.JumpToSection(cmd.Label)
	}
}

func (m *model) startReload() tea.Cmd {
	if m.config.Load == nil {
		return nil
	}
	return m.reloads.start(m.config.Load)
}

func (m *model) handleReload(msg ReloadMsg) {
	if m.reloads.stale(msg) {
		m.config.Logger.Printf("[tui] dropping reload %d, superseded", msg.seq)
		return
	}
	if msg.Err != nil {
		m.errorMessage = fmt.Sprintf("reload failed: %v", msg.Err)
		return
	}
	if msg.Book == nil {
		m.errorMessage = "reload returned no menu"
		return
	}
	m.errorMessage = ""
	if m.engine != nil && m.engine.Locked() {
		m.pendingReload = msg.Book
		m.infoMessage = "Menu changed; reloading when the page settles."
		return
	}
	m.mount(msg.Book)
}

func (m *model) applyPendingReload() {
	if m.pendingReload == nil || m.engine == nil || m.engine.Locked() {
		return
	}
	m.mount(m.pendingReload)
}

func (m *model) cycleSection(delta int) {
	if len(m.sections) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.sections)) % len(m.sections)
}

func (m *model) activeInteractive() bool {
	if m.view == nil {
		return false
	}
	active, ok := m.view.withTier(flipbook.TierActive)
	return ok && active.Interactive
}

func (m *model) activeLines() []pageLine {
	if m.engine == nil {
		return nil
	}
	return m.pageLines(m.book.Pages[m.engine.Cursor()], m.layout.contentWidth())
}

func (m *model) scrollBy(delta int) {
	total := len(m.activeLines())
	m.scroll = clampScroll(m.scroll+delta, total, m.layout.bodyRows())
}

// lineAtRow maps a body row on screen to the line drawn there.
func (m *model) lineAtRow(row int) (pageLine, bool) {
	if row < 0 {
		return pageLine{}, false
	}
	lines := m.activeLines()
	start, end, indicator := window(len(lines), m.layout.bodyRows(), m.scroll)
	if indicator && row == end-start {
		return pageLine{action: actionScroll}, true
	}
	idx := start + row
	if idx >= end {
		return pageLine{}, false
	}
	return lines[idx], true
}

// focusedItem is the first item with a photo in the visible part of the
// active page.
func (m *model) focusedItem() (menu.Item, bool) {
	if m.engine == nil {
		return menu.Item{}, false
	}
	page := m.book.Pages[m.engine.Cursor()]
	lines := m.activeLines()
	start, end, _ := window(len(lines), m.layout.bodyRows(), m.scroll)
	for _, line := range lines[start:end] {
		if line.action == actionLightbox && line.item < len(page.Items) {
			return page.Items[line.item], true
		}
	}
	return menu.Item{}, false
}
