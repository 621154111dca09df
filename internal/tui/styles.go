package tui

import "github.com/charmbracelet/lipgloss"

const defaultAccent = "#2563EB"

var (
	helperStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	priceStyle     = lipgloss.NewStyle().Bold(true)
	strikeStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("244"))
	allergyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	stackStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#56526e"))
	peekStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	indicatorStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

// theme holds the styles that follow the restaurant's accent color.
type theme struct {
	accent      lipgloss.Color
	title       lipgloss.Style
	heading     lipgloss.Style
	page        lipgloss.Style
	turning     lipgloss.Style
	link        lipgloss.Style
	category    lipgloss.Style
	selected    lipgloss.Style
	lightboxBox lipgloss.Style
}

func newTheme(accent string) theme {
	if accent == "" {
		accent = defaultAccent
	}
	c := lipgloss.Color(accent)
	return theme{
		accent:      c,
		title:       lipgloss.NewStyle().Bold(true).Foreground(c),
		heading:     lipgloss.NewStyle().Bold(true).Underline(true).Foreground(c),
		page:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1),
		turning:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(c).Faint(true).Padding(0, 1),
		link:        lipgloss.NewStyle().Underline(true).Foreground(c),
		category:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1),
		selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(c).Padding(0, 1),
		lightboxBox: lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(c).Padding(1, 2),
	}
}
