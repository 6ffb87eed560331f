package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// agenda priorities, High to None
	PriorityHigh   lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityLow    lipgloss.Color
	PriorityNone   lipgloss.Color

	Weekend lipgloss.Color
	Star    lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	PriorityHigh:   lipgloss.Color("#f7768e"),
	PriorityMedium: lipgloss.Color("#ff9e64"),
	PriorityLow:    lipgloss.Color("#9ece6a"),
	PriorityNone:   lipgloss.Color("#a9b1d6"),

	Weekend: lipgloss.Color("#db4b4b"),
	Star:    lipgloss.Color("#e0af68"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active theme
var Current = TokyoNight

// MaxWidth caps the layout on very wide terminals
const MaxWidth = 140

// ContentWidth returns the width to lay out in
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView centers content horizontally if the terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// PriorityColor maps an agenda priority to its theme color
func PriorityColor(p models.Priority) lipgloss.Color {
	t := Current
	switch p {
	case models.PriorityHigh:
		return t.PriorityHigh
	case models.PriorityMedium:
		return t.PriorityMedium
	case models.PriorityLow:
		return t.PriorityLow
	}
	return t.PriorityNone
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// tab bar
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	TabBar    lipgloss.Style

	// bordered panes
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelHeader  lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	Count        lipgloss.Style

	// task rows
	Completed lipgloss.Style
	Star      lipgloss.Style
	Meta      lipgloss.Style

	// calendar cells
	Day         lipgloss.Style
	DayWeekend  lipgloss.Style
	DayToday    lipgloss.Style
	DaySelected lipgloss.Style
	DayMarked   lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// modal overlays
	Dialog      lipgloss.Style
	DialogError lipgloss.Style

	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	StatusBar lipgloss.Style
	Dirty     lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Tab: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 2),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		TabBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		PanelFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		PanelHeader: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		Count: lipgloss.NewStyle().
			Foreground(t.Accent),

		Completed: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),

		Star: lipgloss.NewStyle().
			Foreground(t.Star),

		Meta: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Italic(true),

		Day: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Width(4).
			Align(lipgloss.Right),

		DayWeekend: lipgloss.NewStyle().
			Foreground(t.Weekend).
			Width(4).
			Align(lipgloss.Right),

		DayToday: lipgloss.NewStyle().
			Foreground(t.Accent).
			Underline(true).
			Width(4).
			Align(lipgloss.Right),

		DaySelected: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Bold(true).
			Width(4).
			Align(lipgloss.Right),

		DayMarked: lipgloss.NewStyle().
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(1, 3),

		DialogError: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Error).
			Padding(1, 3),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		Dirty: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),
	}
}

// Priority returns the row style for an agenda task
func (s *Styles) Priority(p models.Priority, completed bool) lipgloss.Style {
	if completed {
		return s.Completed
	}
	return lipgloss.NewStyle().Foreground(PriorityColor(p))
}
