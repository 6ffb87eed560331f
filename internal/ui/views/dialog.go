package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/ui/keys"
	"github.com/tgienger/zt/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// truncate shortens s to width cells, marking the cut with "..."
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// AlertMsg asks the app to show a modal message. Alerts are queued and
// shown one at a time.
type AlertMsg struct {
	Title string
	Body  string
	Err   error
}

func alert(title, body string) tea.Cmd {
	return func() tea.Msg {
		return AlertMsg{Title: title, Body: body}
	}
}

// failure describes an aborted action
func failure(action string, err error) AlertMsg {
	return AlertMsg{Title: "Error", Body: fmt.Sprintf("Could not %s:\n%v", action, err), Err: err}
}

func failed(action string, err error) tea.Cmd {
	return func() tea.Msg {
		return failure(action, err)
	}
}

// RenderDialog draws a centered modal box
func RenderDialog(s *styles.Styles, title, body, hint string, isErr bool, width, height int) string {
	box := s.Dialog
	titleStyle := s.Title
	if isErr {
		box = s.DialogError
		titleStyle = s.Title.Foreground(styles.Current.Error)
	}

	bodyWidth := clamp(width-16, 20, 60)
	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(title),
		"",
		lipgloss.NewStyle().Width(bodyWidth).Align(lipgloss.Center).Render(body),
		"",
		s.TitleMuted.Render(hint),
	)

	return lipgloss.Place(width, height,
		lipgloss.Center, lipgloss.Center,
		box.Render(content),
	)
}

// confirmDialog is a yes/no question that runs onYes when accepted
type confirmDialog struct {
	active bool
	title  string
	body   string
	onYes  func() tea.Cmd
}

func (c *confirmDialog) ask(title, body string, onYes func() tea.Cmd) {
	c.active = true
	c.title = title
	c.body = body
	c.onYes = onYes
}

func (c *confirmDialog) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		c.active = false
		if c.onYes != nil {
			return c.onYes()
		}
	case "n", "N", "esc":
		c.active = false
	}
	return nil
}

func (c *confirmDialog) view(s *styles.Styles, width, height int) string {
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		s.ButtonPrimary.Render(" Y - Yes "),
		"  ",
		s.Button.Render(" N - No "),
	)
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Warning).Render(c.title),
		"",
		lipgloss.NewStyle().Width(clamp(width-16, 20, 60)).Align(lipgloss.Center).Render(c.body),
		"",
		buttons,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.Dialog.Render(content))
}

// renderHelpPopup shows the full key help in a box
func renderHelpPopup(s *styles.Styles, h help.Model, km keys.Help, width, height int) string {
	h.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Keyboard Shortcuts"),
		"",
		h.View(km),
		"",
		s.TitleMuted.Render("Press any key to close"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.Dialog.Render(content))
}

func newHelp(s *styles.Styles) help.Model {
	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.HelpDesc
	h.Styles.FullKey = s.HelpKey
	h.Styles.FullDesc = s.HelpDesc
	return h
}
