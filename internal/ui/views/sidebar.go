package views

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/ui/styles"
)

// PersonalTag is the tag behind the Personal shortcut
const PersonalTag = "Personal"

type sidebarItem struct {
	icon   string
	label  string
	count  int
	filter db.Filter
}

func (i sidebarItem) FilterValue() string { return i.label }

type sidebarDelegate struct {
	styles  *styles.Styles
	width   int
	focused bool
}

func (d *sidebarDelegate) Height() int                               { return 1 }
func (d *sidebarDelegate) Spacing() int                              { return 0 }
func (d *sidebarDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d *sidebarDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(sidebarItem)
	if !ok {
		return
	}

	width := max(d.width, 12)
	count := ""
	if it.count > 0 {
		count = strconv.Itoa(it.count)
	}
	label := it.icon + " " + it.label
	gap := max(width-2-lipgloss.Width(label)-lipgloss.Width(count), 1)

	style := d.styles.ListItem
	if index == m.Index() && d.focused {
		style = d.styles.ListSelected
	} else if index == m.Index() {
		style = d.styles.ListItem.Foreground(styles.Current.Primary)
	}
	fmt.Fprint(w, style.Width(width).Render(label+strings.Repeat(" ", gap)+d.styles.Count.Render(count)))
}

// sidebar is the planner's navigation: fixed shortcuts then one row per tag
type sidebar struct {
	list     list.Model
	delegate *sidebarDelegate
}

func newSidebar(s *styles.Styles) sidebar {
	delegate := &sidebarDelegate{styles: s, width: 24}

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)

	sb := sidebar{list: l, delegate: delegate}
	sb.setTags(nil)
	return sb
}

func shortcutItems() []list.Item {
	return []list.Item{
		sidebarItem{icon: "★", label: "Important", filter: db.Filter{Kind: db.FilterImportant}},
		sidebarItem{icon: "♥", label: PersonalTag, filter: db.Filter{Kind: db.FilterTag, Tag: PersonalTag}},
		sidebarItem{icon: "✔", label: "Completed", filter: db.Filter{Kind: db.FilterCompleted}},
		sidebarItem{icon: "☰", label: "All tasks", filter: db.Filter{Kind: db.FilterAll}},
	}
}

// setTags rebuilds the rows, keeping the cursor on the same filter
func (sb *sidebar) setTags(counts []db.TagCount) {
	current, hasCurrent := sb.selected()

	items := shortcutItems()
	for _, tc := range counts {
		items = append(items, sidebarItem{
			icon:   "#",
			label:  tc.Name,
			count:  tc.Count,
			filter: db.Filter{Kind: db.FilterTag, Tag: tc.Name},
		})
	}
	sb.list.SetItems(items)

	if hasCurrent {
		sb.selectFilter(current)
	}
}

func (sb *sidebar) setSize(width, height int) {
	sb.delegate.width = width
	sb.list.SetSize(width, height)
}

func (sb *sidebar) setFocused(focused bool) {
	sb.delegate.focused = focused
}

func (sb *sidebar) selected() (db.Filter, bool) {
	if it, ok := sb.list.SelectedItem().(sidebarItem); ok {
		return it.filter, true
	}
	return db.Filter{}, false
}

// selectFilter moves the cursor to the first row showing f
func (sb *sidebar) selectFilter(f db.Filter) bool {
	for i, item := range sb.list.Items() {
		if it, ok := item.(sidebarItem); ok && it.filter.Kind == f.Kind && it.filter.Tag == f.Tag {
			sb.list.Select(i)
			return true
		}
	}
	return false
}

func (sb *sidebar) up()   { sb.list.CursorUp() }
func (sb *sidebar) down() { sb.list.CursorDown() }

func (sb *sidebar) view() string {
	return sb.list.View()
}
