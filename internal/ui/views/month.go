package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/calendar"
	"github.com/tgienger/zt/internal/ui/styles"
)

var superscripts = []rune("⁰¹²³⁴⁵⁶⁷⁸⁹")

// countMark renders a per-day count as a superscript, + above nine
func countMark(n int) string {
	switch {
	case n <= 0:
		return " "
	case n > 9:
		return "⁺"
	}
	return string(superscripts[n])
}

// renderMonth draws a month grid. Days with tasks carry their count,
// weekends are colored, today is underlined and the selected day is inverted.
func renderMonth(s *styles.Styles, month, selected, today time.Time, counts map[int]int, mondayFirst bool) string {
	year, mon := month.Year(), month.Month()
	grid := calendar.MonthGrid(year, mon, mondayFirst)

	var b strings.Builder
	b.WriteString(s.PanelHeader.Render(month.Format("January 2006")))
	b.WriteString("\n")

	var header []string
	for col, name := range calendar.Weekdays(mondayFirst) {
		style := s.Day
		if calendar.IsWeekend(col, mondayFirst) {
			style = s.DayWeekend
		}
		header = append(header, style.Render(name+" "))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, week := range grid {
		b.WriteString("\n")
		var cells []string
		for col, day := range week {
			if day == 0 {
				cells = append(cells, s.Day.Render(""))
				continue
			}

			style := s.Day
			if calendar.IsWeekend(col, mondayFirst) {
				style = s.DayWeekend
			}
			if sameDay(today, year, mon, day) {
				style = s.DayToday
			}
			if sameDay(selected, year, mon, day) {
				style = s.DaySelected
			}
			if counts[day] > 0 {
				style = style.Inherit(s.DayMarked)
			}
			cells = append(cells, style.Render(fmt.Sprintf("%2d%s", day, countMark(counts[day]))))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

func sameDay(t time.Time, year int, month time.Month, day int) bool {
	y, m, d := t.Date()
	return y == year && m == month && d == day
}

// firstOfMonth returns midnight on the first day of t's month
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
