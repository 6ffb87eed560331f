// Package calendar holds the date arithmetic behind the month view:
// the grid layout, per-day task counts and the order of a day's tasks.
package calendar

import (
	"sort"
	"time"

	"github.com/tgienger/zt/internal/models"
)

// Grid is six weeks of day-of-month numbers. Cells outside the month are 0.
type Grid [6][7]int

// MonthGrid lays out a month starting each row on Monday or Sunday
func MonthGrid(year int, month time.Month, mondayFirst bool) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := DaysIn(year, month)

	offset := int(first.Weekday())
	if mondayFirst {
		offset = (offset + 6) % 7
	}

	var g Grid
	for day := 1; day <= days; day++ {
		cell := offset + day - 1
		g[cell/7][cell%7] = day
	}
	return g
}

// DaysIn returns the number of days in a month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Weekdays returns the two-letter column headers
func Weekdays(mondayFirst bool) []string {
	names := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	if mondayFirst {
		return append(names[1:], names[0])
	}
	return names
}

// IsWeekend reports whether grid column col is Saturday or Sunday
func IsWeekend(col int, mondayFirst bool) bool {
	if mondayFirst {
		return col >= 5
	}
	return col == 0 || col == 6
}

// CountsByDay counts agenda tasks per day of the given month, keyed by
// their reminder date. Tasks without a reminder are not on the calendar.
func CountsByDay(tasks []models.AgendaTask, year int, month time.Month) map[int]int {
	counts := make(map[int]int)
	for _, t := range tasks {
		if t.Reminder == nil {
			continue
		}
		r := t.Reminder.Local()
		if r.Year() == year && r.Month() == month {
			counts[r.Day()]++
		}
	}
	return counts
}

// DueCountsByDay counts planner tasks per day of the month by due date
func DueCountsByDay(tasks []models.Task, year int, month time.Month) map[int]int {
	counts := make(map[int]int)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		if t.DueDate.Year() == year && t.DueDate.Month() == month {
			counts[t.DueDate.Day()]++
		}
	}
	return counts
}

// TasksOn returns the tasks whose reminder falls on day: open before
// completed, then by priority, then by time.
func TasksOn(tasks []models.AgendaTask, day time.Time) []models.AgendaTask {
	y, m, d := day.Date()

	var out []models.AgendaTask
	for _, t := range tasks {
		if t.Reminder == nil {
			continue
		}
		ry, rm, rd := t.Reminder.Local().Date()
		if ry == y && rm == m && rd == d {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Reminder.Before(*b.Reminder)
	})
	return out
}

// Undated returns the agenda tasks that have no reminder, open ones first
func Undated(tasks []models.AgendaTask) []models.AgendaTask {
	var out []models.AgendaTask
	for _, t := range tasks {
		if t.Reminder == nil {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].Priority < out[j].Priority
	})
	return out
}
