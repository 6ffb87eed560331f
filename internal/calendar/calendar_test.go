package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/zt/internal/models"
)

func at(y int, m time.Month, d, hh, mm int) *time.Time {
	t := time.Date(y, m, d, hh, mm, 0, 0, time.Local)
	return &t
}

func TestMonthGrid(t *testing.T) {
	// March 2025 starts on a Saturday and has 31 days
	g := MonthGrid(2025, time.March, true)
	assert.Equal(t, [7]int{0, 0, 0, 0, 0, 1, 2}, g[0])
	assert.Equal(t, [7]int{31, 0, 0, 0, 0, 0, 0}, g[5])

	g = MonthGrid(2025, time.March, false)
	assert.Equal(t, [7]int{0, 0, 0, 0, 0, 0, 1}, g[0])
	assert.Equal(t, [7]int{30, 31, 0, 0, 0, 0, 0}, g[5])

	// every day appears exactly once
	seen := make(map[int]int)
	for _, week := range MonthGrid(2024, time.February, true) {
		for _, d := range week {
			if d != 0 {
				seen[d]++
			}
		}
	}
	assert.Len(t, seen, 29)
}

func TestWeekdays(t *testing.T) {
	assert.Equal(t, "Mo", Weekdays(true)[0])
	assert.Equal(t, "Su", Weekdays(true)[6])
	assert.Equal(t, "Su", Weekdays(false)[0])
	assert.True(t, IsWeekend(5, true))
	assert.False(t, IsWeekend(0, true))
	assert.True(t, IsWeekend(0, false))
}

func TestCountsByDay(t *testing.T) {
	tasks := []models.AgendaTask{
		{ID: "1", Reminder: at(2025, 4, 3, 9, 0)},
		{ID: "2", Reminder: at(2025, 4, 3, 18, 0), Completed: true},
		{ID: "3", Reminder: at(2025, 4, 30, 23, 59)},
		{ID: "4", Reminder: at(2025, 5, 1, 0, 0)},
		{ID: "5"},
	}
	assert.Equal(t, map[int]int{3: 2, 30: 1}, CountsByDay(tasks, 2025, time.April))

	due := []models.Task{
		{Title: "a", DueDate: at(2025, 4, 3, 0, 0)},
		{Title: "b"},
		{Title: "c", DueDate: at(2025, 4, 3, 0, 0)},
	}
	assert.Equal(t, map[int]int{3: 2}, DueCountsByDay(due, 2025, time.April))
}

func TestTasksOnOrder(t *testing.T) {
	tasks := []models.AgendaTask{
		{ID: "done-high", Priority: models.PriorityHigh, Completed: true, Reminder: at(2025, 4, 3, 8, 0)},
		{ID: "low-early", Priority: models.PriorityLow, Reminder: at(2025, 4, 3, 7, 0)},
		{ID: "high-late", Priority: models.PriorityHigh, Reminder: at(2025, 4, 3, 20, 0)},
		{ID: "high-early", Priority: models.PriorityHigh, Reminder: at(2025, 4, 3, 9, 0)},
		{ID: "other-day", Priority: models.PriorityHigh, Reminder: at(2025, 4, 4, 9, 0)},
		{ID: "undated"},
	}

	got := TasksOn(tasks, *at(2025, 4, 3, 0, 0))
	var ids []string
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"high-early", "high-late", "low-early", "done-high"}, ids)

	undated := Undated(tasks)
	require.Len(t, undated, 1)
	assert.Equal(t, "undated", undated[0].ID)
}
