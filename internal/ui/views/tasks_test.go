package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/reminder"
)

func newPlanner(t *testing.T, env Env) *TaskListView {
	t.Helper()
	v := NewTaskListView(env)
	v.now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local) }
	v.day = startOfDay(v.now())
	v.month = firstOfMonth(v.day)
	exec(v, v.Init())
	return v
}

func TestPlannerLoadsFilteredTasks(t *testing.T) {
	env := newTestEnv(t)
	due := time.Date(2025, 3, 20, 0, 0, 0, 0, time.Local)
	_, err := env.DB.CreateTask(db.TaskInput{Title: "Starred", IsImportant: true, DueDate: &due})
	require.NoError(t, err)
	_, err = env.DB.CreateTask(db.TaskInput{Title: "Home chores", Tags: PersonalTag})
	require.NoError(t, err)

	v := newPlanner(t, env)
	assert.Len(t, v.tasks, 2)
	assert.Equal(t, 1, v.dueCounts[20])

	exec(v, v.setFilter(db.Filter{Kind: db.FilterTag, Tag: PersonalTag}))
	require.Len(t, v.tasks, 1)
	assert.Equal(t, "Home chores", v.tasks[0].Title)

	saved, err := env.DB.GetSetting(settingPlannerFilter)
	require.NoError(t, err)
	assert.Equal(t, "tag:"+PersonalTag, saved)

	// a new view starts on the remembered filter
	again := newPlanner(t, env)
	assert.Equal(t, db.Filter{Kind: db.FilterTag, Tag: PersonalTag}, again.filter)
}

func TestPlannerToggleAndStar(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.DB.CreateTask(db.TaskInput{Title: "Pay bills"})
	require.NoError(t, err)

	v := newPlanner(t, env)
	require.Len(t, v.tasks, 1)

	_, cmd := v.Update(runes("x"))
	exec(v, cmd)
	got, err := env.DB.GetTask(task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	require.Len(t, v.recent, 1)

	_, cmd = v.Update(runes("s"))
	exec(v, cmd)
	got, err = env.DB.GetTask(task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsImportant)
}

func TestPlannerCompletedToggleRestoresFilter(t *testing.T) {
	env := newTestEnv(t)
	v := newPlanner(t, env)
	exec(v, v.setFilter(db.Filter{Kind: db.FilterImportant}))

	_, cmd := v.Update(runes("c"))
	exec(v, cmd)
	assert.Equal(t, db.FilterCompleted, v.filter.Kind)

	_, cmd = v.Update(runes("c"))
	exec(v, cmd)
	assert.Equal(t, db.FilterImportant, v.filter.Kind)
}

func TestPlannerFormCreatesAndEdits(t *testing.T) {
	env := newTestEnv(t)
	v := newPlanner(t, env)

	v.Update(runes("P"))
	require.True(t, v.form.active)
	assert.True(t, v.Capturing())
	assert.Equal(t, "2025-03-14", v.form.due.Value())
	assert.Equal(t, PersonalTag, v.form.tags.Value())

	// an empty title keeps the form open
	_, cmd := v.Update(ctrlS)
	msg := cmd()
	require.IsType(t, AlertMsg{}, msg)
	assert.True(t, v.form.active)

	v.form.title.SetValue("Call grandma")
	_, cmd = v.Update(ctrlS)
	exec(v, cmd)
	assert.False(t, v.form.active)

	tasks, err := env.DB.ListTasks(db.Filter{Kind: db.FilterTag, Tag: PersonalTag})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Call grandma", tasks[0].Title)
	require.NotNil(t, tasks[0].DueDate)

	// edit adds a reminder
	exec(v, v.load())
	v.cursor = 0
	v.Update(runes("e"))
	require.True(t, v.form.active)
	assert.Equal(t, tasks[0].ID, v.form.editID)
	v.form.reminderInput.SetValue("2025-03-15 08:00")
	require.NoError(t, v.form.addReminder())
	require.NoError(t, v.form.addReminder())
	assert.Len(t, v.form.reminders, 1)

	_, cmd = v.Update(ctrlS)
	exec(v, cmd)
	reminders, err := env.DB.ListReminders(tasks[0].ID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "2025-03-15 08:00", reminders[0].At.Format(InputDateTime))
}

func TestPlannerDeleteAsksFirst(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.DB.CreateTask(db.TaskInput{Title: "Old"})
	require.NoError(t, err)
	v := newPlanner(t, env)

	v.Update(runes("d"))
	require.True(t, v.confirm.active)
	v.Update(escKey)
	assert.False(t, v.confirm.active)

	v.Update(runes("d"))
	_, cmd := v.Update(runes("y"))
	exec(v, cmd)
	assert.Empty(t, v.tasks)
}

func TestPlannerReminderTickShowsOnce(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.DB.CreateTask(db.TaskInput{Title: "Stand-up"})
	require.NoError(t, err)
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)
	_, err = env.DB.AddReminder(task.ID, now.Add(-time.Minute))
	require.NoError(t, err)

	v := newPlanner(t, env)
	_, cmd := v.Update(reminder.TickMsg{Kind: reminder.Planner, Time: now})
	assert.NotNil(t, cmd)

	_, cmd = v.Update(reminder.TickMsg{Kind: reminder.Planner, Time: now})
	assert.Nil(t, cmd)

	// agenda ticks are not the planner's business
	_, cmd = v.Update(reminder.TickMsg{Kind: reminder.Agenda, Time: now})
	assert.Nil(t, cmd)
}

func TestReportFormDefaults(t *testing.T) {
	env := newTestEnv(t)
	v := newPlanner(t, env)

	v.Update(runes("r"))
	require.True(t, v.report.active)
	assert.Equal(t, "2025-03-07", v.report.inputs[reportStart].Value())
	assert.Equal(t, "2025-03-14", v.report.inputs[reportEnd].Value())

	// nothing due in range
	_, cmd := v.Update(ctrlS)
	msg, ok := cmd().(AlertMsg)
	require.True(t, ok)
	assert.Equal(t, "Nothing to export", msg.Title)
	assert.True(t, v.report.active)
}
