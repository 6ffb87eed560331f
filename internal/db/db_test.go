package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/zt/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "nested", "zt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	// deterministic, strictly increasing created_at values
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	n := 0
	d.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return d
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func titles(tasks []models.Task) []string {
	var out []string
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestTaskRoundTrip(t *testing.T) {
	d := newTestDB(t)

	created, err := d.CreateTask(TaskInput{
		Title:       "Write report",
		Details:     "quarterly numbers",
		Tags:        " Work ,, Home , ",
		DueDate:     date(2025, 3, 14),
		IsImportant: true,
	})
	require.NoError(t, err)

	got, err := d.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "quarterly numbers", got.Details)
	assert.Equal(t, "Work,Home", got.Tags)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-03-14", got.DueDate.Format(models.DateLayout))
	assert.True(t, got.IsImportant)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)

	require.NoError(t, d.UpdateTask(created.ID, TaskInput{Title: "Write final report", Tags: "Work"}))
	got, err = d.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write final report", got.Title)
	assert.Equal(t, "", got.Details)
	assert.Nil(t, got.DueDate)
	assert.False(t, got.IsImportant)

	require.NoError(t, d.SetTaskCompleted(created.ID, true))
	require.NoError(t, d.SetTaskImportant(created.ID, true))
	got, err = d.GetTask(created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.True(t, got.IsImportant)
}

func TestMissingTask(t *testing.T) {
	d := newTestDB(t)

	_, err := d.GetTask(42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(d.UpdateTask(42, TaskInput{Title: "x"}), ErrNotFound))
	assert.True(t, errors.Is(d.SetTaskCompleted(42, true), ErrNotFound))
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	d := newTestDB(t)

	require.NoError(t, d.Seed())
	require.NoError(t, d.Seed())

	tasks, err := d.ListTasks(Filter{Kind: FilterAll})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsImportant)
}

func TestTagFilter(t *testing.T) {
	d := newTestDB(t)

	for _, in := range []TaskInput{
		{Title: "a", Tags: "X"},
		{Title: "b", Tags: "X, Y"},
		{Title: "c", Tags: "Y,X,Z"},
		{Title: "d", Tags: "Z, X"},
		{Title: "e", Tags: "XY"},
		{Title: "f", Tags: "x"},
		{Title: "g", Tags: ""},
	} {
		_, err := d.CreateTask(in)
		require.NoError(t, err)
	}

	tasks, err := d.ListTasks(Filter{Kind: FilterTag, Tag: "X"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, titles(tasks))
	for _, task := range tasks {
		assert.True(t, task.HasTag("X"))
	}

	tasks, err = d.ListTasks(Filter{Kind: FilterTag, Tag: "Z"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c", "d"}, titles(tasks))
}

func TestFilterKinds(t *testing.T) {
	d := newTestDB(t)

	mk := func(in TaskInput, completed bool) {
		task, err := d.CreateTask(in)
		require.NoError(t, err)
		if completed {
			require.NoError(t, d.SetTaskCompleted(task.ID, true))
		}
	}
	mk(TaskInput{Title: "important open", IsImportant: true, DueDate: date(2025, 3, 10)}, false)
	mk(TaskInput{Title: "important done", IsImportant: true, DueDate: date(2025, 3, 10)}, true)
	mk(TaskInput{Title: "plain open", DueDate: date(2025, 3, 5)}, false)
	mk(TaskInput{Title: "plain done", DueDate: date(2025, 3, 20)}, true)
	mk(TaskInput{Title: "undated"}, false)

	tasks, err := d.ListTasks(Filter{Kind: FilterImportant})
	require.NoError(t, err)
	assert.Equal(t, []string{"important open"}, titles(tasks))

	tasks, err = d.ListTasks(Filter{Kind: FilterCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{"plain done", "important done"}, titles(tasks))

	tasks, err = d.ListTasks(Filter{Kind: FilterDate, Date: *date(2025, 3, 10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"important open"}, titles(tasks))

	tasks, err = d.ListTasks(Filter{Kind: FilterDateRange, Start: *date(2025, 3, 1), End: *date(2025, 3, 31)})
	require.NoError(t, err)
	assert.Equal(t, []string{"plain open", "important done", "important open", "plain done"}, titles(tasks))

	// important first, then by due date with undated tasks (NULL) ahead,
	// newest first on ties
	tasks, err = d.ListTasks(Filter{Kind: FilterAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"important done", "important open", "undated", "plain open", "plain done"}, titles(tasks))

	_, err = d.ListTasks(Filter{Kind: "bogus"})
	assert.Error(t, err)
}

func TestSearchTasks(t *testing.T) {
	d := newTestDB(t)

	_, err := d.CreateTask(TaskInput{Title: "Buy milk"})
	require.NoError(t, err)
	_, err = d.CreateTask(TaskInput{Title: "Call mom", Details: "about the milk"})
	require.NoError(t, err)
	_, err = d.CreateTask(TaskInput{Title: "Groceries", Tags: "milkshop"})
	require.NoError(t, err)
	done, err := d.CreateTask(TaskInput{Title: "Old milk"})
	require.NoError(t, err)
	require.NoError(t, d.SetTaskCompleted(done.ID, true))

	tasks, err := d.SearchTasks("milk")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Buy milk", "Call mom", "Groceries"}, titles(tasks))
}

func TestCleanTagsIdempotent(t *testing.T) {
	for _, in := range []string{"", " , ", "a", " a , b ,, c ", "Work,Home", "  spaced tag , other"} {
		once := CleanTags(in)
		assert.Equal(t, once, CleanTags(once), in)
	}
	assert.Equal(t, "a,b,c", CleanTags(" a , b ,, c "))
	assert.Equal(t, "", CleanTags(" , ,"))
}

func TestTagCounts(t *testing.T) {
	d := newTestDB(t)

	_, err := d.CreateTask(TaskInput{Title: "a", Tags: "Work, Home"})
	require.NoError(t, err)
	_, err = d.CreateTask(TaskInput{Title: "b", Tags: "Work"})
	require.NoError(t, err)
	done, err := d.CreateTask(TaskInput{Title: "c", Tags: "Work, Garden"})
	require.NoError(t, err)
	require.NoError(t, d.SetTaskCompleted(done.ID, true))

	counts, err := d.TagCounts()
	require.NoError(t, err)
	assert.Equal(t, []TagCount{{Name: "Home", Count: 1}, {Name: "Work", Count: 2}}, counts)
}

func TestUpdateTaskWithRemindersIsAtomic(t *testing.T) {
	d := newTestDB(t)

	task, err := d.CreateTask(TaskInput{Title: "draft"})
	require.NoError(t, err)
	at := time.Date(2025, 3, 2, 10, 30, 0, 0, time.Local)

	require.NoError(t, d.UpdateTaskWithReminders(task.ID, TaskInput{Title: "final", Tags: "a, b"}, []time.Time{at}))
	got, err := d.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, "a,b", got.Tags)
	require.Len(t, got.Reminders, 1)

	// a failing reminder write leaves the task as it was
	_, err = d.Exec(`CREATE TRIGGER no_reminders BEFORE INSERT ON reminders
		BEGIN SELECT RAISE(ABORT, 'reminders are read-only'); END`)
	require.NoError(t, err)

	err = d.UpdateTaskWithReminders(task.ID, TaskInput{Title: "lost edit"}, []time.Time{at.Add(time.Hour)})
	require.Error(t, err)
	got, err = d.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	require.Len(t, got.Reminders, 1)
	assert.True(t, got.Reminders[0].At.Equal(at))

	assert.True(t, errors.Is(d.UpdateTaskWithReminders(42, TaskInput{Title: "x"}, nil), ErrNotFound))
}

func TestRemindersCascade(t *testing.T) {
	d := newTestDB(t)

	task, err := d.CreateTask(TaskInput{Title: "with reminders"})
	require.NoError(t, err)

	at := time.Date(2025, 3, 2, 10, 30, 0, 0, time.Local)
	_, err = d.AddReminder(task.ID, at)
	require.NoError(t, err)

	require.NoError(t, d.ReplaceReminders(task.ID, []time.Time{at.Add(2 * time.Hour), at, at}))
	reminders, err := d.ListReminders(task.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.True(t, reminders[0].At.Equal(at))
	assert.True(t, reminders[1].At.Equal(at.Add(2*time.Hour)))

	got, err := d.GetTask(task.ID)
	require.NoError(t, err)
	assert.Len(t, got.Reminders, 2)

	require.NoError(t, d.DeleteTask(task.ID))
	reminders, err = d.ListReminders(task.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestDueReminders(t *testing.T) {
	d := newTestDB(t)

	open, err := d.CreateTask(TaskInput{Title: "open"})
	require.NoError(t, err)
	done, err := d.CreateTask(TaskInput{Title: "done"})
	require.NoError(t, err)
	require.NoError(t, d.SetTaskCompleted(done.ID, true))

	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.Local)
	_, err = d.AddReminder(open.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	_, err = d.AddReminder(open.ID, now)
	require.NoError(t, err)
	_, err = d.AddReminder(open.ID, now.Add(time.Minute))
	require.NoError(t, err)
	_, err = d.AddReminder(done.ID, now.Add(-time.Hour))
	require.NoError(t, err)

	due, err := d.DueReminders(now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	for _, r := range due {
		assert.Equal(t, open.ID, r.TaskID)
		assert.Equal(t, "open", r.Title)
		assert.False(t, r.At.After(now))
	}
}

func TestSettings(t *testing.T) {
	d := newTestDB(t)

	v, err := d.GetSetting("last_tab")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, d.SetSetting("last_tab", "notes"))
	require.NoError(t, d.SetSetting("last_tab", "calendar"))
	v, err = d.GetSetting("last_tab")
	require.NoError(t, err)
	assert.Equal(t, "calendar", v)
}
