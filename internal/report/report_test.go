package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/models"
)

func sample(t *testing.T) *Report {
	t.Helper()
	due := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	r, err := New(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local),
		[]models.Task{
			{Title: "Write report", Details: "quarterly numbers", Tags: "Work,Home", DueDate: &due, IsCompleted: true},
			{Title: "Plan trip " + strings.Repeat("very ", 30) + "long"},
		},
	)
	require.NoError(t, err)
	return r
}

func TestNewRequiresTasks(t *testing.T) {
	_, err := New(time.Now(), time.Now(), nil)
	assert.True(t, errors.Is(err, ErrNoTasks))
}

func TestResolve(t *testing.T) {
	cases := []struct {
		path, format string
		wantPath     string
		want         Format
	}{
		{"out.xlsx", "", "out.xlsx", Excel},
		{"out.PDF", "", "out.PDF", PDF},
		{"out", "", "out.txt", Text},
		{"out.csv", "", "out.csv.txt", Text},
		{"out", "xlsx", "out.xlsx", Excel},
		{"out.txt", "pdf", "out.txt.pdf", PDF},
		{"out.pdf", ".pdf", "out.pdf", PDF},
	}
	for _, c := range cases {
		path, f, err := Resolve(c.path, c.format)
		require.NoError(t, err, c.path)
		assert.Equal(t, c.wantPath, path)
		assert.Equal(t, c.want, f)
	}

	_, _, err := Resolve("out", "docx")
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sample(t)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Task report from 01.03.2025 to 31.03.2025:\n"))
	assert.Contains(t, out, "Task: Write report\nStatus: Done | Due: 14.03.2025\n  Details: quarterly numbers\n  Tags: Work,Home\n")
	assert.Contains(t, out, "Status: Not done | No due date\n")
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("-", 40)))
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, sample(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Report 01.03.2025-31.03.2025"
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"Write report", "Done", "14.03.2025", "quarterly numbers", "Work,Home"}, rows[1])

	width, err := f.GetColWidth(sheet, "B")
	require.NoError(t, err)
	assert.InDelta(t, 12.0, width, 0.01)

	width, err = f.GetColWidth(sheet, "A")
	require.NoError(t, err)
	assert.InDelta(t, float64(maxColumnWidth), width, 0.01)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter("")
	r := sample(t)

	path, err := e.Export(r, filepath.Join(dir, "reports", "march"), "pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "march.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	path, err = e.Export(r, filepath.Join(dir, "march.xlsx"), "")
	require.NoError(t, err)
	assert.FileExists(t, path)

	path, err = e.Export(r, filepath.Join(dir, "march"), "")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Task: Write report")
}

func TestLoad(t *testing.T) {
	d, err := db.New(filepath.Join(t.TempDir(), "zt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local)

	_, err = Load(d, start, end)
	assert.True(t, errors.Is(err, ErrNoTasks))

	inside := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	outside := time.Date(2025, 4, 10, 0, 0, 0, 0, time.Local)
	_, err = d.CreateTask(db.TaskInput{Title: "in range", DueDate: &inside})
	require.NoError(t, err)
	_, err = d.CreateTask(db.TaskInput{Title: "out of range", DueDate: &outside})
	require.NoError(t, err)

	r, err := Load(d, start, end)
	require.NoError(t, err)
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "in range", r.Tasks[0].Title)

	_, err = Load(d, end, start)
	assert.Error(t, err)
}

func TestFitCutsAccentedText(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	assert.Equal(t, tr("Café"), fit(pdf, tr, "Café", 48))

	out := fit(pdf, tr, "Réunion équipe café résumé prévisionnel détaillé", 48)
	assert.True(t, strings.HasPrefix(out, tr("Réunion équipe")), "%q", out)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.NotContains(t, out, "\uFFFD")
	assert.LessOrEqual(t, pdf.GetStringWidth(out), 48.0)

	// the result is a translated prefix of the title, not a byte-mangled one
	title := []rune("Réunion équipe café résumé prévisionnel détaillé")
	found := false
	for n := range title {
		if tr(string(title[:n])+"...") == out {
			found = true
		}
	}
	assert.True(t, found, "%q", out)
}
