// Package report exports the planner tasks of a date range as a text file,
// an Excel workbook or a PDF table.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/models"
)

const displayDate = "02.01.2006"

var ErrNoTasks = errors.New("no tasks found for the selected period")

type Format string

const (
	Text  Format = "txt"
	Excel Format = "xlsx"
	PDF   Format = "pdf"
)

// Report is the input of every exporter
type Report struct {
	Start time.Time
	End   time.Time
	Tasks []models.Task
}

func New(start, end time.Time, tasks []models.Task) (*Report, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	return &Report{Start: start, End: end, Tasks: tasks}, nil
}

// TaskLister is the query the report needs from the database
type TaskLister interface {
	ListTasks(f db.Filter) ([]models.Task, error)
}

// Load collects the tasks due within [start, end], completed or not
func Load(src TaskLister, start, end time.Time) (*Report, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("report period ends before it starts")
	}
	tasks, err := src.ListTasks(db.Filter{Kind: db.FilterDateRange, Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("load report tasks: %w", err)
	}
	return New(start, end, tasks)
}

func (r *Report) Title() string {
	return fmt.Sprintf("Task report %s - %s", r.Start.Format(displayDate), r.End.Format(displayDate))
}

// DefaultFilename is the suggested file name without extension
func DefaultFilename(start, end time.Time) string {
	return fmt.Sprintf("Task report %s - %s", start.Format(models.DateLayout), end.Format(models.DateLayout))
}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(s), ".")) {
	case Text:
		return Text, nil
	case Excel:
		return Excel, nil
	case PDF:
		return PDF, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Resolve picks the output format and final path. An explicit format wins
// over the extension; a path without a known extension gets one appended,
// text by default.
func Resolve(path, format string) (string, Format, error) {
	if format != "" {
		f, err := ParseFormat(format)
		if err != nil {
			return "", "", err
		}
		if ext, err := ParseFormat(filepath.Ext(path)); err != nil || ext != f {
			path += "." + string(f)
		}
		return path, f, nil
	}

	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return path, f, nil
	}
	return path + "." + string(Text), Text, nil
}

func status(t models.Task) string {
	if t.IsCompleted {
		return "Done"
	}
	return "Not done"
}

func dueDate(t models.Task) string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(displayDate)
}

// Exporter writes reports to disk. FontPath optionally points at a TTF
// used for PDF output so that non-Latin text renders.
type Exporter struct {
	FontPath string
}

func NewExporter(fontPath string) *Exporter {
	return &Exporter{FontPath: fontPath}
}

// Export writes r to path in the given format ("" picks by extension)
// and returns the path actually written.
func (e *Exporter) Export(r *Report, path, format string) (string, error) {
	path, f, err := Resolve(path, format)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create report dir: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}

	switch f {
	case Excel:
		err = WriteExcel(out, r)
	case PDF:
		err = e.WritePDF(out, r)
	default:
		err = WriteText(out, r)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s report: %w", f, err)
	}
	return path, nil
}
