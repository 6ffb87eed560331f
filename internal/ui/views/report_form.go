package views

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/zt/internal/models"
	"github.com/tgienger/zt/internal/report"
	"github.com/tgienger/zt/internal/ui/keys"
	"github.com/tgienger/zt/internal/ui/styles"
)

const (
	reportStart = iota
	reportEnd
	reportPath
	reportExport
)

// reportForm asks for the date range and the output file of a report
type reportForm struct {
	active bool
	inputs [3]textinput.Model
	focus  int
	dir    string
}

func newReportForm(dir string) reportForm {
	var inputs [3]textinput.Model
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 10
		inputs[i].Placeholder = "YYYY-MM-DD"
	}
	inputs[reportPath].CharLimit = 512
	inputs[reportPath].Placeholder = "report.xlsx"
	return reportForm{inputs: inputs, dir: dir}
}

// open presets the last seven days and a file name for that range
func (f *reportForm) open(now time.Time) {
	end := startOfDay(now)
	start := end.AddDate(0, 0, -7)

	f.active = true
	f.inputs[reportStart].SetValue(start.Format(models.DateLayout))
	f.inputs[reportEnd].SetValue(end.Format(models.DateLayout))
	f.inputs[reportPath].SetValue(filepath.Join(f.dir, report.DefaultFilename(start, end)+"."+string(report.Excel)))
	f.focus = reportStart
	f.updateFocus()
}

func (f *reportForm) close() {
	f.active = false
	f.updateFocus()
}

func (f *reportForm) updateFocus() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if f.active && f.focus < len(f.inputs) {
		f.inputs[f.focus].Focus()
	}
}

func (f *reportForm) move(dir int) {
	f.focus = (f.focus + dir + reportExport + 1) % (reportExport + 1)
	f.updateFocus()
}

// export loads the tasks due in the range and writes the file. Format
// follows the file extension.
func (f *reportForm) export(src report.TaskLister, exporter *report.Exporter) tea.Cmd {
	start, err := parseDate(f.inputs[reportStart].Value())
	if err == nil && start == nil {
		err = errors.New("start date is required")
	}
	if err != nil {
		return alert("Invalid range", err.Error())
	}
	end, err := parseDate(f.inputs[reportEnd].Value())
	if err == nil && end == nil {
		err = errors.New("end date is required")
	}
	if err != nil {
		return alert("Invalid range", err.Error())
	}

	r, err := report.Load(src, *start, *end)
	if errors.Is(err, report.ErrNoTasks) {
		return alert("Nothing to export", "No tasks are due in the selected period.")
	}
	if err != nil {
		return failed("build the report", err)
	}

	path, err := exporter.Export(r, f.inputs[reportPath].Value(), "")
	if err != nil {
		return failed("export the report", err)
	}
	f.close()
	return alert("Report saved", fmt.Sprintf("%d tasks written to\n%s", len(r.Tasks), path))
}

func (f *reportForm) update(msg tea.KeyMsg, km keys.KeyMap, src report.TaskLister, exporter *report.Exporter) tea.Cmd {
	switch {
	case key.Matches(msg, km.Back):
		f.close()
		return nil
	case key.Matches(msg, km.Tab), msg.String() == "down":
		f.move(1)
		return nil
	case msg.String() == "shift+tab", msg.String() == "up":
		f.move(-1)
		return nil
	case key.Matches(msg, km.Save):
		return f.export(src, exporter)
	case key.Matches(msg, km.Enter):
		if f.focus == reportExport {
			return f.export(src, exporter)
		}
		f.move(1)
		return nil
	}

	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *reportForm) view(s *styles.Styles, width, height int) string {
	inputWidth := clamp(width-6, 20, 60)
	style := func(field int) lipgloss.Style {
		if f.focus == field {
			return s.InputFocused
		}
		return s.Input
	}
	btn := s.Button
	if f.focus == reportExport {
		btn = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Export Report"),
		"",
		"From:",
		style(reportStart).Width(16).Render(f.inputs[reportStart].View()),
		"To:",
		style(reportEnd).Width(16).Render(f.inputs[reportEnd].View()),
		"File (.txt, .xlsx or .pdf):",
		style(reportPath).Width(inputWidth).Render(f.inputs[reportPath].View()),
		"",
		btn.Render(" Export "),
		"",
		s.TitleMuted.Render("Tab: next • ↵: export • Esc: cancel"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
