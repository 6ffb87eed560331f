package report

import (
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxColumnWidth = 70

var headers = []string{"Task", "Status", "Due date", "Details", "Tags"}

// WriteExcel writes a single-sheet workbook with a bold, centered header row.
// Columns are sized to their longest value, capped at maxColumnWidth.
func WriteExcel(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Report %s-%s", r.Start.Format(displayDate), r.End.Format(displayDate))
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]string{headers}
	for _, t := range r.Tasks {
		rows = append(rows, []string{t.Title, status(t), dueDate(t), t.Details, t.Tags})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for col := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, columnWidth(rows, col)); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func columnWidth(rows [][]string, col int) float64 {
	longest := 0
	for _, row := range rows {
		if n := utf8.RuneCountInString(row[col]); n > longest {
			longest = n
		}
	}
	return math.Min(float64(longest+2)*1.2, maxColumnWidth)
}
