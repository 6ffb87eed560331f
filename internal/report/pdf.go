package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Task", 50},
	{"Status", 22},
	{"Due date", 24},
	{"Details", 50},
	{"Tags", 24},
}

// WritePDF renders the report as an A4 table
func (e *Exporter) WritePDF(w io.Writer, r *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title(), true)
	pdf.SetAuthor("zt", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	font, tr := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if e.FontPath != "" {
		font = "ReportFont"
		pdf.AddUTF8Font(font, "", e.FontPath)
		pdf.AddUTF8Font(font, "B", e.FontPath)
		tr = func(s string) string { return s }
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	header := func() {
		pdf.SetFont(font, "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(font, "", 9)
	}

	pdf.AddPage()
	pdf.SetFont(font, "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title()), "", 1, "C", false, 0, "")
	pdf.Ln(3)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, t := range r.Tasks {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		cells := []string{t.Title, status(t), dueDate(t), t.Details, t.Tags}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, fit(pdf, tr, cells[i], c.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// fit shortens s with an ellipsis until it fits into width and returns
// it translated for the current font. Cuts are made on the UTF-8 text,
// since tr may turn it into single-byte cp1252.
func fit(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if pdf.GetStringWidth(tr(s)) <= width {
		return tr(s)
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(tr(string(runes)+"...")) > width {
		runes = runes[:len(runes)-1]
	}
	return tr(string(runes) + "...")
}
