package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a Dataset as a one-table PDF document suitable for the
// catalog listing download.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// usable width of an A4 page with 10mm side margins
const pageWidth = 190.0

func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("dataset has no headers")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(10, 15, 10)
	doc.AddPage()

	if title != "" {
		doc.SetFont("Arial", "B", 14)
		doc.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		doc.Ln(5)
	}

	colWidth := pageWidth / float64(len(data.Headers))

	doc.SetFont("Arial", "B", 10)
	writeTableRow(doc, data.Headers, colWidth, 8, "C")

	doc.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		writeTableRow(doc, data.record(row), colWidth, 7, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTableRow(doc *gofpdf.Fpdf, cells []string, colWidth, height float64, align string) {
	for _, cell := range cells {
		doc.CellFormat(colWidth, height, cell, "1", 0, align, false, 0, "")
	}
	doc.Ln(-1)
}
