// Package pdfreport renders product records as a paginated PDF table.
package pdfreport

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"sgp/internal/models"
)

// DefaultTitle is used when the caller does not supply one.
const DefaultTitle = "Product Report"

// Column widths in millimeters, one per models.FieldOrder entry. They fit a
// letter page with 10mm side margins.
var colWidths = []float64{24, 50, 26, 22, 16, 18, 38}

const rowHeight = 6.0

// Export writes a titled, paginated table of the records in
// models.FieldOrder, repeating the upper-cased header row on every page.
func Export(w io.Writer, title string, products []models.Product) error {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(220, 220, 220)
		for i, field := range models.FieldOrder {
			pdf.CellFormat(colWidths[i], rowHeight, strings.ToUpper(field), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	writeHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()
	for _, p := range products {
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			writeHeader()
		}
		for i, val := range p.FieldValues() {
			pdf.CellFormat(colWidths[i], rowHeight, tr(val), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF report: %w", err)
	}
	return nil
}
