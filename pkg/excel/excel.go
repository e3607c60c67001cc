// Package excel maps product records to and from xlsx workbooks.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"sgp/internal/models"
)

const sheetName = "Products"

// Column widths are auto-sized to the longest cell, bounded below and above.
const (
	minColumnChars = 10
	maxColumnWidth = 40
)

// Export writes a workbook with one upper-cased header row and one row per
// record, columns in models.FieldOrder.
func Export(w io.Writer, products []models.Product) error {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetName)

	widths := make([]int, len(models.FieldOrder))

	header := make([]interface{}, len(models.FieldOrder))
	for i, field := range models.FieldOrder {
		name := strings.ToUpper(field)
		header[i] = name
		widths[i] = len(name)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for rowIdx, p := range products {
		values := p.FieldValues()
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return fmt.Errorf("failed to locate row %d: %w", rowIdx+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	for i := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to name column %d: %w", i+1, err)
		}
		chars := widths[i]
		if chars < minColumnChars {
			chars = minColumnChars
		}
		width := float64(chars + 2)
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Import reads the first sheet of a workbook into one map per data row. The
// header row is lower-cased and trimmed to derive the keys; columns with a
// blank header are dropped and fully blank data rows are skipped. Unknown
// columns are carried as-is for the caller to ignore.
func Import(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []map[string]string
	for _, row := range rows[1:] {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}

		record := make(map[string]string)
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			record[headers[i]] = cell
		}
		records = append(records, record)
	}
	return records, nil
}
