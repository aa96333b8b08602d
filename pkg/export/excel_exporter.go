package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter renders datasets into a styled single-sheet workbook with a
// title row, a generation date row and a bold header row.
type ExcelExporter struct{}

// NewExcelExporter builds an Excel exporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Render produces an xlsx workbook for the dataset.
func (e *ExcelExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("excel requires at least one header")
	}

	f := excelize.NewFile()
	// Sheet names are capped at 31 characters and reject several symbols, so
	// the title lives in the heading row only.
	const sheet = "Export"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, fmt.Errorf("resolve column name: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title cells: %w", err)
	}
	if err := f.SetCellValue(sheet, "A1", data.Title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}

	if !data.GeneratedAt.IsZero() {
		if err := f.MergeCell(sheet, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge date cells: %w", err)
		}
		generated := "Generado: " + data.GeneratedAt.Format("02/01/2006 15:04")
		if err := f.SetCellValue(sheet, "A2", generated); err != nil {
			return nil, fmt.Errorf("write date: %w", err)
		}
	}

	const headerRow = 4
	for i, header := range data.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, fmt.Errorf("resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for rowIdx, row := range data.Rows {
		for colIdx, header := range data.Headers {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, headerRow+1+rowIdx)
			if err != nil {
				return nil, fmt.Errorf("resolve data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, row[header]); err != nil {
				return nil, fmt.Errorf("write data cell: %w", err)
			}
		}
	}

	for i, header := range data.Headers {
		width := float64(len(header)) + 6
		for _, row := range data.Rows {
			if w := float64(len(row[header])) + 4; w > width {
				width = w
			}
		}
		if width > 50 {
			width = 50
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("resolve column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
