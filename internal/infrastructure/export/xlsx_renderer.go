// Package export renders reports into spreadsheet documents.
package export

import (
	"fmt"
	"time"

	"github.com/haccp/backend/internal/application/costing"
	"github.com/xuri/excelize/v2"
)

var _ costing.SummaryRenderer = (*XLSXRenderer)(nil)

const (
	costSheet   = "Cost Summary"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	unitCostFmt = "#,##0.0000"
)

var costHeaders = []string{
	"Product Code", "Product Name", "Unit Cost", "Method",
	"Materials", "BOM Missing", "Warnings", "Error",
}

var costColumnWidths = []float64{16, 32, 14, 20, 11, 13, 11, 40}

// XLSXRenderer writes the cost summary as an Excel workbook
type XLSXRenderer struct{}

// NewXLSXRenderer creates a new XLSXRenderer
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) ContentType() string   { return xlsxMIME }
func (r *XLSXRenderer) FileExtension() string { return "xlsx" }

// RenderCostSummary writes one row per product, a header row and a
// generated-at footer
func (r *XLSXRenderer) RenderCostSummary(rows []costing.CostSummaryRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", costSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	costStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(unitCostFmt)})
	if err != nil {
		return nil, err
	}
	errorStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "#C00000"}})
	if err != nil {
		return nil, err
	}

	for i, h := range costHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(costSheet, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(costHeaders))
	if err := f.SetCellStyle(costSheet, "A1", last+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, row := range rows {
		n := i + 2
		values := []any{
			row.ProductCode,
			row.ProductName,
			row.UnitCost.InexactFloat64(),
			row.CalculationMethod,
			row.MaterialCount,
			yesNo(row.BOMMissing),
			yesNo(row.HasWarnings),
			row.Error,
		}
		if err := f.SetSheetRow(costSheet, fmt.Sprintf("A%d", n), &values); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(costSheet, fmt.Sprintf("C%d", n), fmt.Sprintf("C%d", n), costStyle); err != nil {
			return nil, err
		}
		if row.Error != "" {
			if err := f.SetCellStyle(costSheet, fmt.Sprintf("H%d", n), fmt.Sprintf("H%d", n), errorStyle); err != nil {
				return nil, err
			}
		}
	}

	footer := len(rows) + 3
	if err := f.SetCellValue(costSheet, fmt.Sprintf("A%d", footer), "Generated"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(costSheet, fmt.Sprintf("B%d", footer), generatedAt.UTC().Format(time.RFC3339)); err != nil {
		return nil, err
	}

	for i, w := range costColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(costSheet, col, col, w); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(costSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func strPtr(s string) *string { return &s }
