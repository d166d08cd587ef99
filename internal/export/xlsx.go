// Package export writes the expense history as downloadable spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"expenses/internal/core"
)

const SheetName = "Expenses"

// Columns is the header row shared by every export format
var Columns = []string{"ID", "Date", "Category", "Description", "Amount", "Payment"}

// columnWidths are the XLSX widths of Columns, in order
var columnWidths = []float64{8, 12, 16, 32, 12, 14}

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// WriteXLSX writes records to w as a single-sheet workbook, one row per
// record in the given order. Amounts are numeric cells.
func WriteXLSX(w io.Writer, records []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for idx, e := range records {
		row := idx + 2
		values := []any{e.ID, e.Date.String(), e.Category, e.Description, e.Amount.Float(), e.PaymentMode}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name %d: %w", i+1, err)
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteCSV writes records to w with the same columns as WriteXLSX.
// Amounts use two decimals with a dot separator.
func WriteCSV(w io.Writer, records []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range records {
		rec := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date.String(),
			e.Category,
			e.Description,
			e.Amount.Decimal().StringFixed(2),
			e.PaymentMode,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
