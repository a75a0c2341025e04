// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// sheetName is the workbook sheet holding the records.
const sheetName = "Sheet1"

// WriteXLSX writes the table as a single-sheet workbook with the same
// columns and row order as the CSV.
func (t *Table) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheetRow(f, 1, t.Columns); err != nil {
		return err
	}
	for i, rec := range t.Records {
		if err := writeSheetRow(f, i+2, t.row(rec)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("addressing workbook row %d: %w", rowNum, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("writing workbook row %d: %w", rowNum, err)
	}
	return nil
}
