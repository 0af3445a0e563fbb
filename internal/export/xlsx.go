package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/invoice-extractor/internal/invoice"
)

const sheetName = "Invoices"

// ExportXLSX writes the invoice records to an XLSX workbook at path with a
// single "Invoices" sheet using the same columns as the CSV export.
func ExportXLSX(path string, invoices []invoice.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("cannot create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("cannot drop default sheet: %w", err)
	}

	for col, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("cannot address header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("cannot write header: %w", err)
		}
	}

	for row := range invoices {
		inv := &invoices[row]
		values := []any{inv.Number, inv.Date, inv.Vendor, inv.Description, inv.Amount}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("cannot address cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("cannot write row %d: %w", row+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save workbook %s: %w", path, err)
	}
	return nil
}
