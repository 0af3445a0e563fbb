// Package export renders extracted invoice records as tabular files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/a3tai/invoice-extractor/internal/invoice"
)

// Headers is the column set shared by every export format.
var Headers = []string{"InvoiceNumber", "InvoiceDate", "Vendor", "Description", "Amount"}

// WriteCSV writes the invoice records to w with a header row. Amounts are
// rendered with full fractional precision and no thousands separators.
func WriteCSV(w io.Writer, invoices []invoice.Invoice) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	for i := range invoices {
		inv := &invoices[i]
		record := []string{
			inv.Number,
			inv.Date,
			inv.Vendor,
			inv.Description,
			invoice.FormatAmount(inv.Amount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the invoice records to the file at path.
func ExportCSV(path string, invoices []invoice.Invoice) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, invoices); err != nil {
		return err
	}
	return f.Close()
}
