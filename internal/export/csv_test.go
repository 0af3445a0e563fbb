package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3tai/invoice-extractor/internal/invoice"
)

var sampleInvoices = []invoice.Invoice{
	{
		Number:      "INV-001",
		Date:        "2024-03-15",
		Vendor:      "Acme Corp",
		Description: "Office supplies",
		Amount:      150.75,
	},
	{
		Number: "INV-002",
		Vendor: "Widgets Inc",
		Amount: 200,
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleInvoices); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 records, got %d lines: %q", len(lines), lines)
	}

	if lines[0] != "InvoiceNumber,InvoiceDate,Vendor,Description,Amount" {
		t.Errorf("Header = %q", lines[0])
	}
	if lines[1] != "INV-001,2024-03-15,Acme Corp,Office supplies,150.75" {
		t.Errorf("First record = %q", lines[1])
	}
	if lines[2] != "INV-002,,Widgets Inc,,200" {
		t.Errorf("Second record = %q", lines[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	got := strings.TrimRight(buf.String(), "\n")
	if got != "InvoiceNumber,InvoiceDate,Vendor,Description,Amount" {
		t.Errorf("Expected header-only output, got %q", got)
	}
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	invoices := []invoice.Invoice{
		{Number: "INV-003", Vendor: "Acme, Inc.", Amount: 10},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, invoices); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"Acme, Inc."`) {
		t.Errorf("Expected embedded comma to be quoted, got %q", buf.String())
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.csv")
	if err := ExportCSV(path, sampleInvoices); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "InvoiceNumber,") {
		t.Errorf("Exported file does not start with header: %q", string(data))
	}
	if !strings.Contains(string(data), "INV-001") {
		t.Error("Exported file missing invoice record")
	}
}

func TestExportCSVBadPath(t *testing.T) {
	if err := ExportCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), nil); err == nil {
		t.Error("Expected error creating file in nonexistent directory")
	}
}
