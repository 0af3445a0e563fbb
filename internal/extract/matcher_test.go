package extract

import (
	"testing"

	"github.com/a3tai/invoice-extractor/internal/template"
)

func makeTemplate(name string, fields ...template.Field) *template.Template {
	return &template.Template{Name: name, Fields: template.NewFieldMap(fields...)}
}

func TestIsMatchAllKeywordsPresent(t *testing.T) {
	tpl := makeTemplate("Acme",
		template.Field{Name: "InvoiceNumber", Keyword: "Invoice Number"},
		template.Field{Name: "Amount", Keyword: "Total"},
	)

	text := "Invoice Number: INV-001\nSome line items\nTotal: 150.75"
	if !IsMatch(text, tpl) {
		t.Error("Expected match when every keyword appears")
	}
}

func TestIsMatchMissingKeyword(t *testing.T) {
	tpl := makeTemplate("Acme",
		template.Field{Name: "InvoiceNumber", Keyword: "Invoice Number"},
		template.Field{Name: "Amount", Keyword: "Grand Total"},
	)

	text := "Invoice Number: INV-001\nTotal: 150.75"
	if IsMatch(text, tpl) {
		t.Error("Expected no match when a keyword is absent")
	}
}

func TestIsMatchCaseInsensitive(t *testing.T) {
	tpl := makeTemplate("Acme",
		template.Field{Name: "InvoiceNumber", Keyword: "INVOICE NUMBER"},
	)

	if !IsMatch("invoice number: 42", tpl) {
		t.Error("Expected case-insensitive keyword matching")
	}
}

func TestIsMatchVacuousTrue(t *testing.T) {
	// A template with no keywords matches any document, including empty text
	tpl := makeTemplate("Bare",
		template.Field{Name: "Vendor"},
	)

	if !IsMatch("anything at all", tpl) {
		t.Error("Expected keywordless template to match any document")
	}
	if !IsMatch("", tpl) {
		t.Error("Expected keywordless template to match empty text")
	}
}

func TestIsMatchIgnoresEmptyKeywords(t *testing.T) {
	tpl := makeTemplate("Mixed",
		template.Field{Name: "Vendor"}, // no keyword
		template.Field{Name: "Amount", Keyword: "Total"},
	)

	if !IsMatch("Total due today", tpl) {
		t.Error("Expected empty keywords to be skipped during matching")
	}
	if IsMatch("no relevant content", tpl) {
		t.Error("Expected non-empty keyword to still be required")
	}
}
