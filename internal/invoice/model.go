// Package invoice defines the extraction result record and the closed
// mapping from template field names onto its attributes.
package invoice

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical form invoice dates are normalized into.
const DateLayout = "2006-01-02"

// Invoice is one extraction result. A record is only considered meaningful
// when Number is non-empty; the assembler discards everything else.
type Invoice struct {
	Number      string  `json:"invoice_number"`
	Date        string  `json:"invoice_date"` // yyyy-MM-dd, empty if unparsed
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// IsEmpty reports whether the record failed the minimum viable identifier
// gate.
func (inv *Invoice) IsEmpty() bool {
	return inv.Number == ""
}

// FieldKind identifies one of the recognized invoice attributes. Template
// field names outside this set are ignored during assignment; arbitrary
// custom field names are never persisted onto the record.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindNumber
	KindDate
	KindVendor
	KindDescription
	KindAmount
)

// KindOf maps a template field name onto a FieldKind. SellerDetails and
// BuyerDetails are legacy aliases that land on the vendor attribute.
func KindOf(fieldName string) FieldKind {
	switch fieldName {
	case "InvoiceNumber":
		return KindNumber
	case "InvoiceDate":
		return KindDate
	case "Vendor", "SellerDetails", "BuyerDetails":
		return KindVendor
	case "Description":
		return KindDescription
	case "Amount":
		return KindAmount
	default:
		return KindUnknown
	}
}

// Assign stores a resolved value into the attribute named by fieldName.
// Unknown field names are a no-op. Date and amount values that fail to parse
// leave the attribute at its default; extraction continues regardless.
func (inv *Invoice) Assign(fieldName, value string) {
	switch KindOf(fieldName) {
	case KindNumber:
		inv.Number = value
	case KindDate:
		if date, ok := parseDate(value); ok {
			inv.Date = date.Format(DateLayout)
		}
	case KindVendor:
		inv.Vendor = value
	case KindDescription:
		inv.Description = value
	case KindAmount:
		if amount, ok := parseAmount(value); ok {
			inv.Amount = amount
		}
	case KindUnknown:
		// Not one of the recognized kinds; drop silently.
	}
}

// dateLayouts are the formats vendors commonly print. First match wins.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAmount(value string) (float64, bool) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimPrefix(cleaned, "€")
	cleaned = strings.TrimPrefix(cleaned, "£")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// FormatAmount renders an amount with full available fractional precision
// and no thousands separators, matching the export contract.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
