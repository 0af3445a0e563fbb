// Package extract implements the template-driven field extraction engine:
// deciding whether a template applies to a document, splitting a document
// into per-invoice spans, and resolving each field's value by keyword search
// with a spatial glyph-box fallback.
package extract

import (
	"strings"

	"github.com/a3tai/invoice-extractor/internal/template"
)

// IsMatch reports whether every field keyword of the template appears in the
// document text, case-insensitively. A template with no non-empty keyword
// matches vacuously; callers that consider that undesirable filter such
// templates out before matching.
func IsMatch(documentText string, tpl *template.Template) bool {
	lowerText := strings.ToLower(documentText)
	for _, field := range tpl.Fields.Values() {
		if !field.HasKeyword() {
			continue
		}
		if !strings.Contains(lowerText, strings.ToLower(field.Keyword)) {
			return false
		}
	}
	return true
}
