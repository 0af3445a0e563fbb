package extract

import (
	"regexp"
	"strings"

	"github.com/a3tai/invoice-extractor/internal/pdffile"
	"github.com/a3tai/invoice-extractor/internal/template"
)

// Spatial fallback rectangle: anchored at the field's coordinates, extending
// right and up in page space (y grows upward).
const (
	spatialBoxWidth  = 50.0
	spatialBoxHeight = 20.0
)

// GlyphSource yields per-character bounding boxes for a 1-based page.
// An open document satisfies it.
type GlyphSource interface {
	Glyphs(pageNum int) ([]pdffile.Glyph, error)
}

// Resolve produces the value of one field within one text span. Tier 1 is a
// keyword search capturing the remainder of the matched line; Tier 2 is a
// glyph-box lookup on the span's physical page, attempted only when Tier 1
// finds nothing and the field carries a spatial hint. An empty string means
// "not found"; resolution never fails.
func Resolve(span string, field template.Field, pageNum int, glyphs GlyphSource) string {
	if value := resolveKeyword(span, field.Keyword); value != "" {
		return value
	}
	if !field.HasSpatialHint() || glyphs == nil {
		return ""
	}
	return resolveSpatial(field, pageNum, glyphs)
}

// resolveKeyword matches the keyword followed by an optional separator and
// captures the rest of that line. Case-insensitive, first match wins.
func resolveKeyword(span, keyword string) string {
	if keyword == "" {
		return ""
	}

	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(keyword) + `\s*:?\s*(.*)`)
	if err != nil {
		return ""
	}
	match := re.FindStringSubmatch(span)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// resolveSpatial concatenates, in native order, every glyph whose bounding
// box lies fully within the fallback rectangle. Any page or glyph access
// failure is treated as "not found".
func resolveSpatial(field template.Field, pageNum int, glyphs GlyphSource) string {
	pageGlyphs, err := glyphs.Glyphs(pageNum)
	if err != nil {
		return ""
	}

	left, bottom := field.X, field.Y
	right, top := field.X+spatialBoxWidth, field.Y+spatialBoxHeight

	var builder strings.Builder
	for _, g := range pageGlyphs {
		if g.Left >= left && g.Right <= right && g.Bottom >= bottom && g.Top <= top {
			builder.WriteString(g.Char)
		}
	}
	return strings.TrimSpace(builder.String())
}
