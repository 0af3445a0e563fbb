package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/a3tai/invoice-extractor/internal/pdffile"
	"github.com/a3tai/invoice-extractor/internal/template"
)

// ErrNoKeywords signals that a template carries no usable delimiter keyword,
// which makes keyword segmentation impossible. This is a template-authoring
// problem and is propagated so callers can prompt for repair.
var ErrNoKeywords = errors.New("template has no keyword to segment on")

// Span is a contiguous piece of document text presumed to correspond to one
// invoice. Page is the 1-based physical page the span starts on; the spatial
// fallback queries that page's glyphs.
type Span struct {
	Text string
	Page int
}

// Segment splits a document's full text into per-invoice spans using the
// template's keywords as delimiters.
//
// The first page of the document acts as a probe region: the first keyword
// found there (earliest position, then field declaration order) becomes the
// universal delimiter, and the entire document is split on every literal
// occurrence of the text it matched. The delimiter is re-prepended to each
// fragment since splitting consumes it. When no keyword appears on the first
// page the whole document is returned as a single span.
//
// A delimiter that also occurs inside a field value produces a spurious
// extra split; that is a known limitation of the heuristic.
func Segment(fullText string, tpl *template.Template) ([]Span, error) {
	keywords := tpl.Keywords()
	if len(keywords) == 0 {
		return nil, fmt.Errorf("template %q: %w", tpl.Name, ErrNoKeywords)
	}

	probe := firstPage(fullText)
	delimiter, found := firstKeywordIn(probe, keywords)
	if !found {
		return []Span{{Text: fullText, Page: 1}}, nil
	}

	fragments := strings.Split(fullText, delimiter)
	spans := make([]Span, 0, len(fragments))
	offset := 0
	for i, fragment := range fragments {
		start := offset
		offset += len(fragment) + len(delimiter)

		if strings.TrimSpace(fragment) == "" {
			continue
		}
		// Anchor the span on the delimiter occurrence that preceded the
		// fragment; the leading fragment has none.
		if i > 0 {
			start -= len(delimiter)
		}
		spans = append(spans, Span{
			Text: delimiter + fragment,
			Page: pageAt(fullText, start),
		})
	}
	return spans, nil
}

// firstPage returns the probe region: the document text up to the first page
// separator.
func firstPage(fullText string) string {
	if idx := strings.Index(fullText, pdffile.PageSeparator); idx >= 0 {
		return fullText[:idx]
	}
	return fullText
}

// firstKeywordIn finds the first keyword occurrence in the probe region and
// returns the matched text. A single alternation pattern gives earliest
// position wins, with keyword list order breaking ties at the same position.
func firstKeywordIn(probe string, keywords []string) (string, bool) {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}

	re, err := regexp.Compile(`(?i)` + strings.Join(quoted, "|"))
	if err != nil {
		return "", false
	}
	match := re.FindString(probe)
	if match == "" {
		return "", false
	}
	return match, true
}

// pageAt returns the 1-based physical page containing the given byte offset.
func pageAt(fullText string, offset int) int {
	if offset > len(fullText) {
		offset = len(fullText)
	}
	return 1 + strings.Count(fullText[:offset], pdffile.PageSeparator)
}
