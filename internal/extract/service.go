package extract

import (
	"fmt"
	"log"

	"github.com/a3tai/invoice-extractor/internal/invoice"
	"github.com/a3tai/invoice-extractor/internal/pdffile"
	"github.com/a3tai/invoice-extractor/internal/template"
)

// SegmentMode selects how a document is partitioned into invoice spans.
type SegmentMode string

const (
	// SegmentByPage treats each physical page as one invoice span.
	SegmentByPage SegmentMode = "page"
	// SegmentByKeyword splits the full document text on the first template
	// keyword found on the first page.
	SegmentByKeyword SegmentMode = "keyword"
)

// Valid reports whether the mode is one of the supported strategies.
func (m SegmentMode) Valid() bool {
	return m == SegmentByPage || m == SegmentByKeyword
}

// Document is the extraction engine's view of an open PDF. pdffile.Document
// satisfies it; tests substitute fakes.
type Document interface {
	PageCount() int
	PageText(pageNum int) (string, error)
	FullText() string
	Glyphs(pageNum int) ([]pdffile.Glyph, error)
	Close() error
}

// OpenFunc opens a document for the duration of one extraction call.
type OpenFunc func(path string) (Document, error)

// Service is the extraction engine's public surface. It holds no mutable
// state, so extractions for different documents may run concurrently; each
// call acquires and releases its own document handle.
type Service struct {
	open OpenFunc
	mode SegmentMode
}

// NewService creates an extraction service reading PDFs from disk with the
// given file size limit.
func NewService(maxFileSize int64, mode SegmentMode) *Service {
	opener := pdffile.NewOpener(maxFileSize)
	return NewServiceWithOpener(func(path string) (Document, error) {
		return opener.Open(path)
	}, mode)
}

// NewServiceWithOpener creates an extraction service with a custom document
// opener. Used by tests and by callers that source documents from elsewhere
// than the local filesystem.
func NewServiceWithOpener(open OpenFunc, mode SegmentMode) *Service {
	if !mode.Valid() {
		mode = SegmentByPage
	}
	return &Service{open: open, mode: mode}
}

// IsTemplateMatch reports whether the template's keywords all appear in the
// document at path. An unreadable document never errors; it simply does not
// match.
func (s *Service) IsTemplateMatch(path string, tpl *template.Template) bool {
	doc, err := s.open(path)
	if err != nil {
		log.Printf("template match: cannot open %s: %v", path, err)
		return false
	}
	defer doc.Close()

	fullText := doc.FullText()
	if fullText == "" {
		return false
	}
	return IsMatch(fullText, tpl)
}

// MatchTemplate returns the first template whose keywords all match the
// document, in template list order. A document matching no template is a
// normal outcome, reported via the boolean, not an error.
func (s *Service) MatchTemplate(path string, templates []template.Template) (*template.Template, bool) {
	doc, err := s.open(path)
	if err != nil {
		log.Printf("template match: cannot open %s: %v", path, err)
		return nil, false
	}
	defer doc.Close()

	fullText := doc.FullText()
	if fullText == "" {
		return nil, false
	}
	for i := range templates {
		if IsMatch(fullText, &templates[i]) {
			return &templates[i], true
		}
	}
	return nil, false
}

// ExtractInvoices applies the template to the document at path and returns
// one record per segmented span that produced a usable invoice number, in
// span order.
//
// Open and parse failures are logged and yield an empty result; the only
// error returned is ErrNoKeywords from keyword segmentation, which indicates
// the template needs repair.
func (s *Service) ExtractInvoices(path string, tpl *template.Template) ([]invoice.Invoice, error) {
	doc, err := s.open(path)
	if err != nil {
		log.Printf("error extracting invoices from %s: %v", path, err)
		return nil, nil
	}
	defer doc.Close()

	spans, err := s.spans(doc, tpl)
	if err != nil {
		return nil, err
	}

	var invoices []invoice.Invoice
	for _, span := range spans {
		inv := invoice.Invoice{}
		for _, field := range tpl.Fields.Values() {
			value := Resolve(span.Text, field, span.Page, doc)
			if value != "" {
				inv.Assign(field.Name, value)
			}
		}
		// Records without an invoice number carry no meaningful data.
		if !inv.IsEmpty() {
			invoices = append(invoices, inv)
		}
	}
	return invoices, nil
}

// spans partitions the document according to the configured segmentation
// mode.
func (s *Service) spans(doc Document, tpl *template.Template) ([]Span, error) {
	if s.mode == SegmentByKeyword {
		return Segment(doc.FullText(), tpl)
	}

	var spans []Span
	for pageNum := 1; pageNum <= doc.PageCount(); pageNum++ {
		text, err := doc.PageText(pageNum)
		if err != nil {
			log.Printf("skipping page %d: %v", pageNum, err)
			continue
		}
		spans = append(spans, Span{Text: text, Page: pageNum})
	}
	return spans, nil
}

// String implements fmt.Stringer for diagnostics.
func (s *Service) String() string {
	return fmt.Sprintf("extract.Service{mode: %s}", s.mode)
}
