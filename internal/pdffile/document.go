// Package pdffile wraps the underlying PDF parsing libraries behind a small
// text/glyph surface: open a document, read per-page text, read per-character
// bounding boxes. Everything above this package treats PDFs as a black box.
package pdffile

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageSeparator delimits page texts inside a document's full text. The
// segmenter relies on it to isolate the first page as its probe region.
const PageSeparator = "\f"

// defaultGlyphHeight approximates text height when a glyph carries no font
// size, matching the common 12pt body size.
const defaultGlyphHeight = 12.0

// Glyph is one rendered character with its bounding box in page coordinates
// (origin bottom-left, y grows upward).
type Glyph struct {
	Char   string  `json:"char"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

// Opener opens PDF documents subject to a file size limit.
type Opener struct {
	maxFileSize int64
}

// NewOpener creates an opener with the specified size constraint.
func NewOpener(maxFileSize int64) *Opener {
	return &Opener{maxFileSize: maxFileSize}
}

// Open validates and opens a PDF file. The returned document holds an open
// file handle and must be closed by the caller; a single handle must never be
// shared across concurrent extractions.
func (o *Opener) Open(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, fmt.Errorf("file is not a PDF: %s", path)
	}
	if o.maxFileSize > 0 && fileInfo.Size() > o.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), o.maxFileSize)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	return &Document{path: path, file: f, reader: reader}, nil
}

// Document is an open PDF handle exposing page text and glyph boxes.
type Document struct {
	path   string
	file   *os.File
	reader *pdf.Reader
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// PageText extracts the plain text of the 1-based page number in reading
// order.
func (d *Document) PageText(pageNum int) (string, error) {
	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return "", fmt.Errorf("invalid page number %d (document has %d pages)",
			pageNum, d.reader.NumPage())
	}

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("invalid page %d", pageNum)
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
	}
	return text, nil
}

// FullText concatenates every page's text, separated by PageSeparator.
// Pages that fail to extract contribute an empty string so page indices stay
// aligned with physical pages.
func (d *Document) FullText() string {
	var builder strings.Builder
	for pageNum := 1; pageNum <= d.reader.NumPage(); pageNum++ {
		if pageNum > 1 {
			builder.WriteString(PageSeparator)
		}
		text, err := d.PageText(pageNum)
		if err != nil {
			continue
		}
		builder.WriteString(text)
	}
	return builder.String()
}

// Glyphs returns the per-character bounding boxes of the 1-based page in
// their native content order. Malformed content streams can panic inside the
// parser, so glyph access is recovered and reported as an error.
func (d *Document) Glyphs(pageNum int) (glyphs []Glyph, err error) {
	defer func() {
		if r := recover(); r != nil {
			glyphs = nil
			err = fmt.Errorf("panic reading glyphs on page %d: %v", pageNum, r)
		}
	}()

	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return nil, fmt.Errorf("invalid page number %d (document has %d pages)",
			pageNum, d.reader.NumPage())
	}

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Errorf("invalid page %d", pageNum)
	}

	content := page.Content()
	glyphs = make([]Glyph, 0, len(content.Text))
	for _, text := range content.Text {
		// The library does not report text height; the font size is the
		// usual stand-in.
		height := text.FontSize
		if height == 0 {
			height = defaultGlyphHeight
		}
		glyphs = append(glyphs, Glyph{
			Char:   text.S,
			Left:   text.X,
			Right:  text.X + text.W,
			Bottom: text.Y,
			Top:    text.Y + height,
		})
	}
	return glyphs, nil
}
