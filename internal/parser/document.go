package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Document is a multi-page source of raw text.
type Document interface {
	PageCount() int
	// PageText returns the raw text of page i, counted from zero.
	PageText(i int) (string, error)
	Close() error
}

// Open picks a Document implementation from the file extension.
func Open(filePath string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return openPDF(filePath)
	case ".docx":
		return openDOCX(filePath)
	case ".pptx":
		return openPPTX(filePath)
	case ".xlsx":
		return openXLSX(filePath)
	case ".xlsm", ".xltx", ".xltm":
		return openExcelize(filePath)
	case ".md", ".markdown":
		return openMarkdown(filePath)
	case ".txt":
		return openText(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ReadPages returns the normalized text of pages startPage through endPage,
// both counted from one. An endPage of zero, or one past the last page,
// reads to the end of the document.
func ReadPages(doc Document, startPage, endPage int) ([]string, error) {
	total := doc.PageCount()
	if startPage <= 0 {
		startPage = 1
	}
	if endPage <= 0 || endPage > total {
		endPage = total
	}
	if startPage > endPage {
		return nil, fmt.Errorf("start page %d is past the last page %d", startPage, endPage)
	}

	pages := make([]string, 0, endPage-startPage+1)
	for i := startPage - 1; i < endPage; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i+1, err)
		}
		pages = append(pages, Normalize(text))
	}
	log.Debug().Int("from", startPage).Int("to", endPage).Int("total", total).Msg("Read pages")
	return pages, nil
}

// LoadPages opens filePath and reads its normalized pages.
func LoadPages(filePath string, startPage, endPage int) ([]string, error) {
	doc, err := Open(filePath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return ReadPages(doc, startPage, endPage)
}

type pdfDocument struct {
	f      *os.File
	reader *pdf.Reader
}

func openPDF(filePath string) (*pdfDocument, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read pdf %s: %w", filePath, err)
	}
	return &pdfDocument{f: f, reader: reader}, nil
}

func (d *pdfDocument) PageCount() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) PageText(i int) (string, error) {
	page := d.reader.Page(i + 1)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func (d *pdfDocument) Close() error {
	return d.f.Close()
}

// pages is an in-memory Document for formats decoded up front.
type pages []string

func (p pages) PageCount() int { return len(p) }

func (p pages) PageText(i int) (string, error) {
	if i < 0 || i >= len(p) {
		return "", fmt.Errorf("page %d out of range", i+1)
	}
	return p[i], nil
}

func (p pages) Close() error { return nil }

// NewTextDocument wraps already extracted page texts.
func NewTextDocument(texts ...string) Document {
	return pages(texts)
}

// openText treats form feeds as page breaks.
func openText(filePath string) (Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return pages(strings.Split(string(data), "\f")), nil
}
