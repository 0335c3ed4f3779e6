// Package pdf extracts text content from PDF invoices
package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/fakturnia/ksef-processor/internal/model"
)

// Extractor pulls text out of PDF files page by page
type Extractor struct {
	// validate runs a structural check on the document before text
	// extraction, so corrupt files fail with a useful error instead
	// of garbage text.
	validate bool
}

// ExtractorOption configures the extractor
type ExtractorOption func(*Extractor)

// WithoutValidation skips the structural PDF check
func WithoutValidation() ExtractorOption {
	return func(e *Extractor) {
		e.validate = false
	}
}

// NewExtractor creates a PDF text extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{validate: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText returns the text content of every page, pages separated
// by a blank line. Reading order within a page follows the row layout.
func (e *Extractor) ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &model.FileNotFoundError{Path: path}
	}

	if e.validate {
		if err := api.ValidateFile(path, nil); err != nil {
			return "", fmt.Errorf("invalid PDF %s: %w", path, err)
		}
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	var pages []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := pageText(page)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d of %s: %w", pageNum, path, err)
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range rows {
		for i, word := range row.Content {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(word.S)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
