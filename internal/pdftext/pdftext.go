// Package pdftext extracts plain text from PDF documents.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrEmpty is returned for zero-length input.
	ErrEmpty = errors.New("pdftext: empty document")

	// ErrInvalidPDF is returned when the input cannot be parsed as a PDF.
	ErrInvalidPDF = errors.New("pdftext: invalid PDF")
)

// ExtractPages returns the trimmed plain text of every page in document order.
// Pages without a content stream yield an empty string. Any page failure
// fails the whole document.
func ExtractPages(data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d of %d: %w", i, numPages, err)
		}
		// The reader emits a line break before each text run.
		pages = append(pages, strings.TrimSpace(text))
	}

	return pages, nil
}

// Extract returns the text of all pages, each followed by a newline, with
// leading and trailing whitespace removed from the result.
func Extract(data []byte) (string, error) {
	pages, err := ExtractPages(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, page := range pages {
		b.WriteString(page)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String()), nil
}
