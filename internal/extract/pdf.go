package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/matsen/ash/internal/doi"
)

// PDFHandler extracts DOIs from the text of every page of a PDF.
type PDFHandler struct{}

// ExtractDOIs implements Handler.
func (h *PDFHandler) ExtractDOIs(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrap(TypePDF, fmt.Errorf("reading: %w", err))
	}

	text, err := pdfText(data)
	if err != nil {
		return nil, wrap(TypePDF, err)
	}
	return doi.Extract(text), nil
}

// pdfText returns the plain text of all pages joined by newlines.
func pdfText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("parsing PDF: %v", p)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}
