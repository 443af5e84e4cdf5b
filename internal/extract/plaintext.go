package extract

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/matsen/ash/internal/doi"
)

// PlainTextHandler extracts DOIs from UTF-8 text such as .txt or LaTeX
// sources.
type PlainTextHandler struct {
	// Label is the content type named in failures. Defaults to text/plain.
	Label string
}

// ExtractDOIs implements Handler.
func (h *PlainTextHandler) ExtractDOIs(r io.Reader) ([]string, error) {
	if sr, ok := r.(*strings.Reader); ok {
		var b strings.Builder
		if _, err := sr.WriteTo(&b); err != nil {
			return nil, wrap(labelOr(h.Label, TypePlain), fmt.Errorf("reading: %w", err))
		}
		return h.ExtractText(b.String()), nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrap(labelOr(h.Label, TypePlain), fmt.Errorf("reading: %w", err))
	}
	if !utf8.Valid(data) {
		return nil, wrap(labelOr(h.Label, TypePlain), ErrInvalidUTF8)
	}
	return h.ExtractText(string(data)), nil
}

// ExtractText extracts DOIs from already-decoded text.
func (h *PlainTextHandler) ExtractText(text string) []string {
	return doi.Extract(strings.TrimPrefix(text, "\ufeff"))
}
