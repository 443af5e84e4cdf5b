package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/ash/internal/doi"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPart  = "word/document.xml"
)

// DOCXHandler extracts DOIs from the main document part of a Word package.
type DOCXHandler struct{}

// ExtractDOIs implements Handler.
func (h *DOCXHandler) ExtractDOIs(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrap(TypeDOCX, fmt.Errorf("reading: %w", err))
	}

	xmlContent, err := readDocumentPart(data)
	if err != nil {
		return nil, wrap(TypeDOCX, err)
	}

	paragraphs, err := docxParagraphs(xmlContent)
	if err != nil {
		return nil, wrap(TypeDOCX, err)
	}
	return doi.Extract(strings.Join(paragraphs, "\n\n")), nil
}

func readDocumentPart(data []byte) ([]byte, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	f, err := archive.Open(documentPart)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", documentPart, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", documentPart, err)
	}
	return content, nil
}

// docxParagraphs returns the text of each non-empty w:p element in document
// order. Text inside a nested paragraph counts toward every enclosing one.
func docxParagraphs(content []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		texts  []*strings.Builder
		open   []int
		inText int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				texts = append(texts, &strings.Builder{})
				open = append(open, len(texts)-1)
			case "t":
				inText++
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			case "t":
				if inText > 0 {
					inText--
				}
			}
		case xml.CharData:
			if inText == 0 {
				continue
			}
			for _, idx := range open {
				texts[idx].Write(t)
			}
		}
	}

	paragraphs := make([]string, 0, len(texts))
	for _, b := range texts {
		if s := b.String(); s != "" {
			paragraphs = append(paragraphs, s)
		}
	}
	return paragraphs, nil
}
