// Package document turns a file or stream into the list of DOIs it cites.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/ash/internal/extract"
	"github.com/matsen/ash/internal/report"
)

var (
	// ErrNotFound is returned when a document path does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrTypeUndetermined is returned when no content type can be inferred.
	ErrTypeUndetermined = errors.New("could not determine content type")

	// ErrUnsupportedType is returned when no handler is registered for the
	// content type.
	ErrUnsupportedType = extract.ErrUnsupportedType
)

// Document is the set of DOIs cited by one file or stream.
type Document struct {
	path        string
	contentType string
	dois        []string
}

// FromReader extracts DOIs from r. The content type must be given; streams
// without a path are never sniffed.
func FromReader(r io.Reader, contentType string, reg *extract.Registry) (*Document, error) {
	if contentType == "" {
		return nil, fmt.Errorf("%w: no content type given for stream", ErrTypeUndetermined)
	}
	return extractFrom(r, "", contentType, reg)
}

// FromText extracts DOIs from plain text.
func FromText(text string) (*Document, error) {
	return FromReader(strings.NewReader(text), extract.TypePlain, nil)
}

// FromPath extracts DOIs from the file at path. An empty contentType is
// resolved from the path.
func FromPath(path, contentType string, reg *extract.Registry) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	if contentType == "" {
		resolved, err := ResolveContentType(path)
		if err != nil {
			return nil, err
		}
		contentType = resolved
	}

	// Fail on unsupported types before opening the file.
	if reg == nil {
		reg = extract.NewRegistry()
	}
	if !reg.Supports(contentType) {
		return nil, fmt.Errorf("%s: %w: %q", path, ErrUnsupportedType, contentType)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return extractFrom(f, path, contentType, reg)
}

func extractFrom(r io.Reader, path, contentType string, reg *extract.Registry) (*Document, error) {
	if reg == nil {
		reg = extract.NewRegistry()
	}

	handler, err := reg.Lookup(contentType)
	if err != nil {
		return nil, err
	}

	dois, err := handler.ExtractDOIs(r)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}

	return &Document{path: path, contentType: contentType, dois: dois}, nil
}

// Path returns the source path, or "" for streams.
func (d *Document) Path() string { return d.path }

// ContentType returns the label used to select the handler.
func (d *Document) ContentType() string { return d.contentType }

// DOIs returns the cited DOIs in discovery order, duplicates included.
func (d *Document) DOIs() []string {
	return append([]string(nil), d.dois...)
}

// Report checks the document's DOIs against idx.
func (d *Document) Report(idx report.Index) (*report.Report, error) {
	return report.Build(d.dois, idx)
}
