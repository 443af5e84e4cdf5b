// Package extract pulls DOIs out of document content, dispatching on the
// content-type label of the input.
package extract

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Content-type labels with a registered handler.
const (
	TypePDF       = "application/pdf"
	TypeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeRTF       = "application/rtf"
	TypeTextRTF   = "text/rtf"
	TypeMSWord    = "application/msword" // .rtf as reported on Windows
	TypePlain     = "text/plain"
	TypeLaTeX     = "application/x-latex"
	TypeTeX       = "text/x-tex"        // .tex on Linux
	TypeTeXWindow = "application/x-tex" // .tex on Windows
)

// ErrUnsupportedType is returned when no handler is registered for a label.
var ErrUnsupportedType = errors.New("unsupported content type")

// Handler extracts DOIs from content of one declared type.
type Handler interface {
	ExtractDOIs(r io.Reader) ([]string, error)
}

// Error reports a failure to decode content of a given type.
type Error struct {
	ContentType string
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extracting %s content: %v", e.ContentType, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type entry struct {
	labels []string
	newFn  func(label string) Handler
}

// handlerTable is the fixed set of supported formats.
var handlerTable = []entry{
	{[]string{TypePDF}, func(string) Handler { return &PDFHandler{} }},
	{[]string{TypeDOCX}, func(string) Handler { return &DOCXHandler{} }},
	{[]string{TypeRTF, TypeTextRTF, TypeMSWord}, func(label string) Handler { return &RTFHandler{Label: label} }},
	{[]string{TypePlain, TypeLaTeX, TypeTeX, TypeTeXWindow}, func(label string) Handler { return &PlainTextHandler{Label: label} }},
}

// Registry maps content-type labels to handler constructors.
// It is read-only once built.
type Registry struct {
	handlers map[string]func(label string) Handler
}

// NewRegistry builds the registry of all supported formats.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]func(label string) Handler)}
	for _, e := range handlerTable {
		for _, label := range e.labels {
			r.handlers[label] = e.newFn
		}
	}
	return r
}

// Lookup returns a fresh handler for the exact label. Handlers shared by
// several labels report failures under the label they were looked up with.
func (r *Registry) Lookup(contentType string) (Handler, error) {
	newFn, ok := r.handlers[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return newFn(contentType), nil
}

// Supports reports whether a handler is registered for the label.
func (r *Registry) Supports(contentType string) bool {
	_, ok := r.handlers[contentType]
	return ok
}

// Labels returns all registered labels in sorted order.
func (r *Registry) Labels() []string {
	labels := make([]string, 0, len(r.handlers))
	for label := range r.handlers {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// wrap attaches the content type to a decoding failure.
func wrap(contentType string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{ContentType: contentType, Err: err}
}

// labelOr returns label, or fallback when the handler was built directly.
func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
