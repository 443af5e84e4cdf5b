package document

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/matsen/ash/internal/extract"
)

// suffixTypes pins the labels of supported suffixes so resolution does not
// depend on the host's mime.types.
var suffixTypes = map[string]string{
	".pdf":   extract.TypePDF,
	".docx":  extract.TypeDOCX,
	".rtf":   extract.TypeRTF,
	".doc":   extract.TypeMSWord,
	".txt":   extract.TypePlain,
	".text":  extract.TypePlain,
	".tex":   extract.TypeTeX,
	".latex": extract.TypeLaTeX,
	".ltx":   extract.TypeLaTeX,
}

// ResolveContentType determines the content-type label for a file, first by
// suffix and then by sniffing its leading bytes. Media-type parameters such
// as charset are dropped.
func ResolveContentType(path string) (string, error) {
	if label := typeBySuffix(path); label != "" {
		return label, nil
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTypeUndetermined, path, err)
	}
	if mt.Is("application/octet-stream") {
		return "", fmt.Errorf("%w: %s", ErrTypeUndetermined, path)
	}
	return baseType(mt.String()), nil
}

func typeBySuffix(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if label, ok := suffixTypes[ext]; ok {
		return label
	}
	return baseType(mime.TypeByExtension(ext))
}

// baseType strips parameters from a media type.
func baseType(mediaType string) string {
	if mediaType == "" {
		return ""
	}
	base, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.TrimSpace(strings.SplitN(mediaType, ";", 2)[0])
	}
	return base
}
