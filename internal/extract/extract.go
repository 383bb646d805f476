// Package extract turns downloaded document bytes into plain text.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MIME types with a text extractor.
const (
	MimePDF      = "application/pdf"
	MimeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeHTML     = "text/html"
	MimeText     = "text/plain"
	MimeCSV      = "text/csv"
	MimeMarkdown = "text/markdown"
	MimeJSON     = "application/json"
)

// ErrUnsupported is returned for MIME types without an extractor.
var ErrUnsupported = errors.New("unsupported file type for text extraction")

type extractor func(data []byte) (string, error)

var extractors = map[string]extractor{
	MimePDF:      PDF,
	MimeXLSX:     XLSX,
	MimeDOCX:     DOCX,
	MimeHTML:     HTML,
	MimeText:     plain,
	MimeCSV:      plain,
	MimeMarkdown: plain,
	MimeJSON:     plain,
}

// baseType drops parameters such as "; charset=utf-8".
func baseType(mimeType string) string {
	t, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

// Supported reports whether Text can handle mimeType.
func Supported(mimeType string) bool {
	_, ok := extractors[baseType(mimeType)]
	return ok
}

// Text extracts the text of data according to its MIME type.
func Text(data []byte, mimeType string) (string, error) {
	fn, ok := extractors[baseType(mimeType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}
	return fn(data)
}

var reWhitespace = regexp.MustCompile(`\s+`)

// Clean collapses every whitespace run to a single space and trims the ends.
func Clean(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

func plain(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), ""), nil
}
