// Package extract converts library files into raw text.
//
// Extraction is a pure read: no side effects, and per-file failures are not
// fatal. A file that cannot produce text yields an empty string, which
// excludes it from indexing.
package extract

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

// Kind is a closed set of supported file kinds. Extractor selection
// dispatches on Kind, never on runtime type checks.
type Kind int

const (
	// KindUnsupported marks extensions the engine does not index.
	KindUnsupported Kind = iota
	// KindText is a plain .txt file.
	KindText
	// KindMarkdown is a .md file, read as plain text.
	KindMarkdown
	// KindPDF is a .pdf file, extracted page by page.
	KindPDF
)

// KindOf classifies a path by its extension, case-insensitively.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return KindText
	case ".md":
		return KindMarkdown
	case ".pdf":
		return KindPDF
	default:
		return KindUnsupported
	}
}

// Supported reports whether files of this kind are indexed.
func (k Kind) Supported() bool {
	return k != KindUnsupported
}

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMarkdown:
		return "markdown"
	case KindPDF:
		return "pdf"
	default:
		return "unsupported"
	}
}

// Text extracts raw text from the file at path according to its kind.
// Unsupported kinds yield an empty string. The returned error is only
// non-nil when the file itself cannot be read; callers treat that the
// same as empty text.
func Text(path string) (string, error) {
	switch KindOf(path) {
	case KindText, KindMarkdown:
		return readTextFile(path)
	case KindPDF:
		return readPDFFile(path), nil
	default:
		return "", nil
	}
}

// readTextFile reads a file as UTF-8, falling back to Latin-1 so that
// legacy single-byte files never fail extraction outright.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Every byte sequence is valid Latin-1, so this decode cannot fail.
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data), nil
	}
	return string(decoded), nil
}

// readPDFFile extracts page text from a PDF. Any failure, including parser
// panics on malformed files, yields an empty string rather than an error.
func readPDFFile(path string) (text string) {
	defer func() {
		// The pdf parser panics on some malformed inputs.
		if r := recover(); r != nil {
			text = ""
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if pageText != "" {
			parts = append(parts, pageText)
		}
	}
	return strings.Join(parts, "\n")
}
