// Package document inspects uploaded invoice files: it settles the MIME
// type, maps MIME types to file extensions and reads PDF page counts.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	MimeTypePDF         = "application/pdf"
	MimeTypeOctetStream = "application/octet-stream"
)

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	pdfmodel.ConfigPath = "disable"
}

// DetectMimeType settles the MIME type of an upload. Content sniffing wins;
// the declared type is used only when the content is not recognised.
func DetectMimeType(content []byte, declared string) string {
	detected := normalize(mimetype.Detect(content).String())
	if detected != MimeTypeOctetStream {
		return detected
	}

	if declared = normalize(declared); declared != "" {
		return declared
	}
	return MimeTypeOctetStream
}

// Extension returns the file extension, without the dot, for a MIME type.
// It fails when the type has no known extension.
func Extension(mimeType string) (string, error) {
	m := mimetype.Lookup(normalize(mimeType))
	if m == nil {
		return "", fmt.Errorf("unknown MIME type %q", mimeType)
	}

	ext := strings.TrimPrefix(m.Extension(), ".")
	if ext == "" {
		return "", fmt.Errorf("no file extension for MIME type %q", mimeType)
	}
	return ext, nil
}

// IsPDF reports whether mimeType names a PDF document
func IsPDF(mimeType string) bool {
	return normalize(mimeType) == MimeTypePDF
}

// PageCount reads a PDF and returns its number of pages
func PageCount(content []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(content), pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return n, nil
}

// normalize strips parameters and lowercases: "Text/Plain; charset=utf-8" -> "text/plain"
func normalize(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
