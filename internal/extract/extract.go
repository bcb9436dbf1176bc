package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MinTextLength is the smallest amount of cleaned text considered usable by
// the analysis stage. Anything shorter usually means a scanned image without
// an embedded text layer.
const MinTextLength = 50

var (
	// ErrUnsupportedFormat is returned for any extension other than .pdf or .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtractionFailed wraps any underlying parser failure.
	ErrExtractionFailed = errors.New("text extraction failed")
	// ErrTextTooShort is returned when extraction succeeded but yielded no usable content.
	ErrTextTooShort = errors.New("extracted text is too short")
)

// Extract reads the document at path and returns its cleaned plain text.
// Dispatch happens purely on the declared extension, case-insensitively,
// before any file I/O.
func Extract(path, declaredExt string) (string, error) {
	var text string
	var err error

	switch strings.ToLower(strings.TrimSpace(declaredExt)) {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx":
		text, err = extractDOCX(path)
	default:
		return "", fmt.Errorf("%w: %q (only .pdf and .docx are supported)", ErrUnsupportedFormat, declaredExt)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrExtractionFailed, err)
	}

	return finalize(text)
}

// finalize normalizes the raw extracted text and applies the minimum-length
// guard. The limit counts characters, not bytes, so multibyte scripts are
// measured the same as Latin text.
func finalize(text string) (string, error) {
	text = NormalizeWhitespace(text)
	if n := utf8.RuneCountInString(text); n < MinTextLength {
		return "", fmt.Errorf("%w: got %d characters, need at least %d", ErrTextTooShort, n, MinTextLength)
	}

	return text, nil
}

// ExtractFile is a convenience wrapper that derives the extension from the
// original filename rather than the on-disk path, since uploads are stored
// under generated temp names.
func ExtractFile(path, originalName string) (string, error) {
	return Extract(path, filepath.Ext(originalName))
}

// NormalizeWhitespace collapses every whitespace run, newlines included, into
// a single space and trims both ends. The operation is idempotent.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func extractPDF(path string) (text string, err error) {
	// The pdf library panics on some malformed documents. Treat that the same
	// as any other parse failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

func extractDOCX(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return stripDocxTags(doc.Editable().GetContent()), nil
}

// stripDocxTags removes the raw WordprocessingML markup returned by
// GetContent, keeping only the text runs.
func stripDocxTags(content string) string {
	var builder strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			builder.WriteRune(' ')
		case !inTag:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
