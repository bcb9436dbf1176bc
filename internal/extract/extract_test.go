package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractRejectsUnsupportedExtension(t *testing.T) {
	for _, ext := range []string{".txt", ".doc", ".png", "", "pdf"} {
		_, err := Extract("/nonexistent/file", ext)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("extension %q: expected ErrUnsupportedFormat, got %v", ext, err)
		}
	}
}

func TestExtractExtensionIsCaseInsensitive(t *testing.T) {
	// The file does not exist, so a supported extension must get past the
	// dispatch and fail with an extraction error instead.
	_, err := Extract("/nonexistent/file", ".PDF")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed for missing file, got %v", err)
	}

	_, err = Extract("/nonexistent/file", ".Docx")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed for missing file, got %v", err)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"line\none\n\nline two\t tabbed", "line one line two tabbed"},
		{"", ""},
		{"\n\t \r\n", ""},
		{"single", "single"},
	}

	for _, tc := range cases {
		got := NormalizeWhitespace(tc.in)
		if got != tc.want {
			t.Fatalf("NormalizeWhitespace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeWhitespaceIsIdempotent(t *testing.T) {
	inputs := []string{
		"  a  b\nc\t\td  ",
		"already normalized text",
		strings.Repeat("word \n", 100),
	}

	for _, in := range inputs {
		once := NormalizeWhitespace(in)
		twice := NormalizeWhitespace(once)
		if once != twice {
			t.Fatalf("normalization not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestFinalizeGuardsShortText(t *testing.T) {
	if _, err := finalize("too short"); !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort, got %v", err)
	}

	// Whitespace padding must not help a short document over the limit.
	padded := "short body" + strings.Repeat(" \n\t", 100)
	if _, err := finalize(padded); !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort for padded text, got %v", err)
	}

	long := strings.Repeat("experienced developer ", 10)
	got, err := finalize(long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.HasSuffix(got, " ") {
		t.Fatalf("finalized text must be trimmed: %q", got)
	}
}

func TestFinalizeCountsCharactersNotBytes(t *testing.T) {
	// 20 characters but 60 bytes; the limit measures characters.
	if _, err := finalize(strings.Repeat("简", 20)); !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort for 20-character multibyte text, got %v", err)
	}

	if _, err := finalize(strings.Repeat("简历内容 ", 15)); err != nil {
		t.Fatalf("unexpected error for 60-character multibyte text: %v", err)
	}
}

func TestStripDocxTags(t *testing.T) {
	in := `<w:p><w:r><w:t>Go developer</w:t></w:r></w:p><w:p><w:r><w:t>5 years</w:t></w:r></w:p>`
	got := NormalizeWhitespace(stripDocxTags(in))
	if got != "Go developer 5 years" {
		t.Fatalf("unexpected stripped content: %q", got)
	}
}

func TestExtractFileUsesOriginalName(t *testing.T) {
	_, err := ExtractFile("/tmp/upload-12345", "resume.xlsx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
