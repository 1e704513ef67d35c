package util

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "cv.pdf", want: "cv.pdf"},
		{name: "separators", in: "docs/my\\cv.pdf", want: "docs_my_cv.pdf"},
		{name: "control characters", in: "cv\n\t.pdf", want: "cv.pdf"},
		{name: "unicode kept", in: " Резюме Иванов.docx ", want: "Резюме Иванов.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if err != nil {
				t.Fatalf("SanitizeFileName(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "\n", "../cv.pdf", "a..b"} {
		if _, err := SanitizeFileName(in); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("SanitizeFileName(%q) error = %v, want ErrInvalidFileName", in, err)
		}
	}
}

func TestSanitizeFileNameShortensLongNames(t *testing.T) {
	in := strings.Repeat("я", 200) + ".pdf"
	got, err := SanitizeFileName(in)
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if len(got) > maxFileNameLen {
		t.Fatalf("expected at most %d bytes, got %d", maxFileNameLen, len(got))
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("extension lost: %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
}
