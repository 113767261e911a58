package util

import (
	"errors"
	"strings"
	"testing"
)

func TestHashKey(t *testing.T) {
	id := "guest:12345"
	got := HashKey(id)
	if got != HashKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestHashKeySeparatesParts(t *testing.T) {
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Fatal("expected part boundaries to change the hash")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.pdf", want: "resume.pdf"},
		{in: " dir/resume.pdf ", want: "dir_resume.pdf"},
		{in: `c:\cv.docx`, want: "c:_cv.docx"},
		{in: "cv\x00\t final.pdf", want: "cv final.pdf"},
		{in: strings.Repeat("a", 200) + ".docx", want: strings.Repeat("a", MaxFileNameLen-5) + ".docx"},
		{in: strings.Repeat("é", 100) + ".pdf", want: strings.Repeat("é", 58) + ".pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFileName) {
				t.Fatalf("SanitizeFileName(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
