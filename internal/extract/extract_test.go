package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"interview-backend/internal/shared/storage/object/local"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	body.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create docx entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write docx entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, "Jane Doe", "Senior Go Engineer")

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if text != "Jane Doe\nSenior Go Engineer" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !errors.Is(err, ErrUnsupportedFormat) || !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("  Go, Postgres, Redis \n"), "text/plain; charset=utf-8", "resume.txt")
	if err != nil {
		t.Fatalf("extract plain text: %v", err)
	}
	if text != "Go, Postgres, Redis" {
		t.Fatalf("unexpected text %q", text)
	}

	if _, err := ExtractTextFromBytes(context.Background(), []byte{0xff, 0xfe, 0xfd}, "text/plain", "bad.txt"); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestExtractTextStoresDerivedCopy(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())

	key, _, mime, err := store.Save(ctx, "user-1", "resume.txt", strings.NewReader("Built payment services in Go."))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	text, err := ExtractText(ctx, store, key, mime, "resume.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Built payment services in Go." {
		t.Fatalf("unexpected text %q", text)
	}

	rc, err := store.Open(ctx, ExtractedKey(key))
	if err != nil {
		t.Fatalf("open derived copy: %v", err)
	}
	defer rc.Close()
	saved, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read derived copy: %v", err)
	}
	if string(saved) != text {
		t.Fatalf("derived copy %q does not match %q", saved, text)
	}
}

func TestExtractTextHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("x"), "text/plain", "a.txt"); err == nil {
		t.Fatal("expected cancelled context error")
	}
}

func TestDetectFormat(t *testing.T) {
	docx := buildDocx(t, "x")
	cases := []struct {
		name     string
		mime     string
		file     string
		data     []byte
		expected Format
	}{
		{"declared pdf", "application/pdf", "cv", nil, FormatPDF},
		{"declared markdown", "text/markdown; charset=utf-8", "cv.md", nil, FormatText},
		{"pdf magic behind octet-stream", "application/octet-stream", "cv.bin", []byte("%PDF-1.7\n"), FormatPDF},
		{"docx content behind octet-stream", "application/octet-stream", "cv", docx, FormatDOCX},
		{"extension fallback", "", "cv.TXT", []byte("hello"), FormatText},
		{"image", "image/png", "cv.png", nil, FormatUnknown},
		{"unknown extension", "", "cv.rtf", []byte("{\\rtf1"), FormatUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.mime, tc.file, tc.data); got != tc.expected {
				t.Fatalf("DetectFormat() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	in := "  Jane   Doe \r\n\n\n\tSenior\tEngineer\n\n  \nGo  Postgres\n"
	expected := "Jane Doe\n\nSenior Engineer\n\nGo Postgres"
	if got := Clean(in); got != expected {
		t.Fatalf("Clean() = %q, expected %q", got, expected)
	}
}

func TestDocxTabsAndBreaks(t *testing.T) {
	data := buildDocx(t, "Go<w:tab/>Kubernetes", "Line one<w:br/>Line two")
	text, err := ExtractTextFromBytes(context.Background(), data, "", "cv.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if text != "Go Kubernetes\nLine one\nLine two" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestCorruptDocumentsAreUnreadable(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("%PDF-1.4 truncated"), "application/pdf", "cv.pdf")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable for broken pdf, got %v", err)
	}
	_, err = ExtractTextFromBytes(context.Background(), []byte("not a zip"), mimeDOCX, "cv.docx")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable for broken docx, got %v", err)
	}
}
