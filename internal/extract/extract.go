package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"interview-backend/internal/shared/storage/object"
)

// Format is a resume file format the extractor understands.
type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatText    Format = "text"
)

const (
	mimePDF   = "application/pdf"
	mimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePlain = "text/plain"
	mimeMD    = "text/markdown"

	docxBody        = "word/document.xml"
	extractedSuffix = ".extracted.txt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported resume format")
	ErrInvalidEncoding   = errors.New("plain text resume is not valid UTF-8")
	ErrUnreadable        = errors.New("resume file could not be read")
)

// ExtractedKey returns the storage key of the derived text copy for fileKey.
func ExtractedKey(fileKey string) string {
	return fileKey + extractedSuffix
}

// ExtractText reads a stored resume, extracts its text and saves the derived copy
// under ExtractedKey(fileKey).
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract key=%s: %w", fileKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract key=%s: read: %w", fileKey, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("extract key=%s: %w", fileKey, err)
	}

	saver, ok := store.(object.KeySaver)
	if !ok {
		return "", errors.New("object store does not support SaveWithKey")
	}
	if _, err := saver.SaveWithKey(ctx, ExtractedKey(fileKey), "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract key=%s: save derived copy: %w", fileKey, err)
	}
	return text, nil
}

// ExtractTextFromBytes extracts and cleans the text of an in-memory resume. Content
// problems match ErrUnsupportedFormat, ErrInvalidEncoding or ErrUnreadable.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		text string
		err  error
	)
	switch DetectFormat(mimeType, fileName, data) {
	case FormatPDF:
		text, err = pdfText(data)
	case FormatDOCX:
		text, err = docxText(data)
	case FormatText:
		if !utf8.Valid(data) {
			return "", ErrInvalidEncoding
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, describe(mimeType, fileName))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return Clean(text), nil
}

// DetectFormat resolves the resume format from the declared MIME type, falling
// back to the file contents and then the extension when the type is generic.
func DetectFormat(mimeType, fileName string, data []byte) Format {
	switch baseMime(mimeType) {
	case mimePDF:
		return FormatPDF
	case mimeDOCX:
		return FormatDOCX
	case mimePlain, mimeMD:
		return FormatText
	case "", "application/octet-stream", "application/zip":
	default:
		return FormatUnknown
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return FormatPDF
	}
	if hasDocxBody(data) {
		return FormatDOCX
	}
	if baseMime(mimeType) == "application/zip" {
		return FormatUnknown
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".txt", ".md":
		return FormatText
	}
	return FormatUnknown
}

// Clean trims every line, collapses inner whitespace runs and keeps at most one
// blank line between paragraphs.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	f := findDocxBody(zr)
	if f == nil {
		return "", fmt.Errorf("open docx: %s not found", docxBody)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open docx body: %w", err)
	}
	defer rc.Close()
	return docxParagraphs(rc)
}

// docxParagraphs walks WordprocessingML and emits one line per paragraph.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var buf strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteByte(' ')
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				buf.WriteByte('\n')
			}
		}
	}
	return buf.String(), nil
}

func hasDocxBody(data []byte) bool {
	if len(data) < 4 || !bytes.HasPrefix(data, []byte("PK")) {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findDocxBody(zr) != nil
}

func findDocxBody(zr *zip.Reader) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == docxBody {
			return f
		}
	}
	return nil
}

func baseMime(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

func describe(mimeType, fileName string) string {
	if m := baseMime(mimeType); m != "" {
		return m
	}
	return filepath.Ext(fileName)
}
