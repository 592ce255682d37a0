// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// TextReader converts a source file into plain text for extraction.
// Different backends handle different file formats.
type TextReader interface {
	// Text returns the plain-text body of the file at path.
	Text(path string) (string, error)
}

// PlainTextReader reads the file bytes directly as UTF-8 text. It serves
// pre-converted corpora (.txt, .md) and rejects binary content.
type PlainTextReader struct{}

// Text reads path and returns its contents.
func (PlainTextReader) Text(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", path)
	}
	return string(data), nil
}

// PdftotextReader extracts text from PDFs by piping them through the
// pdftotext binary (poppler-utils).
type PdftotextReader struct {
	// Binary is the pdftotext executable name or path (default "pdftotext").
	Binary string
}

// Text runs pdftotext over the file and returns stdout.
func (r PdftotextReader) Text(path string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "pdftotext"
	}

	var out, stderr bytes.Buffer
	cmd := exec.Command(bin, "-layout", path, "-")
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("pdftotext produced empty output for %s", path)
	}
	return out.String(), nil
}

// FormatReader dispatches on file extension: PDFs go through pdftotext,
// everything else is read as plain text.
type FormatReader struct {
	PDF   TextReader
	Plain TextReader
}

// DefaultReader returns a FormatReader with the standard backends.
func DefaultReader() FormatReader {
	return FormatReader{PDF: PdftotextReader{}, Plain: PlainTextReader{}}
}

// Text selects the backend by extension and delegates.
func (r FormatReader) Text(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return r.PDF.Text(path)
	}
	return r.Plain.Text(path)
}
