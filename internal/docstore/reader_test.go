// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain body"), 0o644))

	text, err := PlainTextReader{}.Text(path)
	require.NoError(t, err)
	assert.Equal(t, "plain body", text)
}

func TestPlainTextReaderRejectsBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "binary.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x41}, 0o644))

	_, err := PlainTextReader{}.Text(path)
	assert.ErrorContains(t, err, "not valid UTF-8")
}

// stubReader records which backend FormatReader dispatched to.
type stubReader struct{ out string }

func (r stubReader) Text(string) (string, error) { return r.out, nil }

func TestFormatReaderDispatch(t *testing.T) {
	r := FormatReader{PDF: stubReader{out: "pdf"}, Plain: stubReader{out: "plain"}}

	tests := []struct {
		path string
		want string
	}{
		{"paper.pdf", "pdf"},
		{"paper.PDF", "pdf"},
		{"paper.txt", "plain"},
		{"paper.md", "plain"},
	}
	for _, tt := range tests {
		got, err := r.Text(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestPdftotextReaderMissingBinary(t *testing.T) {
	r := PdftotextReader{Binary: "pdftotext-does-not-exist"}
	_, err := r.Text("whatever.pdf")
	assert.Error(t, err)
}
