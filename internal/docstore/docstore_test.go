// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/triplemine/pkg/types"
)

func writePaper(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(types.DocumentStoreConfig{PDFDir: filepath.Join(t.TempDir(), "missing")}, PlainTextReader{})
	assert.Error(t, err)
}

func TestNewNotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := writePaper(t, dir, "file.txt", "x")
	_, err := New(types.DocumentStoreConfig{PDFDir: path}, PlainTextReader{})
	assert.Error(t, err)
}

func TestListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writePaper(t, dir, "beta.txt", "second paper")
	writePaper(t, dir, "alpha.md", "first paper")
	writePaper(t, dir, "notes.docx", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	s, err := New(types.DocumentStoreConfig{PDFDir: dir}, PlainTextReader{})
	require.NoError(t, err)

	docs, err := s.List()
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "alpha", docs[0].ID)
	assert.Equal(t, "beta", docs[1].ID)
	for _, doc := range docs {
		assert.Equal(t, types.DocUnprocessed, doc.Status)
		assert.Len(t, doc.Fingerprint, 64)
	}
}

func TestListMaxDocuments(t *testing.T) {
	dir := t.TempDir()
	writePaper(t, dir, "a.txt", "one")
	writePaper(t, dir, "b.txt", "two")
	writePaper(t, dir, "c.txt", "three")

	s, err := New(types.DocumentStoreConfig{PDFDir: dir, MaxDocuments: 2}, PlainTextReader{})
	require.NoError(t, err)

	docs, err := s.List()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
}

func TestListUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writePaper(t, dir, "good.txt", "readable")
	bad := writePaper(t, dir, "bad.txt", "unreadable")
	require.NoError(t, os.Chmod(bad, 0o000))
	t.Cleanup(func() { os.Chmod(bad, 0o644) })

	s, err := New(types.DocumentStoreConfig{PDFDir: dir}, PlainTextReader{})
	require.NoError(t, err)

	docs, err := s.List()
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, types.DocFailed, docs[0].Status)
	assert.NotEmpty(t, docs[0].Reason)
	assert.NotEmpty(t, docs[0].Fingerprint, "failed files still get a fallback fingerprint")
	assert.Equal(t, types.DocUnprocessed, docs[1].Status)
}

func TestFingerprintContentAddressed(t *testing.T) {
	dir := t.TempDir()
	a := writePaper(t, dir, "a.txt", "identical bytes")
	b := writePaper(t, dir, "b.txt", "identical bytes")
	c := writePaper(t, dir, "c.txt", "different bytes")

	fpA, err := Fingerprint(a)
	require.NoError(t, err)
	fpB, err := Fingerprint(b)
	require.NoError(t, err)
	fpC, err := Fingerprint(c)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB, "same content, same fingerprint regardless of name")
	assert.NotEqual(t, fpA, fpC)
}

func TestUnprocessedFiltersByPredicate(t *testing.T) {
	dir := t.TempDir()
	writePaper(t, dir, "done.txt", "already processed")
	writePaper(t, dir, "todo.txt", "still pending")

	s, err := New(types.DocumentStoreConfig{PDFDir: dir}, PlainTextReader{})
	require.NoError(t, err)

	var seen []string
	for doc, err := range s.Unprocessed(func(d types.Document) bool { return d.ID == "done" }) {
		require.NoError(t, err)
		seen = append(seen, doc.ID)
	}
	assert.Equal(t, []string{"todo"}, seen)
}

func TestUnprocessedRestartable(t *testing.T) {
	dir := t.TempDir()
	writePaper(t, dir, "one.txt", "first")

	s, err := New(types.DocumentStoreConfig{PDFDir: dir}, PlainTextReader{})
	require.NoError(t, err)

	none := func(types.Document) bool { return false }

	count := 0
	for _, err := range s.Unprocessed(none) {
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 1, count)

	// A new file added between iterations shows up on the next pass.
	writePaper(t, dir, "two.txt", "second")
	count = 0
	for _, err := range s.Unprocessed(none) {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestTextWrapsReadErrors(t *testing.T) {
	dir := t.TempDir()
	s, err := New(types.DocumentStoreConfig{PDFDir: dir}, PlainTextReader{})
	require.NoError(t, err)

	_, err = s.Text(types.Document{ID: "gone", Path: filepath.Join(dir, "gone.txt")})
	require.Error(t, err)

	var readErr *types.DocumentReadError
	assert.ErrorAs(t, err, &readErr)
}
