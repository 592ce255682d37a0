// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore enumerates source papers and computes content fingerprints.
// The scan itself is read-only: document status is decided by the pipeline
// against the cache, never stored here.
package docstore

import (
	"crypto/sha256"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/triplemine/pkg/types"
)

// sourceExts lists the file extensions the scan accepts. PDFs are the
// primary input; plain-text and Markdown files cover pre-converted corpora.
var sourceExts = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// Store scans a configured directory for source papers.
type Store struct {
	dir  string
	max  int
	read TextReader
}

// New creates a Store over cfg.PDFDir. A missing directory is a
// configuration error and fatal to the run.
func New(cfg types.DocumentStoreConfig, reader TextReader) (*Store, error) {
	info, err := os.Stat(cfg.PDFDir)
	if err != nil {
		return nil, fmt.Errorf("pdf directory %s: %w", cfg.PDFDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pdf directory %s: not a directory", cfg.PDFDir)
	}
	if reader == nil {
		reader = DefaultReader()
	}
	return &Store{dir: cfg.PDFDir, max: cfg.MaxDocuments, read: reader}, nil
}

// List returns all source documents in the directory with fingerprints,
// sorted by ID. Unreadable files come back with Status failed and a
// fallback fingerprint; they never abort the scan.
func (s *Store) List() ([]types.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading pdf directory %s: %w", s.dir, err)
	}

	var docs []types.Document
	for _, entry := range entries {
		if entry.IsDir() || !sourceExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		doc := types.Document{
			ID:     strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path:   path,
			Status: types.DocUnprocessed,
		}

		fp, err := Fingerprint(path)
		if err != nil {
			readErr := &types.DocumentReadError{Path: path, Err: err}
			doc.Status = types.DocFailed
			doc.Reason = readErr.Error()
			doc.Fingerprint = fallbackFingerprint(entry)
		} else {
			doc.Fingerprint = fp
		}

		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	if s.max > 0 && len(docs) > s.max {
		docs = docs[:s.max]
	}
	return docs, nil
}

// Unprocessed yields documents whose fingerprint the hasResult predicate
// does not recognize, in scan order. The sequence is lazy and restartable:
// each range re-scans the directory.
func (s *Store) Unprocessed(hasResult func(types.Document) bool) iter.Seq2[types.Document, error] {
	return func(yield func(types.Document, error) bool) {
		docs, err := s.List()
		if err != nil {
			yield(types.Document{}, err)
			return
		}
		for _, doc := range docs {
			if hasResult(doc) {
				continue
			}
			if !yield(doc, nil) {
				return
			}
		}
	}
}

// Text reads the document body as plain text via the configured reader.
func (s *Store) Text(doc types.Document) (string, error) {
	text, err := s.read.Text(doc.Path)
	if err != nil {
		return "", &types.DocumentReadError{Path: doc.Path, Err: err}
	}
	return text, nil
}

// Fingerprint computes the content hash of the file at path, hex-encoded
// SHA-256. The hash identifies a document version for cache keying: same
// bytes, same fingerprint, regardless of name or modification time.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// fallbackFingerprint keys an unreadable file by name and size so its
// failure can still be recorded in the cache and excluded on later runs.
func fallbackFingerprint(entry os.DirEntry) string {
	var size int64
	if info, err := entry.Info(); err == nil {
		size = info.Size()
	}
	h := sha256.Sum256(fmt.Appendf(nil, "%s:%d", entry.Name(), size))
	return fmt.Sprintf("%x", h)
}
