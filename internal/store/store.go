// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the assertion set in a SQLite database. Each
// document's assertions are written in one transaction, replacing any
// previous rows for that document, so reprocessing never duplicates
// assertions.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/triplemine/pkg/types"
)

// Store manages the assertion database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			fingerprint TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			path TEXT,
			status TEXT NOT NULL,
			reason TEXT,
			processed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS assertions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_fingerprint TEXT NOT NULL REFERENCES documents(fingerprint),
			ord INTEGER NOT NULL,
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL,
			evidence TEXT,
			confidence REAL,
			section TEXT,
			sentence_location INTEGER,
			subject_ontology_id TEXT,
			subject_ontology_label TEXT,
			subject_ontology_source TEXT,
			predicate_ontology_id TEXT,
			predicate_ontology_label TEXT,
			predicate_ontology_source TEXT,
			object_ontology_id TEXT,
			object_ontology_label TEXT,
			object_ontology_source TEXT,
			paper_doi TEXT,
			paper_title TEXT,
			paper_authors TEXT,
			paper_year INTEGER,
			paper_pmid TEXT,
			extraction_date TEXT,
			extraction_method TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assertions_doc ON assertions(doc_fingerprint)`,
		`CREATE INDEX IF NOT EXISTS idx_assertions_subject ON assertions(subject)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// PutDocument records a document and its assertions atomically. Existing
// rows for the same fingerprint are replaced; the engine's output order is
// preserved via the ord column.
func (s *Store) PutDocument(ctx context.Context, doc types.Document, assertions []types.Assertion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (fingerprint, id, path, status, reason, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
			id=excluded.id, path=excluded.path, status=excluded.status,
			reason=excluded.reason, processed_at=excluded.processed_at`,
		doc.Fingerprint, doc.ID, doc.Path, string(doc.Status), doc.Reason,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM assertions WHERE doc_fingerprint = ?`, doc.Fingerprint); err != nil {
		return fmt.Errorf("deleting old assertions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assertions (
			doc_fingerprint, ord, subject, predicate, object, evidence,
			confidence, section, sentence_location,
			subject_ontology_id, subject_ontology_label, subject_ontology_source,
			predicate_ontology_id, predicate_ontology_label, predicate_ontology_source,
			object_ontology_id, object_ontology_label, object_ontology_source,
			paper_doi, paper_title, paper_authors, paper_year, paper_pmid,
			extraction_date, extraction_method
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range assertions {
		subj := flattenMapping(a.SubjectMapping)
		pred := flattenMapping(a.PredicateMapping)
		obj := flattenMapping(a.ObjectMapping)
		prov := flattenProvenance(a.Provenance)

		_, err := stmt.ExecContext(ctx,
			doc.Fingerprint, i, a.Subject, a.Predicate, a.Object, a.Evidence,
			a.Confidence, a.Section, a.SentenceLocation,
			subj[0], subj[1], subj[2],
			pred[0], pred[1], pred[2],
			obj[0], obj[1], obj[2],
			prov.doi, prov.title, prov.authors, prov.year, prov.pmid,
			prov.date, prov.method,
		)
		if err != nil {
			return fmt.Errorf("inserting assertion %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// All returns every assertion, grouped by document and in engine output
// order within each document.
func (s *Store) All(ctx context.Context) ([]types.Assertion, error) {
	return s.query(ctx,
		`SELECT `+assertionColumns+` FROM assertions ORDER BY doc_fingerprint, ord`)
}

// ForDocument returns the assertions of one document in engine output order.
func (s *Store) ForDocument(ctx context.Context, fingerprint string) ([]types.Assertion, error) {
	return s.query(ctx,
		`SELECT `+assertionColumns+` FROM assertions WHERE doc_fingerprint = ? ORDER BY ord`,
		fingerprint)
}

// Documents returns every recorded document, sorted by ID.
func (s *Store) Documents(ctx context.Context) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, id, path, status, reason FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var d types.Document
		var status, reason sql.NullString
		if err := rows.Scan(&d.Fingerprint, &d.ID, &d.Path, &status, &reason); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.Status = types.DocumentStatus(status.String)
		d.Reason = reason.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Summary holds aggregate counts for reporting.
type Summary struct {
	Documents  int
	Processed  int
	Failed     int
	Assertions int
}

// Summarize computes aggregate document and assertion counts.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var sum Summary
	row := s.db.QueryRowContext(ctx, `SELECT
		count(*),
		count(*) FILTER (WHERE status = 'processed'),
		count(*) FILTER (WHERE status = 'failed')
		FROM documents`)
	if err := row.Scan(&sum.Documents, &sum.Processed, &sum.Failed); err != nil {
		return Summary{}, fmt.Errorf("counting documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM assertions`).Scan(&sum.Assertions); err != nil {
		return Summary{}, fmt.Errorf("counting assertions: %w", err)
	}
	return sum, nil
}

const assertionColumns = `subject, predicate, object, evidence, confidence,
	section, sentence_location,
	subject_ontology_id, subject_ontology_label, subject_ontology_source,
	predicate_ontology_id, predicate_ontology_label, predicate_ontology_source,
	object_ontology_id, object_ontology_label, object_ontology_source,
	paper_doi, paper_title, paper_authors, paper_year, paper_pmid,
	extraction_date, extraction_method`

func (s *Store) query(ctx context.Context, q string, args ...any) ([]types.Assertion, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assertions: %w", err)
	}
	defer rows.Close()

	var out []types.Assertion
	for rows.Next() {
		a, err := scanAssertion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssertion(rows *sql.Rows) (types.Assertion, error) {
	var a types.Assertion
	var subj, pred, obj [3]sql.NullString
	var doi, title, authors, pmid, date, method sql.NullString
	var year sql.NullInt64

	err := rows.Scan(
		&a.Subject, &a.Predicate, &a.Object, &a.Evidence, &a.Confidence,
		&a.Section, &a.SentenceLocation,
		&subj[0], &subj[1], &subj[2],
		&pred[0], &pred[1], &pred[2],
		&obj[0], &obj[1], &obj[2],
		&doi, &title, &authors, &year, &pmid,
		&date, &method,
	)
	if err != nil {
		return types.Assertion{}, fmt.Errorf("scanning assertion: %w", err)
	}

	a.SubjectMapping = unflattenMapping(subj)
	a.PredicateMapping = unflattenMapping(pred)
	a.ObjectMapping = unflattenMapping(obj)

	if method.String != "" {
		prov := &types.ProvenanceRecord{
			PaperDOI:         doi.String,
			PaperTitle:       title.String,
			PaperPMID:        pmid.String,
			PaperYear:        int(year.Int64),
			ExtractionMethod: method.String,
		}
		if authors.String != "" {
			if err := json.Unmarshal([]byte(authors.String), &prov.PaperAuthors); err != nil {
				return types.Assertion{}, fmt.Errorf("parsing authors: %w", err)
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, date.String); err == nil {
			prov.ExtractionDate = t
		}
		a.Provenance = prov
	}

	return a, nil
}

// flattenMapping spreads a TermMapping into (id, label, source) columns.
func flattenMapping(m *types.TermMapping) [3]any {
	if m == nil {
		return [3]any{nil, nil, nil}
	}
	return [3]any{m.ID, m.Label, m.Source}
}

func unflattenMapping(cols [3]sql.NullString) *types.TermMapping {
	if cols[0].String == "" {
		return nil
	}
	return &types.TermMapping{ID: cols[0].String, Label: cols[1].String, Source: cols[2].String}
}

type flatProvenance struct {
	doi, title, authors, pmid, date, method any
	year                                    any
}

func flattenProvenance(p *types.ProvenanceRecord) flatProvenance {
	if p == nil {
		return flatProvenance{}
	}
	authorsJSON, _ := json.Marshal(p.PaperAuthors)
	authors := ""
	if p.PaperAuthors != nil {
		authors = string(authorsJSON)
	}
	return flatProvenance{
		doi:     p.PaperDOI,
		title:   p.PaperTitle,
		authors: authors,
		year:    p.PaperYear,
		pmid:    p.PaperPMID,
		date:    p.ExtractionDate.UTC().Format(time.RFC3339Nano),
		method:  p.ExtractionMethod,
	}
}
