// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// DocumentReadError marks an unreadable or corrupt source file. The document
// is recorded as failed and skipped; the batch continues.
type DocumentReadError struct {
	Path string
	Err  error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("reading document %s: %v", e.Path, e.Err)
}

func (e *DocumentReadError) Unwrap() error { return e.Err }

// ExtractionError marks a failed external extraction call or malformed
// output that survived retries. The document is recorded as failed.
type ExtractionError struct {
	DocumentID string
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.DocumentID, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// GroundingError marks an unavailable or timed-out ontology lookup. The
// affected field stays unmapped; the assertion is still persisted.
type GroundingError struct {
	Term  string
	Field string
	Err   error
}

func (e *GroundingError) Error() string {
	return fmt.Sprintf("grounding %s %q: %v", e.Field, e.Term, e.Err)
}

func (e *GroundingError) Unwrap() error { return e.Err }

// CacheCorruptionError marks a stored cache entry that failed fingerprint
// or deserialization checks. Callers treat it as a miss, never as fatal.
type CacheCorruptionError struct {
	Fingerprint string
	Err         error
}

func (e *CacheCorruptionError) Error() string {
	return fmt.Sprintf("cache entry %s: %v", e.Fingerprint, e.Err)
}

func (e *CacheCorruptionError) Unwrap() error { return e.Err }
