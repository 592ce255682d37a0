// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocumentStatus indicates where a source document stands in the pipeline.
type DocumentStatus string

const (
	DocUnprocessed DocumentStatus = "unprocessed"
	DocProcessed   DocumentStatus = "processed"
	DocFailed      DocumentStatus = "failed"
)

// Document is one source paper discovered by a directory scan. The scan
// itself is read-only; only the pipeline mutates Status.
type Document struct {
	// ID is the source file name without its extension.
	ID string `json:"id" yaml:"id"`

	// Path is the local filesystem path to the source file.
	Path string `json:"path" yaml:"path"`

	// Fingerprint is the content hash identifying this document version.
	// For unreadable files it is a fallback hash of name and size so the
	// failure can still be keyed in the cache.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	// Status is the processing state: unprocessed, processed, or failed.
	Status DocumentStatus `json:"status" yaml:"status"`

	// Reason records why a failed document failed. Empty otherwise.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}
