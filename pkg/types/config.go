package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "triplemine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DocumentStoreConfig holds settings for the document store.
type DocumentStoreConfig struct {
	// PDFDir is the directory containing the source papers, one per file.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// MaxDocuments caps how many documents a single batch run may process
	// (0 = no limit).
	MaxDocuments int `json:"max_documents" yaml:"max_documents"`
}

// CacheConfig holds settings for the extraction cache.
type CacheConfig struct {
	// CacheDir is the directory holding one persisted entry per fingerprint.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// MemoryTTL is how long entries stay in the in-memory layer (default 30m).
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl"`
}

// AIConfig holds shared settings for the extraction capability.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the extraction API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint for self-hosted gateways.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExtractionConfig holds settings for the extraction engine.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	// RequestsPerSecond throttles calls to the extraction capability
	// (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Burst is the rate limiter burst size (default 2).
	Burst int `json:"burst" yaml:"burst"`
}

// GroundingConfig holds settings for the ontology grounder.
type GroundingConfig struct {
	// Vocabularies is the priority-ordered list of vocabularies tried for
	// subjects and objects (default GO, CHEBI, DOID, PR, UBERON, CL).
	Vocabularies []string `json:"vocabularies" yaml:"vocabularies"`

	// MinScore is the similarity threshold below which a term stays
	// unmapped (default 0.85).
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// LookupTimeout bounds each ontology lookup call (default 10s).
	LookupTimeout time.Duration `json:"lookup_timeout" yaml:"lookup_timeout"`

	// LexiconPath is the YAML term lexicon used by the built-in lookup.
	LexiconPath string `json:"lexicon_path,omitempty" yaml:"lexicon_path,omitempty"`
}

// ProvenanceConfig holds settings for paper metadata resolution.
type ProvenanceConfig struct {
	HTTPConfig `yaml:",inline"`

	// CrossrefMailto is the contact email sent to the Crossref API, which
	// grants access to the polite pool.
	CrossrefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`
}

// ExportConfig holds settings for triple serialization.
type ExportConfig struct {
	// OutputDir is the directory export files are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// FallbackNamespace is the prefix used for unmapped literal terms
	// (default "tm").
	FallbackNamespace string `json:"fallback_namespace" yaml:"fallback_namespace"`
}

// PipelineConfig groups all stage configurations for a batch run.
type PipelineConfig struct {
	Documents  DocumentStoreConfig `json:"documents" yaml:"documents"`
	Cache      CacheConfig         `json:"cache" yaml:"cache"`
	Extraction ExtractionConfig    `json:"extraction" yaml:"extraction"`
	Grounding  GroundingConfig     `json:"grounding" yaml:"grounding"`
	Provenance ProvenanceConfig    `json:"provenance" yaml:"provenance"`
	Export     ExportConfig        `json:"export" yaml:"export"`

	// StorePath is the SQLite assertion store location.
	StorePath string `json:"store_path" yaml:"store_path"`

	// Workers is the bounded worker pool size (default 4).
	Workers int `json:"workers" yaml:"workers"`
}
