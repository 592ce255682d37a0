// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TermMapping records the controlled-vocabulary identity of one assertion
// term. A nil mapping means the term is unmapped, which is an expected
// outcome, not an error.
type TermMapping struct {
	// ID is the ontology identifier in CURIE form (e.g. "GO:0006915").
	ID string `json:"id" yaml:"id"`

	// Label is the preferred label of the matched ontology term.
	Label string `json:"label" yaml:"label"`

	// Source is the vocabulary prefix the term belongs to (e.g. "GO", "CHEBI").
	Source string `json:"source" yaml:"source"`
}

// ProvenanceRecord traces an assertion back to its source paper and
// extraction event. It is attached once per assertion and never mutated.
type ProvenanceRecord struct {
	// PaperDOI is the DOI of the source paper, if one was found.
	PaperDOI string `json:"paper_doi,omitempty" yaml:"paper_doi,omitempty"`

	// PaperTitle is the source paper title.
	PaperTitle string `json:"paper_title,omitempty" yaml:"paper_title,omitempty"`

	// PaperAuthors lists the source paper authors in publication order.
	PaperAuthors []string `json:"paper_authors,omitempty" yaml:"paper_authors,omitempty"`

	// PaperYear is the publication year, or 0 when unknown.
	PaperYear int `json:"paper_year,omitempty" yaml:"paper_year,omitempty"`

	// PaperPMID is the PubMed identifier, if one was found.
	PaperPMID string `json:"paper_pmid,omitempty" yaml:"paper_pmid,omitempty"`

	// ExtractionDate is the UTC time the extraction ran.
	ExtractionDate time.Time `json:"extraction_date" yaml:"extraction_date"`

	// ExtractionMethod identifies the pipeline and contract version that
	// produced the assertion (e.g. "triplemine/v1"). It participates in
	// cache invalidation: a method change makes old entries a miss.
	ExtractionMethod string `json:"extraction_method" yaml:"extraction_method"`
}

// Assertion is an extracted subject-predicate-object triple with evidence,
// confidence, ontology mappings, and provenance. The core fields are
// immutable after extraction; only the mapping fields are populated later
// by the grounder.
type Assertion struct {
	// Subject is the raw subject text as extracted from the paper.
	Subject string `json:"subject" yaml:"subject"`

	// Predicate is the raw relation text (e.g. "inhibits").
	Predicate string `json:"predicate" yaml:"predicate"`

	// Object is the raw object text.
	Object string `json:"object" yaml:"object"`

	// Evidence is the source span (usually a sentence) supporting the triple.
	Evidence string `json:"evidence" yaml:"evidence"`

	// Confidence is the extraction certainty in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Section is the paper section where the evidence was found.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`

	// SentenceLocation is the approximate sentence index of the evidence
	// within the document, counted from 0.
	SentenceLocation int `json:"sentence_location" yaml:"sentence_location"`

	// SubjectMapping, PredicateMapping, and ObjectMapping carry the ontology
	// identities of the three terms. Each is independent of the others.
	SubjectMapping   *TermMapping `json:"subject_mapping,omitempty" yaml:"subject_mapping,omitempty"`
	PredicateMapping *TermMapping `json:"predicate_mapping,omitempty" yaml:"predicate_mapping,omitempty"`
	ObjectMapping    *TermMapping `json:"object_mapping,omitempty" yaml:"object_mapping,omitempty"`

	// Provenance links the assertion to its source paper and extraction event.
	Provenance *ProvenanceRecord `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// PaperMeta holds the per-document publication metadata resolved once per
// document and applied identically to every assertion from that document.
type PaperMeta struct {
	// DOI is the paper DOI (e.g. "10.1038/s41586-020-2649-2").
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Title is the paper title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors lists authors as "Family, Given" strings.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year, or 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// PMID is the PubMed identifier.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
}
