// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes assertion sets to triple formats. Output is
// deterministic: assertions are sorted by (subject, predicate, object,
// evidence hash) before serialization, so identical sets produce
// byte-identical files regardless of extraction or grounding order.
package export

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/triplemine/pkg/types"
)

// Format names a supported serialization.
type Format string

const (
	FormatTurtle  Format = "turtle"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatNanopub Format = "nanopub"
)

// Extensions maps formats to output file extensions.
var Extensions = map[Format]string{
	FormatTurtle:  ".ttl",
	FormatJSON:    ".json",
	FormatYAML:    ".yaml",
	FormatNanopub: ".nanopub.json",
}

// Export serializes the assertion set in the requested format.
func Export(assertions []types.Assertion, format Format, fallbackNS string) ([]byte, error) {
	sorted := Sorted(assertions)
	switch format {
	case FormatTurtle:
		return Turtle(sorted, fallbackNS), nil
	case FormatJSON:
		return JSON(sorted)
	case FormatYAML:
		return YAML(sorted)
	case FormatNanopub:
		return Nanopubs(sorted)
	default:
		return nil, fmt.Errorf("unsupported format %q: use turtle, json, yaml, or nanopub", format)
	}
}

// Sorted returns a copy of the assertion set in canonical export order.
func Sorted(assertions []types.Assertion) []types.Assertion {
	out := make([]types.Assertion, len(assertions))
	copy(out, assertions)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.Predicate != b.Predicate {
			return a.Predicate < b.Predicate
		}
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		return EvidenceHash(a) < EvidenceHash(b)
	})
	return out
}

// EvidenceHash returns a short stable hash of the assertion's evidence,
// used as the sort tiebreaker and as the statement identifier in Turtle.
func EvidenceHash(a types.Assertion) string {
	h := sha256.New()
	h.Write([]byte(a.Evidence))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// JSON serializes the (already sorted) assertion set as indented JSON.
func JSON(assertions []types.Assertion) ([]byte, error) {
	data, err := json.MarshalIndent(assertions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseJSON reads back a JSON export, for round-trips and downstream tools.
func ParseJSON(data []byte) ([]types.Assertion, error) {
	var assertions []types.Assertion
	if err := json.Unmarshal(data, &assertions); err != nil {
		return nil, fmt.Errorf("parsing JSON export: %w", err)
	}
	return assertions, nil
}

// YAML serializes the assertion set as YAML.
func YAML(assertions []types.Assertion) ([]byte, error) {
	data, err := yaml.Marshal(assertions)
	if err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return data, nil
}

// nanopub is the nanopublication rendering of one assertion: the bare
// triple plus provenance and publication graphs.
type nanopub struct {
	Assertion       nanopubTriple `json:"assertion"`
	Provenance      nanopubProv   `json:"provenance"`
	PublicationInfo nanopubPub    `json:"publication_info"`
}

type nanopubTriple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

type nanopubProv struct {
	EvidenceText     string  `json:"evidence_text"`
	Confidence       float64 `json:"confidence"`
	SourceDOI        string  `json:"source_doi,omitempty"`
	ExtractionMethod string  `json:"extraction_method,omitempty"`
}

type nanopubPub struct {
	PaperTitle   string   `json:"paper_title,omitempty"`
	PaperAuthors []string `json:"paper_authors,omitempty"`
	PaperYear    int      `json:"paper_year,omitempty"`
	PaperDOI     string   `json:"paper_doi,omitempty"`
	PaperPMID    string   `json:"paper_pmid,omitempty"`
}

// Nanopubs serializes each assertion as a nanopublication, preferring
// ontology identifiers over raw text in the triple.
func Nanopubs(assertions []types.Assertion) ([]byte, error) {
	pubs := make([]nanopub, len(assertions))
	for i, a := range assertions {
		pub := nanopub{
			Assertion: nanopubTriple{
				Subject:   curieOrText(a.SubjectMapping, a.Subject),
				Predicate: curieOrText(a.PredicateMapping, a.Predicate),
				Object:    curieOrText(a.ObjectMapping, a.Object),
			},
			Provenance: nanopubProv{
				EvidenceText: a.Evidence,
				Confidence:   a.Confidence,
			},
		}
		if p := a.Provenance; p != nil {
			pub.Provenance.SourceDOI = p.PaperDOI
			pub.Provenance.ExtractionMethod = p.ExtractionMethod
			pub.PublicationInfo = nanopubPub{
				PaperTitle:   p.PaperTitle,
				PaperAuthors: p.PaperAuthors,
				PaperYear:    p.PaperYear,
				PaperDOI:     p.PaperDOI,
				PaperPMID:    p.PaperPMID,
			}
		}
		pubs[i] = pub
	}

	data, err := json.MarshalIndent(pubs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling nanopubs: %w", err)
	}
	return append(data, '\n'), nil
}

// curieOrText returns the mapped CURIE when the term is grounded, the raw
// text otherwise.
func curieOrText(m *types.TermMapping, text string) string {
	if m != nil {
		return m.ID
	}
	return text
}
