// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ground

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// FileLexicon is the built-in ontology-lookup backend: a YAML file of terms
// per vocabulary, loaded once and searched in memory. It keeps grounding
// deterministic and offline; a live ontology service can replace it behind
// the same Lookup interface.
//
// Lexicon file layout:
//
//	GO:
//	  - id: GO:0006915
//	    label: apoptotic process
//	    synonyms: [apoptosis, programmed cell death]
//	    depth: 6
//	    curated: 2024-03-14T00:00:00Z
type FileLexicon struct {
	terms map[string][]Candidate
}

// LoadLexicon reads a lexicon file. An unreadable or unparsable file is a
// configuration error.
func LoadLexicon(path string) (*FileLexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}

	var terms map[string][]Candidate
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("parsing lexicon %s: %w", path, err)
	}

	// Stamp each candidate with its vocabulary so callers need not repeat it.
	for vocab, cands := range terms {
		for i := range cands {
			if cands[i].Source == "" {
				cands[i].Source = vocab
			}
		}
		terms[vocab] = cands
	}

	return &FileLexicon{terms: terms}, nil
}

// NewLexicon builds a lexicon directly from candidate lists, keyed by
// vocabulary. Used by tests and embedders.
func NewLexicon(terms map[string][]Candidate) *FileLexicon {
	return &FileLexicon{terms: terms}
}

// Search returns every term of the vocabulary; scoring and thresholding
// happen in the Grounder.
func (l *FileLexicon) Search(_ context.Context, _ string, vocabulary string) ([]Candidate, error) {
	return l.terms[vocabulary], nil
}
