// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ground maps raw assertion terms to controlled-vocabulary
// identifiers. Subjects and objects are tried against a priority-ordered
// vocabulary list; predicates go through the Relation Ontology synonym
// table first. A term that scores below the threshold stays unmapped.
package ground

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pdiddy/triplemine/pkg/types"
)

// Candidate is one ranked match from the ontology-lookup capability.
type Candidate struct {
	// ID is the term identifier in CURIE form (e.g. "CHEBI:33697").
	ID string `json:"id" yaml:"id"`

	// Label is the preferred label of the term.
	Label string `json:"label" yaml:"label"`

	// Synonyms are alternative labels considered during scoring.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`

	// Source is the vocabulary prefix the term belongs to.
	Source string `json:"source" yaml:"source"`

	// Depth is the term's depth in the ontology hierarchy; deeper terms
	// are more specific and win score ties.
	Depth int `json:"depth" yaml:"depth"`

	// Curated is the term's last curation date; newer terms win remaining
	// ties.
	Curated time.Time `json:"curated,omitempty" yaml:"curated,omitempty"`
}

// Lookup abstracts the ontology-lookup capability: a text string and a
// vocabulary identifier in, ranked label matches out. Tests supply a fake
// returning canned candidates.
type Lookup interface {
	Search(ctx context.Context, term, vocabulary string) ([]Candidate, error)
}

// defaultVocabularies is the priority order for subject/object grounding.
var defaultVocabularies = []string{"GO", "CHEBI", "DOID", "PR", "UBERON", "CL"}

const defaultMinScore = 0.85

// Grounder maps assertion terms using an injected Lookup.
type Grounder struct {
	lookup       Lookup
	vocabularies []string
	minScore     float64
	timeout      time.Duration
	logw         io.Writer
}

// New builds a Grounder. Vocabulary names must be known ontology prefixes;
// an unknown name is a configuration error.
func New(lookup Lookup, cfg types.GroundingConfig, logw io.Writer) (*Grounder, error) {
	vocabs := cfg.Vocabularies
	if len(vocabs) == 0 {
		vocabs = defaultVocabularies
	}
	for _, v := range vocabs {
		if _, ok := Sources[v]; !ok {
			return nil, fmt.Errorf("unknown vocabulary %q", v)
		}
	}

	minScore := cfg.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logw == nil {
		logw = io.Discard
	}

	return &Grounder{
		lookup:       lookup,
		vocabularies: vocabs,
		minScore:     minScore,
		timeout:      timeout,
		logw:         logw,
	}, nil
}

// Ground populates the assertion's mapping fields where a confident match
// exists. Fields already mapped are left alone; lookup failures leave the
// field unmapped and are logged, never fatal.
func (g *Grounder) Ground(ctx context.Context, a *types.Assertion) {
	if a.SubjectMapping == nil {
		a.SubjectMapping = g.groundTerm(ctx, a.Subject, "subject")
	}
	if a.ObjectMapping == nil {
		a.ObjectMapping = g.groundTerm(ctx, a.Object, "object")
	}
	if a.PredicateMapping == nil {
		a.PredicateMapping = g.groundPredicate(ctx, a.Predicate)
	}
}

// groundTerm tries each vocabulary in priority order and returns the first
// accepted mapping, or nil when no vocabulary produces one.
func (g *Grounder) groundTerm(ctx context.Context, term, field string) *types.TermMapping {
	for _, vocab := range g.vocabularies {
		if m := g.search(ctx, term, field, vocab); m != nil {
			return m
		}
	}
	return nil
}

// groundPredicate consults the fixed relation synonym table first, then
// falls back to a Relation Ontology lookup.
func (g *Grounder) groundPredicate(ctx context.Context, predicate string) *types.TermMapping {
	if m := MapRelation(predicate); m != nil {
		return m
	}
	return g.search(ctx, predicate, "predicate", "RO")
}

// search runs one capability lookup and applies the scoring and tie-break
// policy. Candidates are scored with bigram Dice similarity against their
// label and synonyms; the best candidate wins if it reaches the threshold.
// Ties break toward the more specific term: greater depth, then more
// recent curation, then smallest id, so the result is total and
// reproducible.
func (g *Grounder) search(ctx context.Context, term, field, vocabulary string) *types.TermMapping {
	lookupCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	candidates, err := g.lookup.Search(lookupCtx, term, vocabulary)
	if err != nil {
		gerr := &types.GroundingError{Term: term, Field: field, Err: err}
		fmt.Fprintf(g.logw, "warning: %v (leaving unmapped)\n", gerr)
		return nil
	}

	type scored struct {
		Candidate
		score float64
	}
	var accepted []scored
	for _, c := range candidates {
		s := Score(term, c)
		if s >= g.minScore {
			accepted = append(accepted, scored{Candidate: c, score: s})
		}
	}
	if len(accepted) == 0 {
		return nil
	}

	sort.Slice(accepted, func(i, j int) bool {
		a, b := accepted[i], accepted[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.Depth != b.Depth {
			return a.Depth > b.Depth
		}
		if !a.Curated.Equal(b.Curated) {
			return a.Curated.After(b.Curated)
		}
		return a.ID < b.ID
	})

	best := accepted[0]
	source := best.Source
	if source == "" {
		source = vocabulary
	}
	return &types.TermMapping{ID: best.ID, Label: best.Label, Source: source}
}

// Score computes the similarity between a raw term and a candidate: the
// maximum Dice coefficient over the candidate's label and synonyms.
func Score(term string, c Candidate) float64 {
	best := Similarity(term, c.Label)
	for _, syn := range c.Synonyms {
		if s := Similarity(term, syn); s > best {
			best = s
		}
	}
	return best
}
