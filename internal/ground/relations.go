// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ground

import (
	"sort"
	"strings"

	"github.com/pdiddy/triplemine/pkg/types"
)

// Sources maps each supported vocabulary prefix to its OWL location. The
// set doubles as the list of valid vocabulary names for configuration.
var Sources = map[string]string{
	"RO":     "http://purl.obolibrary.org/obo/ro.owl",
	"GO":     "http://purl.obolibrary.org/obo/go.owl",
	"CHEBI":  "http://purl.obolibrary.org/obo/chebi.owl",
	"DOID":   "http://purl.obolibrary.org/obo/doid.owl",
	"MONDO":  "http://purl.obolibrary.org/obo/mondo.owl",
	"HP":     "http://purl.obolibrary.org/obo/hp.owl",
	"CL":     "http://purl.obolibrary.org/obo/cl.owl",
	"MI":     "http://purl.obolibrary.org/obo/mi.owl",
	"SO":     "http://purl.obolibrary.org/obo/so.owl",
	"PR":     "http://purl.obolibrary.org/obo/pr.owl",
	"UBERON": "http://purl.obolibrary.org/obo/uberon.owl",
}

// relation is one canonical predicate in the Relation Ontology.
type relation struct {
	id    string
	label string
}

// relationTable is the fixed synonym-to-canonical-predicate table. Keys are
// normalized predicate synonyms; values are RO (or BFO, for mereology)
// terms.
var relationTable = map[string]relation{
	// Causal relationships.
	"increases": {"RO:0002304", "causally upstream of, positive effect"},
	"decreases": {"RO:0002305", "causally upstream of, negative effect"},
	"causes":    {"RO:0002506", "causes or contributes to condition"},
	"prevents":  {"RO:0002559", "prevents or alleviates"},

	// Regulatory relationships.
	"activates": {"RO:0002213", "positively regulates"},
	"inhibits":  {"RO:0002212", "negatively regulates"},
	"regulates": {"RO:0002211", "regulates"},
	"modulates": {"RO:0002578", "directly regulates"},

	// Associative relationships.
	"associated with": {"RO:0002451", "has quality or characteristic"},
	"correlated with": {"RO:0002610", "correlated with"},

	// Functional relationships.
	"has function":    {"RO:0000085", "has function"},
	"participates in": {"RO:0000056", "participates in"},
	"part of":         {"BFO:0000050", "part of"},
	"has part":        {"BFO:0000051", "has part"},

	// Compositional relationships.
	"contains":    {"RO:0001019", "contains"},
	"composed of": {"RO:0002180", "has component"},
}

// relationKeys holds the table keys in sorted order so substring fallback
// matching is deterministic.
var relationKeys = func() []string {
	keys := make([]string, 0, len(relationTable))
	for k := range relationTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// MapRelation resolves a raw predicate against the relation table. An exact
// normalized match wins; otherwise the first (lexicographic) table synonym
// contained in the predicate is used. Returns nil when nothing matches.
func MapRelation(predicate string) *types.TermMapping {
	normalized := normalizeRelation(predicate)
	if normalized == "" {
		return nil
	}

	if rel, ok := relationTable[normalized]; ok {
		return &types.TermMapping{ID: rel.id, Label: rel.label, Source: "RO"}
	}

	for _, key := range relationKeys {
		if strings.Contains(normalized, key) {
			rel := relationTable[key]
			return &types.TermMapping{ID: rel.id, Label: rel.label, Source: "RO"}
		}
	}
	return nil
}

// normalizeRelation lowercases a predicate and folds underscores and
// hyphens to spaces so "associated_with" and "Associated-With" both hit
// the table.
func normalizeRelation(predicate string) string {
	s := strings.ToLower(strings.TrimSpace(predicate))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
