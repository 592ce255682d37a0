// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"

	"github.com/pdiddy/triplemine/pkg/types"
)

const defaultFallbackNS = "tm"

// turtlePrefixes are emitted at the top of every Turtle export, in this
// order.
var turtlePrefixes = []string{
	`@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .`,
	`@prefix obo: <http://purl.obolibrary.org/obo/> .`,
	`@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .`,
	`@prefix prov: <http://www.w3.org/ns/prov#> .`,
	`@prefix dcterms: <http://purl.org/dc/terms/> .`,
}

// Turtle serializes the (already sorted) assertion set as reified RDF
// statements. Grounded terms become obo: resources; unmapped terms stay
// literals. Statement identifiers live in the fallback namespace and are
// derived from the evidence hash, keeping the output reproducible.
func Turtle(assertions []types.Assertion, fallbackNS string) []byte {
	if fallbackNS == "" {
		fallbackNS = defaultFallbackNS
	}

	var b strings.Builder
	for _, p := range turtlePrefixes {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "@prefix %s: <urn:%s:assertion:> .\n\n", fallbackNS, fallbackNS)

	for _, a := range assertions {
		id := fmt.Sprintf("%s:%s", fallbackNS, EvidenceHash(a))

		fmt.Fprintf(&b, "%s a rdf:Statement ;\n", id)
		fmt.Fprintf(&b, "    rdf:subject %s ;\n", turtleTerm(a.SubjectMapping, a.Subject))
		fmt.Fprintf(&b, "    rdf:predicate %s ;\n", turtleTerm(a.PredicateMapping, a.Predicate))
		fmt.Fprintf(&b, "    rdf:object %s ;\n", turtleTerm(a.ObjectMapping, a.Object))

		if p := a.Provenance; p != nil {
			if p.PaperDOI != "" {
				fmt.Fprintf(&b, "    prov:wasQuotedFrom <https://doi.org/%s> ;\n", p.PaperDOI)
			}
			if p.ExtractionMethod != "" {
				fmt.Fprintf(&b, "    prov:wasGeneratedBy %s ;\n", turtleLiteral(p.ExtractionMethod))
			}
		}

		fmt.Fprintf(&b, "    dcterms:confidence \"%.3f\"^^xsd:decimal ;\n", a.Confidence)
		fmt.Fprintf(&b, "    prov:wasInfluencedBy %s .\n\n", turtleLiteral(a.Evidence))
	}

	return []byte(b.String())
}

// turtleTerm renders a grounded term as an obo: resource and an unmapped
// term as a typed literal.
func turtleTerm(m *types.TermMapping, text string) string {
	if m != nil {
		if prefix, idPart, ok := strings.Cut(m.ID, ":"); ok {
			return fmt.Sprintf("obo:%s_%s", prefix, idPart)
		}
		return fmt.Sprintf("<%s>", m.ID)
	}
	return turtleLiteral(text) + "^^xsd:string"
}

// turtleLiteral escapes and quotes a string literal.
func turtleLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
