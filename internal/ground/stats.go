// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ground

import "github.com/pdiddy/triplemine/pkg/types"

// Stats holds per-field mapping counts for an assertion set. Each field is
// counted independently of whether the other fields mapped.
type Stats struct {
	Total           int `json:"total"`
	SubjectMapped   int `json:"subject_mapped"`
	PredicateMapped int `json:"predicate_mapped"`
	ObjectMapped    int `json:"object_mapped"`
}

// MappingStats computes mapped-count per field over the assertion set.
func MappingStats(assertions []types.Assertion) Stats {
	stats := Stats{Total: len(assertions)}
	for _, a := range assertions {
		if a.SubjectMapping != nil {
			stats.SubjectMapped++
		}
		if a.PredicateMapping != nil {
			stats.PredicateMapped++
		}
		if a.ObjectMapping != nil {
			stats.ObjectMapped++
		}
	}
	return stats
}

// SubjectRate returns mapped subjects / total, or 0 for an empty set.
func (s Stats) SubjectRate() float64 { return rate(s.SubjectMapped, s.Total) }

// PredicateRate returns mapped predicates / total, or 0 for an empty set.
func (s Stats) PredicateRate() float64 { return rate(s.PredicateMapped, s.Total) }

// ObjectRate returns mapped objects / total, or 0 for an empty set.
func (s Stats) ObjectRate() float64 { return rate(s.ObjectMapped, s.Total) }

func rate(mapped, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(mapped) / float64(total)
}
