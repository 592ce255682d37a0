// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ground

import "strings"

// Similarity scores two strings in [0,1] using the Sørensen–Dice
// coefficient over character bigrams of the case-folded, whitespace-
// normalized inputs. Exact normalized matches short-circuit to 1.0. The
// metric is symmetric and deterministic, and tolerates minor morphology
// ("receptor" vs "receptors") without an external model.
func Similarity(a, b string) float64 {
	na, nb := normalizeTerm(a), normalizeTerm(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	ba, bb := bigrams(na), bigrams(nb)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	overlap := 0
	for gram, count := range ba {
		if other, ok := bb[gram]; ok {
			overlap += min(count, other)
		}
	}

	totalA, totalB := 0, 0
	for _, c := range ba {
		totalA += c
	}
	for _, c := range bb {
		totalB += c
	}

	return 2 * float64(overlap) / float64(totalA+totalB)
}

// normalizeTerm lowercases and collapses internal whitespace.
func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// bigrams counts the character bigrams of s, with multiplicity.
func bigrams(s string) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}
