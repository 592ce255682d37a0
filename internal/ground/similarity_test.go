// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ground

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "caffeine", "caffeine", 1.0},
		{"case insensitive", "Caffeine", "CAFFEINE", 1.0},
		{"whitespace normalized", "adenosine  receptor", "adenosine receptor", 1.0},
		{"empty left", "", "caffeine", 0},
		{"empty right", "caffeine", "", 0},
		{"both empty", "", "", 0},
		{"disjoint", "xyz", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Similarity(tt.a, tt.b))
		})
	}
}

func TestSimilarityMorphology(t *testing.T) {
	// Minor suffix differences should stay above the default threshold.
	s := Similarity("adenosine receptors", "adenosine receptor")
	assert.Greater(t, s, defaultMinScore)
	assert.Less(t, s, 1.0)
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "apoptotic process", "apoptosis"
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestSimilarityUnrelatedBelowThreshold(t *testing.T) {
	assert.Less(t, Similarity("caffeine", "apoptosis"), defaultMinScore)
}

func TestScoreUsesBestOfLabelAndSynonyms(t *testing.T) {
	c := Candidate{
		ID:       "GO:0006915",
		Label:    "apoptotic process",
		Synonyms: []string{"apoptosis", "programmed cell death"},
	}
	assert.Equal(t, 1.0, Score("apoptosis", c))
	assert.Equal(t, 1.0, Score("apoptotic process", c))
	assert.Less(t, Score("mitosis", c), defaultMinScore)
}
