// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineConfigResolvesFlags(t *testing.T) {
	flags := processCmd.Flags()
	set := map[string]string{
		"pdf-dir":             "corpus",
		"api-key":             "sk-test",
		"workers":             "8",
		"burst":               "5",
		"max-retries":         "4",
		"requests-per-second": "2.5",
		"min-score":           "0.9",
	}
	for k, v := range set {
		require.NoError(t, flags.Set(k, v))
	}
	t.Cleanup(func() {
		for k := range set {
			f := flags.Lookup(k)
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		}
	})

	cfg := pipelineConfig(processCmd)

	assert.Equal(t, "corpus", cfg.Documents.PDFDir)
	assert.Equal(t, "sk-test", cfg.Extraction.APIKey)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 5, cfg.Extraction.Burst)
	assert.Equal(t, 4, cfg.Extraction.MaxRetries)
	assert.Equal(t, 2.5, cfg.Extraction.RequestsPerSecond)
	assert.InDelta(t, 0.9, cfg.Grounding.MinScore, 1e-9)
	assert.Equal(t, ".triplemine/assertions.db", cfg.StorePath)
}

func TestPipelineConfigFallsBackToConfigFile(t *testing.T) {
	viper.Set("workers", 6)
	viper.Set("extraction.burst", 3)
	viper.Set("extraction.max_retries", 2)
	viper.Set("documents.pdf_dir", "library")
	t.Cleanup(viper.Reset)

	cfg := pipelineConfig(processCmd)

	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, 3, cfg.Extraction.Burst)
	assert.Equal(t, 2, cfg.Extraction.MaxRetries)
	assert.Equal(t, "library", cfg.Documents.PDFDir)
}

func TestPipelineConfigDefaults(t *testing.T) {
	cfg := pipelineConfig(processCmd)

	assert.Equal(t, "papers", cfg.Documents.PDFDir)
	assert.Equal(t, ".triplemine/cache", cfg.Cache.CacheDir)
	assert.Equal(t, "lexicon.yaml", cfg.Grounding.LexiconPath)
	assert.Zero(t, cfg.Workers)
	assert.Zero(t, cfg.Extraction.Burst)
	assert.Zero(t, cfg.Extraction.MaxRetries)
}
