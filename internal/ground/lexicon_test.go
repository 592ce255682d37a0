// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ground

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLexicon(t *testing.T) {
	content := `GO:
  - id: GO:0006915
    label: apoptotic process
    synonyms: [apoptosis, programmed cell death]
    depth: 6
CHEBI:
  - id: CHEBI:27732
    label: caffeine
    depth: 8
`
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)

	gos, err := lex.Search(context.Background(), "apoptosis", "GO")
	require.NoError(t, err)
	require.Len(t, gos, 1)
	assert.Equal(t, "GO:0006915", gos[0].ID)
	assert.Equal(t, "GO", gos[0].Source, "source is stamped from the vocabulary key")
	assert.Equal(t, []string{"apoptosis", "programmed cell death"}, gos[0].Synonyms)
	assert.Equal(t, 6, gos[0].Depth)

	none, err := lex.Search(context.Background(), "anything", "DOID")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoadLexiconMissingFile(t *testing.T) {
	_, err := LoadLexicon(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadLexiconMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::: not yaml {"), 0o644))

	_, err := LoadLexicon(path)
	assert.Error(t, err)
}
