// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provenance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/triplemine/pkg/types"
)

const crossrefBody = `{
  "message": {
    "title": ["Caffeine and adenosine receptor signalling"],
    "author": [
      {"given": "Jane", "family": "Smith"},
      {"given": "Alex", "family": "Doe"},
      {"given": "", "family": ""}
    ],
    "issued": {"date-parts": [[2024, 3, 14]]}
  }
}`

// withCrossrefServer points the resolver at an httptest server for the test.
func withCrossrefServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := crossrefAPIBase
	crossrefAPIBase = ts.URL + "/works/"
	t.Cleanup(func() {
		crossrefAPIBase = old
		ts.Close()
	})
	return ts
}

func TestResolveFetchesMetadata(t *testing.T) {
	var gotPath, gotUA, gotQuery string
	withCrossrefServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(crossrefBody))
	})

	r := NewCrossrefResolver(types.ProvenanceConfig{CrossrefMailto: "user@example.com"})
	meta, err := r.Resolve(context.Background(), "10.1234/test", "38412345")
	require.NoError(t, err)

	assert.Equal(t, "/works/10.1234%2Ftest", gotPath)
	assert.Equal(t, "triplemine/0.1", gotUA)
	assert.Contains(t, gotQuery, "mailto=user%40example.com")

	assert.Equal(t, "10.1234/test", meta.DOI)
	assert.Equal(t, "38412345", meta.PMID)
	assert.Equal(t, "Caffeine and adenosine receptor signalling", meta.Title)
	assert.Equal(t, []string{"Smith, Jane", "Doe, Alex"}, meta.Authors)
	assert.Equal(t, 2024, meta.Year)
}

func TestResolveWithoutDOI(t *testing.T) {
	called := false
	withCrossrefServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := NewCrossrefResolver(types.ProvenanceConfig{})
	meta, err := r.Resolve(context.Background(), "", "1234567")
	require.NoError(t, err)

	assert.False(t, called, "no DOI, no network call")
	assert.Equal(t, types.PaperMeta{PMID: "1234567"}, meta)
}

func TestResolveHTTPError(t *testing.T) {
	withCrossrefServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r := NewCrossrefResolver(types.ProvenanceConfig{})
	meta, err := r.Resolve(context.Background(), "10.9999/unknown", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	// Inline identifiers survive a failed resolution.
	assert.Equal(t, "10.9999/unknown", meta.DOI)
}

func TestResolveMalformedResponse(t *testing.T) {
	withCrossrefServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{broken"))
	})

	r := NewCrossrefResolver(types.ProvenanceConfig{})
	_, err := r.Resolve(context.Background(), "10.1234/test", "")
	assert.ErrorContains(t, err, "parsing Crossref response")
}
