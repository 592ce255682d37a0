// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/triplemine/pkg/types"
)

func TestNewOpenAIExtractorRequiresKey(t *testing.T) {
	_, err := NewOpenAIExtractor(types.ExtractionConfig{})
	assert.ErrorContains(t, err, "API key is empty")
}

// chatServer fakes the chat completions endpoint, replying with content.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIExtractorParsesTriples(t *testing.T) {
	body := `{"triples":[{"subject":"caffeine","predicate":"inhibits","object":"adenosine receptor A2A","evidence":"Caffeine inhibits adenosine receptor A2A.","confidence":0.92}]}`
	ts := chatServer(t, body)
	defer ts.Close()

	ex, err := NewOpenAIExtractor(types.ExtractionConfig{
		AIConfig: types.AIConfig{APIKey: "test-key", BaseURL: ts.URL + "/v1"},
	})
	require.NoError(t, err)

	resp, err := ex.Extract(context.Background(), Request{Section: "Results", Text: "body"})
	require.NoError(t, err)
	require.Len(t, resp.Triples, 1)
	assert.Equal(t, "caffeine", resp.Triples[0].Subject)
	assert.Equal(t, 0.92, resp.Triples[0].Confidence)
}

func TestOpenAIExtractorMalformedResponse(t *testing.T) {
	ts := chatServer(t, "not json at all")
	defer ts.Close()

	ex, err := NewOpenAIExtractor(types.ExtractionConfig{
		AIConfig: types.AIConfig{APIKey: "test-key", BaseURL: ts.URL + "/v1"},
	})
	require.NoError(t, err)

	_, err = ex.Extract(context.Background(), Request{Text: "body"})
	assert.ErrorContains(t, err, "malformed extraction response")
}

func TestFormatRequest(t *testing.T) {
	assert.Equal(t, "body only", formatRequest(Request{Text: "body only"}))
	assert.Equal(t, "Section: Results\n\nbody", formatRequest(Request{Section: "Results", Text: "body"}))
}
